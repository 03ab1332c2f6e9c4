package users

import (
	"github.com/go-playground/validator/v10"
	"github.com/techlab/challenge-backend/internal/models"
)

var validate = validator.New()

// Patch is a partial update. Only non-nil fields overwrite the stored record.
type Patch struct {
	Username *string         `json:"username" validate:"omitempty,min=1,max=64"`
	Email    *string         `json:"email" validate:"omitempty,min=1,max=254"`
	Password *string         `json:"password" validate:"omitempty,min=1,max=72"`
	Profile  *models.Profile `json:"profile" validate:"omitempty,oneof=sudo standard"`
}

// Validate checks the fields that are present.
func (p Patch) Validate() error {
	return validate.Struct(p)
}

// apply merges the patch into u. The password must already be hashed.
func (p Patch) apply(u *models.User, passwordHash string) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Password != nil {
		u.Password = passwordHash
	}
	if p.Profile != nil {
		u.Profile = *p.Profile
	}
}
