package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is the authorization tier assigned to a user. The set is closed.
type Profile string

const (
	ProfileSudo     Profile = "sudo"
	ProfileStandard Profile = "standard"
)

// Valid reports whether p is one of the recognized profiles.
func (p Profile) Valid() bool {
	switch p {
	case ProfileSudo, ProfileStandard:
		return true
	}
	return false
}

// User is the identity record. Username and email are unique among active
// (not soft-deleted) users; Password holds a bcrypt hash.
type User struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	Username  string         `gorm:"not null;uniqueIndex:idx_users_username_active,where:deleted_at IS NULL" json:"username"`
	Email     string         `gorm:"not null;uniqueIndex:idx_users_email_active,where:deleted_at IS NULL" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Profile   Profile        `gorm:"not null;size:32" json:"profile"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
	Posts     []Post         `gorm:"foreignKey:UserID" json:"posts"`
	Comments  []Comment      `gorm:"foreignKey:UserID" json:"comments"`
}

// TableName returns the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns an id when the caller left it empty.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Subject is the token subject for the user.
func (u *User) Subject() string {
	return "user:" + u.ID
}
