// Package profiles maps each user profile to the scopes it grants.
package profiles

import "github.com/techlab/challenge-backend/internal/models"

// ScopeFunc derives the scopes granted to a user.
type ScopeFunc func(u *models.User) []string

// Registry is read-only after NewRegistry returns and safe for concurrent use.
type Registry struct {
	entries map[models.Profile]ScopeFunc
}

// NewRegistry builds the registry for the closed profile set.
func NewRegistry() *Registry {
	return &Registry{entries: map[models.Profile]ScopeFunc{
		models.ProfileSudo:     sudoScopes,
		models.ProfileStandard: standardScopes,
	}}
}

// Scopes returns the scopes for the user's profile. ok is false when the
// profile is not registered.
func (r *Registry) Scopes(u *models.User) (scopes []string, ok bool) {
	fn, ok := r.entries[u.Profile]
	if !ok {
		return nil, false
	}
	scopes = fn(u)
	if scopes == nil {
		scopes = []string{}
	}
	return scopes, true
}

func sudoScopes(*models.User) []string {
	return []string{"*"}
}

func standardScopes(u *models.User) []string {
	return []string{
		"users:read",
		"users:" + u.ID + ":update",
		"users:" + u.ID + ":delete",
		"posts:create",
		"comments:create",
	}
}
