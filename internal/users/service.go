package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/techlab/challenge-backend/internal/apperr"
	"github.com/techlab/challenge-backend/internal/models"
)

// Hasher turns a plaintext password into its stored form.
type Hasher interface {
	Hash(plain string) (string, error)
}

// Service encapsulates user record operations: read, partial update and soft delete.
type Service struct {
	repo   Repository
	hasher Hasher
}

func NewService(r Repository, h Hasher) *Service {
	return &Service{repo: r, hasher: h}
}

func notFound(id string) error {
	return apperr.New(apperr.KindNotFound, fmt.Sprintf("User with ID %s not found", id))
}

// FindOne returns the active user with posts and comments attached.
func (s *Service) FindOne(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, apperr.Wrap(apperr.KindInternal, "Failed to fetch user", err)
	}
	return u, nil
}

// Update merges patch into the stored record and persists it. Faults on this
// path are attributed to the caller's input.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (*models.User, error) {
	const msg = "Failed to update user"
	u, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, apperr.Wrap(apperr.KindBadRequest, msg, err)
	}

	if err := patch.Validate(); err != nil {
		return nil, apperr.Wrap(apperr.KindBadRequest, msg, err)
	}

	var hash string
	if patch.Password != nil {
		hash, err = s.hasher.Hash(*patch.Password)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindBadRequest, msg, err)
		}
	}
	patch.apply(u, hash)

	if err := s.repo.Update(ctx, u); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, apperr.Wrap(apperr.KindBadRequest, msg, err)
	}
	return u, nil
}

// Delete soft-deletes the user and returns the record as it was before deletion.
func (s *Service) Delete(ctx context.Context, id string) (*models.User, error) {
	const msg = "Failed to delete user"
	u, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, apperr.Wrap(apperr.KindBadRequest, msg, err)
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, apperr.Wrap(apperr.KindBadRequest, msg, err)
	}
	return u, nil
}

// Create stores a new user, hashing the plaintext password. Used by the seed CLI.
func (s *Service) Create(ctx context.Context, username, email, password string, profile models.Profile) (*models.User, error) {
	const msg = "Failed to create user"
	p := Patch{Username: &username, Email: &email, Password: &password, Profile: &profile}
	if err := p.Validate(); err != nil {
		return nil, apperr.Wrap(apperr.KindBadRequest, msg, err)
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBadRequest, msg, err)
	}
	u := &models.User{Username: username, Email: email, Password: hash, Profile: profile}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, apperr.Wrap(apperr.KindBadRequest, msg, err)
	}
	return u, nil
}
