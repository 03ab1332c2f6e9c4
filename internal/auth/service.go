// Package auth implements password sign-in that issues scoped bearer tokens.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/techlab/challenge-backend/internal/apperr"
	"github.com/techlab/challenge-backend/internal/models"
	"github.com/techlab/challenge-backend/internal/passwords"
	"github.com/techlab/challenge-backend/internal/profiles"
	"github.com/techlab/challenge-backend/internal/tokens"
	"github.com/techlab/challenge-backend/internal/users"
	"github.com/techlab/challenge-backend/pkg/logger"
	"github.com/techlab/challenge-backend/pkg/metrics"
)

const TokenType = "Bearer"

// UserFinder is the lookup sign-in needs from the user store.
type UserFinder interface {
	FindActiveByIdentifier(ctx context.Context, identifier string) (*models.User, error)
}

// Credentials as submitted by the client. Username may be a username or an email.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AccessToken is the sign-in response body.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Service verifies credentials and issues tokens.
type Service struct {
	users    UserFinder
	verifier passwords.Verifier
	registry *profiles.Registry
	issuer   tokens.Issuer
	ttl      time.Duration
}

func NewService(u UserFinder, v passwords.Verifier, r *profiles.Registry, i tokens.Issuer, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{users: u, verifier: v, registry: r, issuer: i, ttl: ttl}
}

// SignIn authenticates the credentials and returns a signed access token.
func (s *Service) SignIn(ctx context.Context, creds Credentials) (*AccessToken, error) {
	tok, outcome, err := s.signIn(ctx, creds)
	metrics.SignInTotal.WithLabelValues(outcome).Inc()
	return tok, err
}

func (s *Service) signIn(ctx context.Context, creds Credentials) (*AccessToken, string, error) {
	u, err := s.users.FindActiveByIdentifier(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, "not_found", apperr.New(apperr.KindNotFound, "User not found")
		}
		logger.Errorf("sign-in lookup failed: %v", err)
		return nil, "internal_error", apperr.Wrap(apperr.KindInternal, "Failed to fetch user", err)
	}

	if !s.verifier.Verify(creds.Password, u.Password) {
		return nil, "unauthorized", apperr.New(apperr.KindUnauthorized, "Invalid password")
	}

	scopes, ok := s.registry.Scopes(u)
	if !u.Profile.Valid() || !ok {
		logger.Warnf("user %s has unrecognized profile %q", u.ID, u.Profile)
		return nil, "invalid_state", apperr.New(apperr.KindInvalidState, "Invalid profile")
	}

	raw, err := s.issuer.Issue(ctx, u.Subject(), scopes)
	if err != nil {
		logger.Errorf("token issuance failed for %s: %v", u.Subject(), err)
		return nil, "issuance_error", apperr.Wrap(apperr.KindIssuance, "Failed to issue access token", err)
	}
	if raw == "" {
		return nil, "issuance_error", apperr.New(apperr.KindIssuance, "Failed to issue access token")
	}

	logger.Debugf("issued access token for %s", u.Subject())
	return &AccessToken{
		AccessToken: raw,
		TokenType:   TokenType,
		ExpiresIn:   int64(s.ttl / time.Second),
	}, "success", nil
}
