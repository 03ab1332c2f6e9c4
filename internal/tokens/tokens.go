package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/techlab/challenge-backend/internal/config"
)

// Claims carried by access tokens.
type Claims struct {
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

// Issuer signs claims into a bearer token.
type Issuer interface {
	Issue(ctx context.Context, subject string, scopes []string) (string, error)
}

// JWTIssuer signs HS256 tokens whose audience and issuer are the app name.
type JWTIssuer struct {
	secret   []byte
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewJWTIssuer creates an issuer from the process configuration.
func NewJWTIssuer(cfg *config.Config) (*JWTIssuer, error) {
	if cfg.JWT.Secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	ttl := cfg.JWT.AccessTokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JWTIssuer{
		secret:   []byte(cfg.JWT.Secret),
		audience: cfg.App.Name,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// TTL is the lifetime of issued tokens.
func (i *JWTIssuer) TTL() time.Duration { return i.ttl }

func (i *JWTIssuer) Issue(ctx context.Context, subject string, scopes []string) (string, error) {
	now := i.now()
	claims := Claims{
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    i.audience,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString(i.secret)
}

// Parse verifies signature, algorithm, audience, issuer and expiry.
func (i *JWTIssuer) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithAudience(i.audience),
		jwt.WithIssuer(i.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
