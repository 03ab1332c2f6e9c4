package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/techlab/challenge-backend/internal/apperr"
	"github.com/techlab/challenge-backend/internal/config"
	"github.com/techlab/challenge-backend/internal/models"
	"github.com/techlab/challenge-backend/internal/passwords"
	"github.com/techlab/challenge-backend/internal/profiles"
	"github.com/techlab/challenge-backend/internal/tokens"
	"github.com/techlab/challenge-backend/internal/users"
	"github.com/techlab/challenge-backend/pkg/metrics"
)

type fakeFinder struct {
	users []models.User
	err   error
	calls int
}

func (f *fakeFinder) FindActiveByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.users {
		if f.users[i].Username == identifier || f.users[i].Email == identifier {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, users.ErrNotFound
}

type fakeVerifier struct {
	ok    bool
	calls int
}

func (v *fakeVerifier) Verify(plain, hash string) bool {
	v.calls++
	return v.ok
}

type fakeIssuer struct {
	token   string
	err     error
	subject string
	scopes  []string
}

func (i *fakeIssuer) Issue(ctx context.Context, subject string, scopes []string) (string, error) {
	i.subject = subject
	i.scopes = scopes
	return i.token, i.err
}

func hashOf(t *testing.T, plain string) string {
	t.Helper()
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(b)
}

func newJWTIssuer(t *testing.T) *tokens.JWTIssuer {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Name = config.DefaultAppName
	cfg.JWT.Secret = "sign-in-test-secret"
	cfg.JWT.AccessTokenTTL = time.Hour
	iss, err := tokens.NewJWTIssuer(cfg)
	require.NoError(t, err)
	return iss
}

func kindOf(t *testing.T, err error) apperr.Kind {
	t.Helper()
	var ae *apperr.Error
	require.True(t, errors.As(err, &ae), "expected *apperr.Error, got %T", err)
	return ae.Kind
}

func TestSignIn_StandardUserByUsername(t *testing.T) {
	alice := models.User{ID: "u1", Username: "alice", Email: "alice@x.com", Password: hashOf(t, "pw1"), Profile: models.ProfileStandard}
	iss := newJWTIssuer(t)
	svc := NewService(&fakeFinder{users: []models.User{alice}}, passwords.NewBcrypt(), profiles.NewRegistry(), iss, iss.TTL())

	before := testutil.ToFloat64(metrics.SignInTotal.WithLabelValues("success"))
	tok, err := svc.SignIn(context.Background(), Credentials{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.Equal(t, int64(3600), tok.ExpiresIn)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.SignInTotal.WithLabelValues("success")))

	claims, err := iss.Parse(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user:u1", claims.Subject)
	assert.Equal(t, config.DefaultAppName, claims.Issuer)
	assert.Equal(t, []string{config.DefaultAppName}, []string(claims.Audience))
	assert.Equal(t, []string{"users:read", "users:u1:update", "users:u1:delete", "posts:create", "comments:create"}, claims.Scopes)
	assert.Equal(t, time.Hour, claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time))
}

func TestSignIn_ByEmailSudo(t *testing.T) {
	root := models.User{ID: "u9", Username: "root", Email: "root@x.com", Password: hashOf(t, "s3cret"), Profile: models.ProfileSudo}
	iss := newJWTIssuer(t)
	svc := NewService(&fakeFinder{users: []models.User{root}}, passwords.NewBcrypt(), profiles.NewRegistry(), iss, iss.TTL())

	tok, err := svc.SignIn(context.Background(), Credentials{Username: "root@x.com", Password: "s3cret"})
	require.NoError(t, err)
	claims, err := iss.Parse(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, []string{"*"}, claims.Scopes)
	assert.Equal(t, "user:u9", claims.Subject)
}

func TestSignIn_UnknownUserSkipsVerifier(t *testing.T) {
	ver := &fakeVerifier{ok: true}
	iss := &fakeIssuer{token: "t"}
	svc := NewService(&fakeFinder{}, ver, profiles.NewRegistry(), iss, time.Hour)

	_, err := svc.SignIn(context.Background(), Credentials{Username: "ghost", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, kindOf(t, err))
	assert.Equal(t, "User not found", err.Error())
	assert.Equal(t, 0, ver.calls)
}

func TestSignIn_WrongPassword(t *testing.T) {
	alice := models.User{ID: "u1", Username: "alice", Password: "h", Profile: models.ProfileStandard}
	iss := &fakeIssuer{token: "t"}
	svc := NewService(&fakeFinder{users: []models.User{alice}}, &fakeVerifier{ok: false}, profiles.NewRegistry(), iss, time.Hour)

	_, err := svc.SignIn(context.Background(), Credentials{Username: "alice", Password: "nope"})
	assert.Equal(t, apperr.KindUnauthorized, kindOf(t, err))
	assert.Equal(t, "Invalid password", err.Error())
	assert.Empty(t, iss.subject)
}

func TestSignIn_UnknownProfileIsInvalidState(t *testing.T) {
	guest := models.User{ID: "u2", Username: "guest", Password: "h", Profile: "guest"}
	iss := &fakeIssuer{token: "t"}
	svc := NewService(&fakeFinder{users: []models.User{guest}}, &fakeVerifier{ok: true}, profiles.NewRegistry(), iss, time.Hour)

	_, err := svc.SignIn(context.Background(), Credentials{Username: "guest", Password: "pw"})
	assert.Equal(t, apperr.KindInvalidState, kindOf(t, err))
	assert.Equal(t, "Invalid profile", err.Error())
	assert.Empty(t, iss.subject)
}

func TestSignIn_IssuanceFailures(t *testing.T) {
	alice := models.User{ID: "u1", Username: "alice", Password: "h", Profile: models.ProfileStandard}

	cases := []struct {
		name   string
		issuer *fakeIssuer
	}{
		{"issuer error", &fakeIssuer{err: errors.New("hsm offline")}},
		{"empty token", &fakeIssuer{token: ""}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(&fakeFinder{users: []models.User{alice}}, &fakeVerifier{ok: true}, profiles.NewRegistry(), tc.issuer, time.Hour)
			tok, err := svc.SignIn(context.Background(), Credentials{Username: "alice", Password: "pw"})
			assert.Nil(t, tok)
			assert.Equal(t, apperr.KindIssuance, kindOf(t, err))
		})
	}
}

func TestSignIn_StorageFaultIsInternal(t *testing.T) {
	svc := NewService(&fakeFinder{err: errors.New("db down")}, &fakeVerifier{ok: true}, profiles.NewRegistry(), &fakeIssuer{token: "t"}, time.Hour)
	_, err := svc.SignIn(context.Background(), Credentials{Username: "alice", Password: "pw"})
	assert.Equal(t, apperr.KindInternal, kindOf(t, err))
	assert.True(t, errors.Is(err, apperr.Internal))
}

func TestSignIn_PassesSubjectAndScopesToIssuer(t *testing.T) {
	alice := models.User{ID: "u1", Username: "alice", Password: "h", Profile: models.ProfileStandard}
	iss := &fakeIssuer{token: "signed"}
	svc := NewService(&fakeFinder{users: []models.User{alice}}, &fakeVerifier{ok: true}, profiles.NewRegistry(), iss, 0)

	tok, err := svc.SignIn(context.Background(), Credentials{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "signed", tok.AccessToken)
	assert.Equal(t, int64(3600), tok.ExpiresIn)
	assert.Equal(t, "user:u1", iss.subject)
	assert.Contains(t, iss.scopes, "users:u1:update")
}
