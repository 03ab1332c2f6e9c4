package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techlab/challenge-backend/internal/apperr"
	"github.com/techlab/challenge-backend/internal/auth"
	"github.com/techlab/challenge-backend/pkg/metrics"
)

// SignInService is what the auth handler needs from internal/auth.
type SignInService interface {
	SignIn(ctx context.Context, creds auth.Credentials) (*auth.AccessToken, error)
}

// AuthHandler holds dependencies
type AuthHandler struct {
	svc SignInService
}

func NewAuthHandler(svc SignInService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register routes under /auth. mw runs before every auth route.
func (h *AuthHandler) Register(rg gin.IRouter, mw ...gin.HandlerFunc) {
	a := rg.Group("/auth", mw...)
	a.POST("/sign-in", h.SignIn)
}

// SignIn exchanges {username, password} for a bearer access token. username
// may also hold the account email.
func (h *AuthHandler) SignIn(c *gin.Context) {
	creds, err := bindCredentials(c)
	if err != nil {
		metrics.SignInTotal.WithLabelValues("invalid_request").Inc()
		respondError(c, err)
		return
	}
	tok, err := h.svc.SignIn(c.Request.Context(), creds)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tok)
}

// bindCredentials checks the raw JSON shape: an object whose username and
// password are both strings. An empty body reads as {} and an array as an
// object without fields, so both fail on username.
func bindCredentials(c *gin.Context) (auth.Credentials, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return auth.Credentials{}, apperr.New(apperr.KindInvalidRequest, "body is required")
	}
	var decoded interface{}
	if len(bytes.TrimSpace(raw)) == 0 {
		decoded = map[string]interface{}{}
	} else if err := json.Unmarshal(raw, &decoded); err != nil {
		return auth.Credentials{}, apperr.New(apperr.KindInvalidRequest, "body is required")
	}

	var body map[string]interface{}
	switch v := decoded.(type) {
	case map[string]interface{}:
		body = v
	case []interface{}:
		body = map[string]interface{}{}
	default:
		return auth.Credentials{}, apperr.New(apperr.KindInvalidRequest, "body is required")
	}
	username, ok := body["username"].(string)
	if !ok {
		return auth.Credentials{}, apperr.New(apperr.KindInvalidRequest, "body.username is required")
	}
	password, ok := body["password"].(string)
	if !ok {
		return auth.Credentials{}, apperr.New(apperr.KindInvalidRequest, "body.password is required")
	}
	return auth.Credentials{Username: username, Password: password}, nil
}
