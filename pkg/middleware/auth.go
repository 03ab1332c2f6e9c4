package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/techlab/challenge-backend/internal/tokens"
)

// ClaimsKey is the gin context key holding the verified token claims as a
// map with "sub" and "scopes".
const ClaimsKey = "claims"

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Parse(raw string) (*tokens.Claims, error)
}

// AuthMiddleware returns a Gin middleware that verifies Bearer tokens using the provided verifier
func AuthMiddleware(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing Authorization header"})
			return
		}
		// Expect 'Bearer <token>'
		scheme, token, ok := strings.Cut(auth, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid Authorization header"})
			return
		}

		claims, err := ver.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token", "error": err.Error()})
			return
		}

		scopes := claims.Scopes
		if scopes == nil {
			scopes = []string{}
		}
		c.Set(ClaimsKey, map[string]interface{}{
			"sub":    claims.Subject,
			"scopes": scopes,
		})
		c.Next()
	}
}

// limitKey prefers the authenticated subject when present, otherwise the client IP.
func limitKey(c *gin.Context) string {
	if v, ok := c.Get(ClaimsKey); ok {
		if cm, ok2 := v.(map[string]interface{}); ok2 {
			if sub, ok3 := cm["sub"].(string); ok3 && sub != "" {
				return "sub:" + sub
			}
		}
	}
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}
