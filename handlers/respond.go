package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techlab/challenge-backend/internal/apperr"
	"github.com/techlab/challenge-backend/pkg/logger"
)

// respondError writes {message} and, when a collaborator message exists,
// {error}. The status comes from the error kind.
func respondError(c *gin.Context, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		logger.Errorf("%s %s: unclassified error: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error", "error": err.Error()})
		return
	}
	status := ae.Kind.HTTPStatus()
	if status >= http.StatusInternalServerError {
		logger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	body := gin.H{"message": ae.Message}
	if d := ae.Detail(); d != "" {
		body["error"] = d
	}
	c.JSON(status, body)
}
