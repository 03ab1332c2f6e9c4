package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/techlab/challenge-backend/internal/apperr"
	"github.com/techlab/challenge-backend/internal/models"
	"github.com/techlab/challenge-backend/internal/users"
	"github.com/techlab/challenge-backend/pkg/metrics"
)

// UserService is what the users handler needs from internal/users.
type UserService interface {
	FindOne(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, patch users.Patch) (*models.User, error)
	Delete(ctx context.Context, id string) (*models.User, error)
}

type UsersHandler struct {
	svc UserService
}

func NewUsersHandler(svc UserService) *UsersHandler {
	return &UsersHandler{svc: svc}
}

// Register routes under /users. mw runs before every user route.
func (h *UsersHandler) Register(rg gin.IRouter, mw ...gin.HandlerFunc) {
	u := rg.Group("/users", mw...)
	u.GET("/:userId", h.FindOne)
	u.PATCH("/:userId", h.Update)
	u.DELETE("/:userId", h.Delete)
}

func (h *UsersHandler) FindOne(c *gin.Context) {
	u, err := h.svc.FindOne(c.Request.Context(), c.Param("userId"))
	h.reply(c, "find", u, err)
}

// Update applies a partial update. Unknown fields in the body are ignored.
func (h *UsersHandler) Update(c *gin.Context) {
	var patch users.Patch
	if err := c.ShouldBindJSON(&patch); err != nil && !errors.Is(err, io.EOF) {
		h.reply(c, "update", nil, apperr.Wrap(apperr.KindBadRequest, "Failed to update user", err))
		return
	}
	u, err := h.svc.Update(c.Request.Context(), c.Param("userId"), patch)
	h.reply(c, "update", u, err)
}

// Delete soft-deletes the user and returns the record as it was.
func (h *UsersHandler) Delete(c *gin.Context) {
	u, err := h.svc.Delete(c.Request.Context(), c.Param("userId"))
	h.reply(c, "delete", u, err)
}

func (h *UsersHandler) reply(c *gin.Context, op string, u *models.User, err error) {
	if err != nil {
		respondError(c, err)
	} else {
		c.JSON(http.StatusOK, u)
	}
	metrics.UserOperations.WithLabelValues(op, strconv.Itoa(c.Writer.Status())).Inc()
}
