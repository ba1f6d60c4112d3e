package handler

import (
	"net/http"

	"oj/internal/delivery/http/middleware"
	domainerrors "oj/internal/domain/errors"

	"github.com/labstack/echo/v4"
)

// UserHandler holds dependencies for user-related handlers.
type UserHandler struct{}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Me returns the authenticated caller's account.
func (h *UserHandler) Me(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return domainerrors.ErrUnauthenticated
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}
