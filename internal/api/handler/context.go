package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/buscaroli/shifts-api/internal/api/middleware"
	"github.com/buscaroli/shifts-api/internal/core/domain"
)

// currentUser returns the user and raw token the Auth middleware stored.
// Missing values mean the route was registered without the middleware; that
// is treated as an unauthenticated request.
func currentUser(c echo.Context) (*domain.User, string, error) {
	user, _ := c.Get(middleware.UserKey).(*domain.User)
	token, _ := c.Get(middleware.TokenKey).(string)
	if user == nil || token == "" {
		return nil, "", domain.ErrUnauthenticated
	}
	return user, token, nil
}
