package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/buscaroli/shifts-api/internal/api/metrics"
	"github.com/buscaroli/shifts-api/internal/core/ports"
)

// Context keys set by Auth.
const (
	UserKey  = "user"
	TokenKey = "token"
)

// Auth resolves the Authorization header through gate and stores the user and
// the raw token in the context. Failures are passed on untouched so the error
// handler renders a uniform 401.
func Auth(gate ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, token, err := gate.Authenticate(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				metrics.AuthRejectionsTotal.Inc()
				return err
			}

			c.Set(UserKey, user)
			c.Set(TokenKey, token)

			return next(c)
		}
	}
}
