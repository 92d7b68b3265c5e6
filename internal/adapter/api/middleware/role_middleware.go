package middleware

import (
	"github.com/labstack/echo/v4"

	"agrirent/pkg/errors"
)

// RequireRole admits authenticated users whose role is one of roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return errors.Unauthorized("Authentication required", nil)
			}

			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return errors.Forbidden("Access denied for role "+user.Role, nil)
		}
	}
}
