package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"agrirent/internal/domain/entity"
	"agrirent/internal/usecase"
	"agrirent/pkg/errors"
)

const (
	ContextUserID = "uid"
	ContextUser   = "user"
)

type AuthMiddleware struct {
	authUseCase *usecase.AuthUseCase
}

func NewAuthMiddleware(authUseCase *usecase.AuthUseCase) *AuthMiddleware {
	return &AuthMiddleware{
		authUseCase: authUseCase,
	}
}

// Authenticate requires a valid bearer token for an active user.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := bearerToken(c)
		if err != nil {
			return err
		}
		if err := m.resolve(c, token); err != nil {
			return err
		}
		return next(c)
	}
}

// AuthenticateWebSocket also accepts the token as a query parameter, since browsers
// cannot set headers on a websocket handshake.
func (m *AuthMiddleware) AuthenticateWebSocket(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := c.QueryParam("token")
		if token == "" {
			var err error
			if token, err = bearerToken(c); err != nil {
				return err
			}
		}
		if err := m.resolve(c, token); err != nil {
			return err
		}
		return next(c)
	}
}

// OptionalAuth identifies the caller when it can and never rejects the request.
func (m *AuthMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if token, err := bearerToken(c); err == nil {
			_ = m.resolve(c, token)
		}
		return next(c)
	}
}

func (m *AuthMiddleware) resolve(c echo.Context, token string) error {
	user, err := m.authUseCase.Authenticate(c.Request().Context(), token)
	if err != nil {
		return err
	}
	c.Set(ContextUserID, user.ID)
	c.Set(ContextUser, user)
	return nil
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.Unauthorized("Authorization header is required", nil)
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", errors.Unauthorized("Invalid authorization format", nil)
	}
	return strings.TrimSpace(parts[1]), nil
}

// CurrentUser returns the authenticated user, or nil on routes without authentication.
func CurrentUser(c echo.Context) *entity.User {
	user, _ := c.Get(ContextUser).(*entity.User)
	return user
}

func CurrentUserID(c echo.Context) string {
	uid, _ := c.Get(ContextUserID).(string)
	return uid
}
