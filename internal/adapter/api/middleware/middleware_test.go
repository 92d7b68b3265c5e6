package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrirent/internal/adapter/repository"
	"agrirent/internal/domain/entity"
	"agrirent/internal/infrastructure/ratelimit"
	"agrirent/internal/infrastructure/token"
	"agrirent/internal/usecase"
	"agrirent/pkg/errors"
	"agrirent/pkg/response"
)

func ok(c echo.Context) error {
	return c.String(http.StatusOK, CurrentUserID(c))
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newAuth(t *testing.T) (*AuthMiddleware, string) {
	t.Helper()
	users := repository.NewMemoryUserRepository()
	require.NoError(t, users.Create(context.Background(), &entity.User{
		ID: "u1", Name: "Ravi", Email: "ravi@example.com", Role: entity.RoleFarmer, IsActive: true,
	}))
	tokens := token.NewJWTService("secret", time.Hour)
	tok, err := tokens.IssueToken(context.Background(), "u1")
	require.NoError(t, err)
	return NewAuthMiddleware(usecase.NewAuthUseCase(users, tokens)), tok
}

func TestAuthenticate(t *testing.T) {
	m, tok := newAuth(t)
	e := echo.New()
	e.HTTPErrorHandler = response.HTTPErrorHandler
	e.GET("/private", ok, m.Authenticate)
	e.GET("/optional", ok, m.OptionalAuth)
	e.GET("/ws", ok, m.AuthenticateWebSocket)

	tests := []struct {
		name   string
		path   string
		header string
		status int
		body   string
	}{
		{"missing header", "/private", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "/private", "Token " + tok, http.StatusUnauthorized, ""},
		{"bad token", "/private", "Bearer nope", http.StatusUnauthorized, ""},
		{"valid", "/private", "Bearer " + tok, http.StatusOK, "u1"},
		{"optional anonymous", "/optional", "", http.StatusOK, ""},
		{"optional bad token", "/optional", "Bearer nope", http.StatusOK, ""},
		{"optional valid", "/optional", "Bearer " + tok, http.StatusOK, "u1"},
		{"ws query token", "/ws?token=" + tok, "", http.StatusOK, "u1"},
		{"ws header token", "/ws", "Bearer " + tok, http.StatusOK, "u1"},
		{"ws without token", "/ws", "", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := serve(e, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = response.HTTPErrorHandler
	as := func(role string) echo.MiddlewareFunc {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				if role != "" {
					c.Set(ContextUserID, "u1")
					c.Set(ContextUser, &entity.User{ID: "u1", Role: role})
				}
				return next(c)
			}
		}
	}
	e.GET("/anon", ok, as(""), RequireRole(entity.RoleLandowner))
	e.GET("/farmer", ok, as(entity.RoleFarmer), RequireRole(entity.RoleLandowner))
	e.GET("/owner", ok, as(entity.RoleLandowner), RequireRole(entity.RoleLandowner))

	assert.Equal(t, http.StatusUnauthorized, serve(e, httptest.NewRequest(http.MethodGet, "/anon", nil)).Code)
	assert.Equal(t, http.StatusForbidden, serve(e, httptest.NewRequest(http.MethodGet, "/farmer", nil)).Code)
	assert.Equal(t, http.StatusOK, serve(e, httptest.NewRequest(http.MethodGet, "/owner", nil)).Code)
}

func TestRateLimit(t *testing.T) {
	limiter := ratelimit.NewRateLimiterWithPolicies(map[string]ratelimit.Policy{
		"test": {Burst: 2, Every: time.Hour},
	})
	e := echo.New()
	e.HTTPErrorHandler = response.HTTPErrorHandler
	e.GET("/limited", ok, RateLimit(limiter, "test"))

	request := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		req.RemoteAddr = ip + ":4000"
		return serve(e, req)
	}

	assert.Equal(t, http.StatusOK, request("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, request("10.0.0.1").Code)

	rec := request("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// buckets are per caller
	assert.Equal(t, http.StatusOK, request("10.0.0.2").Code)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusOf(errors.NotFound("Land", nil)))
	assert.Equal(t, http.StatusMethodNotAllowed, statusOf(echo.ErrMethodNotAllowed))
	assert.Equal(t, http.StatusInternalServerError, statusOf(assert.AnError))
}
