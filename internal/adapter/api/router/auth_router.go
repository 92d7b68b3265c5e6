package router

import (
	"github.com/labstack/echo/v4"

	"agrirent/internal/adapter/api/handler"
	"agrirent/internal/adapter/api/middleware"
	"agrirent/internal/infrastructure/ratelimit"
)

func SetupAuthRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	authHandler := handler.GetAuthHandler()
	loginLimit := middleware.RateLimit(limiter, ratelimit.ActionLogin)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register, loginLimit)
	auth.POST("/login", authHandler.Login, loginLimit)
	auth.GET("/me", authHandler.Me, authMiddleware.Authenticate)
}
