package router

import (
	"github.com/labstack/echo/v4"

	"agrirent/internal/adapter/api/middleware"
	"agrirent/internal/infrastructure/ratelimit"
)

const apiPrefix = "/api"

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	api := e.Group(apiPrefix)

	SetupAuthRouter(api, authMiddleware, limiter)
	SetupUserRouter(api, authMiddleware)
	SetupLandRouter(api, authMiddleware)
	SetupAgreementRouter(api, authMiddleware)
	SetupPaymentRouter(api, authMiddleware)
	SetupChatRouter(api, authMiddleware, limiter)
	SetupChatbotRouter(api, authMiddleware, limiter)
	SetupFileRouter(api, authMiddleware)
	SetupHealthRouter(e, api)
	SetupWebSocketRouter(e, authMiddleware)
}
