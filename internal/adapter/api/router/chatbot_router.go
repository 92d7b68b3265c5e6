package router

import (
	"github.com/labstack/echo/v4"

	"agrirent/internal/adapter/api/handler"
	"agrirent/internal/adapter/api/middleware"
	"agrirent/internal/infrastructure/ratelimit"
)

func SetupChatbotRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	chatbotHandler := handler.GetChatbotHandler()

	bot := api.Group("/chatbot")
	bot.Use(authMiddleware.OptionalAuth)

	bot.POST("/message", chatbotHandler.Message, middleware.RateLimit(limiter, ratelimit.ActionChatbotMessage))
	bot.POST("/quick-response", chatbotHandler.QuickResponse)
	bot.GET("/faq", chatbotHandler.FAQ)
	bot.GET("/tips/farming", chatbotHandler.FarmingTips)
	bot.GET("/tips/platform", chatbotHandler.PlatformTips)
	bot.POST("/feedback", chatbotHandler.Feedback)
}
