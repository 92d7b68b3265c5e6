package router

import (
	"github.com/labstack/echo/v4"

	"agrirent/internal/adapter/api/handler"
	"agrirent/internal/adapter/api/middleware"
	"agrirent/internal/infrastructure/ratelimit"
)

// SetupChatRouter sets up all chat-related routes (excluding WebSocket)
func SetupChatRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	chatHandler := handler.GetChatHandler()

	chats := api.Group("/chat")
	chats.Use(authMiddleware.Authenticate)

	chats.GET("", chatHandler.List)
	chats.POST("", chatHandler.Create, middleware.RateLimit(limiter, ratelimit.ActionCreateChat))
	chats.GET("/unread-count", chatHandler.UnreadCount)
	chats.GET("/:chatId", chatHandler.Messages)
	chats.POST("/:chatId/messages", chatHandler.SendMessage, middleware.RateLimit(limiter, ratelimit.ActionSendMessage))
	chats.PUT("/:chatId/read", chatHandler.MarkRead)
	chats.DELETE("/:chatId", chatHandler.Archive)
}
