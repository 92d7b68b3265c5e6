package router

import (
	"github.com/labstack/echo/v4"

	"agrirent/internal/adapter/api/handler"
	"agrirent/internal/adapter/api/middleware"
)

func SetupPaymentRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware) {
	paymentHandler := handler.GetPaymentHandler()

	payments := api.Group("/payment")
	payments.Use(authMiddleware.Authenticate)

	payments.POST("/process", paymentHandler.Process)
	payments.GET("/my-payments", paymentHandler.MyPayments)
	payments.GET("/overdue", paymentHandler.Overdue)
	payments.GET("/:rentalId/schedule", paymentHandler.Schedule)
	payments.POST("/:rentalId/reminder", paymentHandler.Reminder)
}
