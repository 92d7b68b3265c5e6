package router

import (
	"github.com/labstack/echo/v4"

	"agrirent/internal/adapter/api/handler"
	"agrirent/internal/adapter/api/middleware"
	"agrirent/internal/domain/entity"
)

func SetupAgreementRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware) {
	agreementHandler := handler.GetAgreementHandler()

	agreements := api.Group("/agreement")
	agreements.Use(authMiddleware.Authenticate)

	agreements.POST("/generate", agreementHandler.Generate, middleware.RequireRole(entity.RoleLandowner))
	agreements.GET("/my-rentals", agreementHandler.ListMine)
	agreements.GET("/:rentalId", agreementHandler.Get)
	agreements.POST("/:rentalId/sign", agreementHandler.Sign)
	agreements.POST("/:rentalId/cancel", agreementHandler.Cancel)
	agreements.POST("/:rentalId/dispute", agreementHandler.Dispute)
	agreements.GET("/:rentalId/document", agreementHandler.Document)
}
