package router

import (
	"github.com/labstack/echo/v4"

	"agrirent/internal/adapter/api/handler"
	"agrirent/internal/adapter/api/middleware"
	"agrirent/internal/domain/entity"
)

func SetupLandRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware) {
	landHandler := handler.GetLandHandler()
	landownerOnly := middleware.RequireRole(entity.RoleLandowner)

	lands := api.Group("/land")

	// Public routes
	lands.GET("", landHandler.List)
	lands.GET("/:id", landHandler.Get, authMiddleware.OptionalAuth)

	// Protected routes
	lands.POST("", landHandler.Create, authMiddleware.Authenticate, landownerOnly)
	lands.GET("/my-listings", landHandler.ListMine, authMiddleware.Authenticate, landownerOnly)
	lands.PUT("/:id", landHandler.Update, authMiddleware.Authenticate, landownerOnly)
	lands.DELETE("/:id", landHandler.Delete, authMiddleware.Authenticate, landownerOnly)
	lands.POST("/:id/inquire", landHandler.Inquire, authMiddleware.Authenticate)
	lands.POST("/:id/rate", landHandler.Rate, authMiddleware.Authenticate)
}
