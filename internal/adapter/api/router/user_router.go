package router

import (
	"github.com/labstack/echo/v4"

	"agrirent/internal/adapter/api/handler"
	"agrirent/internal/adapter/api/middleware"
	"agrirent/internal/domain/entity"
)

func SetupUserRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware) {
	userHandler := handler.GetUserHandler()

	api.GET("/user/:id", userHandler.GetPublicProfile)

	users := api.Group("/user")
	users.Use(authMiddleware.Authenticate)

	users.GET("/profile", userHandler.GetProfile)
	users.PUT("/profile", userHandler.UpdateProfile)
	users.DELETE("/profile", userHandler.Deactivate)
	users.POST("/upload-documents", userHandler.UploadDocuments, middleware.RequireRole(entity.RoleLandowner))

	// each role browses the other side of the market
	users.GET("/farmers", userHandler.ListFarmers, middleware.RequireRole(entity.RoleLandowner))
	users.GET("/landowners", userHandler.ListLandowners, middleware.RequireRole(entity.RoleFarmer))
	users.POST("/rate/:id", userHandler.Rate)
}
