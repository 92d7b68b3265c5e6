package router

import (
	"github.com/labstack/echo/v4"

	"agrirent/internal/adapter/api/handler"
	"agrirent/internal/adapter/api/middleware"
)

func SetupFileRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware) {
	fileHandler := handler.GetFileHandler()

	files := api.Group("/files")
	files.Use(authMiddleware.Authenticate)
	files.POST("/upload", fileHandler.Upload)
}
