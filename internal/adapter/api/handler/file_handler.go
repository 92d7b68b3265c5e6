package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"agrirent/internal/adapter/api/middleware"
	"agrirent/internal/domain/service"
	"agrirent/pkg/errors"
	"agrirent/pkg/logger"
	"agrirent/pkg/response"
)

const maxUploadSize = 5 * 1024 * 1024

var uploadFolders = map[string]bool{
	"land-images":      true,
	"land-documents":   true,
	"profile-images":   true,
	"chat-attachments": true,
}

var uploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

type FileHandler struct {
	fileService service.FileUploadService
	maxFileSize int64
}

var fileHandler *FileHandler

func NewFileHandler(fileService service.FileUploadService) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		maxFileSize: maxUploadSize,
	}
}

func SetupFileHandler(fileService service.FileUploadService) {
	fileHandler = NewFileHandler(fileService)
}

func GetFileHandler() *FileHandler {
	return fileHandler
}

// Upload stores a listing photo, land document, profile image or chat attachment and
// returns its public URL for use in the other endpoints.
func (h *FileHandler) Upload(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}
	if file.Size > h.maxFileSize {
		return response.Error(c, errors.BadRequest(fmt.Sprintf("File size exceeds maximum allowed (%dMB)", h.maxFileSize/(1024*1024)), nil))
	}

	fileType := file.Header.Get("Content-Type")
	if !uploadTypes[fileType] {
		return response.Error(c, errors.BadRequest("File type not supported", nil))
	}

	folder := c.FormValue("folder")
	if !uploadFolders[folder] {
		return response.Error(c, errors.Validation("Validation failed", errors.FieldError{
			Field: "folder", Message: "folder must be one of: land-images land-documents profile-images chat-attachments",
		}))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Unable to read file", err))
	}
	defer src.Close()

	url, err := h.fileService.UploadFile(c.Request().Context(), src, fileType, folder, true)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to upload file", err))
	}
	logger.Debug("user %s uploaded %s to %s", middleware.CurrentUserID(c), file.Filename, url)

	return response.Created(c, "File uploaded successfully", map[string]interface{}{
		"url":      url,
		"filename": file.Filename,
		"size":     file.Size,
	})
}
