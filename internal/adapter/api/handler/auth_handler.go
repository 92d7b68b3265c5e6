package handler

import (
	"github.com/labstack/echo/v4"

	"agrirent/internal/adapter/api/middleware"
	"agrirent/internal/domain/entity"
	"agrirent/internal/usecase"
	"agrirent/pkg/response"
)

type AuthHandler struct {
	authUseCase *usecase.AuthUseCase
}

func NewAuthHandler(authUseCase *usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

type registerRequest struct {
	Name     string         `json:"name" validate:"required,min=2,max=50"`
	Email    string         `json:"email" validate:"required,email"`
	Password string         `json:"password" validate:"required,min=6"`
	Role     string         `json:"role" validate:"required,oneof=farmer landowner"`
	Phone    string         `json:"phone" validate:"omitempty,min=10,max=15"`
	Address  entity.Address `json:"address"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.authUseCase.Register(c.Request().Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, "User registered successfully", result)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.authUseCase.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Message(c, "Login successful", result)
}

func (h *AuthHandler) Me(c echo.Context) error {
	return response.Success(c, map[string]interface{}{
		"user": middleware.CurrentUser(c),
	})
}
