package handler

import (
	"github.com/labstack/echo/v4"

	"agrirent/internal/adapter/api/middleware"
	"agrirent/internal/domain/entity"
	"agrirent/internal/usecase"
	"agrirent/pkg/response"
	"agrirent/pkg/utils"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type updateProfileRequest struct {
	Name              string              `json:"name" validate:"omitempty,min=2,max=50"`
	Phone             string              `json:"phone" validate:"omitempty,min=10,max=15"`
	Address           entity.Address      `json:"address"`
	FarmingExperience int                 `json:"farmingExperience" validate:"gte=0,lte=100"`
	PreferredCrops    []string            `json:"preferredCrops"`
	BankDetails       *entity.BankDetails `json:"bankDetails"`
	ProfileImage      string              `json:"profileImage" validate:"omitempty,url"`
}

type documentRequest struct {
	DocumentType string `json:"documentType" validate:"required,oneof=landDeed propertyTax surveyReport other"`
	DocumentURL  string `json:"documentUrl" validate:"required,url"`
}

type uploadDocumentsRequest struct {
	Documents []documentRequest `json:"documents" validate:"required,min=1,dive"`
}

type rateRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=500"`
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.userUseCase.GetProfile(c.Request().Context(), middleware.CurrentUserID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]interface{}{"user": user})
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), middleware.CurrentUserID(c), usecase.UpdateProfileInput{
		Name:              req.Name,
		Phone:             req.Phone,
		Address:           req.Address,
		FarmingExperience: req.FarmingExperience,
		PreferredCrops:    req.PreferredCrops,
		BankDetails:       req.BankDetails,
		ProfileImage:      req.ProfileImage,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "Profile updated successfully", map[string]interface{}{"user": user})
}

func (h *UserHandler) Deactivate(c echo.Context) error {
	if err := h.userUseCase.Deactivate(c.Request().Context(), middleware.CurrentUserID(c)); err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "Account deactivated successfully", nil)
}

func (h *UserHandler) UploadDocuments(c echo.Context) error {
	var req uploadDocumentsRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	docs := make([]usecase.DocumentInput, 0, len(req.Documents))
	for _, d := range req.Documents {
		docs = append(docs, usecase.DocumentInput{DocumentType: d.DocumentType, DocumentURL: d.DocumentURL})
	}

	user, err := h.userUseCase.UploadDocuments(c.Request().Context(), middleware.CurrentUserID(c), docs)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "Documents uploaded successfully", map[string]interface{}{"user": user})
}

// ListFarmers is the landowners' directory of farmers.
func (h *UserHandler) ListFarmers(c echo.Context) error {
	return h.listByRole(c, entity.RoleFarmer, "farmers")
}

// ListLandowners is the farmers' directory of landowners.
func (h *UserHandler) ListLandowners(c echo.Context) error {
	return h.listByRole(c, entity.RoleLandowner, "landowners")
}

func (h *UserHandler) listByRole(c echo.Context, role, key string) error {
	var query struct {
		Search        string `query:"search"`
		State         string `query:"state"`
		City          string `query:"city"`
		MinExperience int    `query:"minExperience"`
	}
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &query); err != nil {
		return response.Error(c, err)
	}
	pagination := utils.GetPaginationParams(c)

	users, total, err := h.userUseCase.ListByRole(c.Request().Context(), role, usecase.ListUsersInput{
		Search:        query.Search,
		State:         query.State,
		City:          query.City,
		MinExperience: query.MinExperience,
		Page:          pagination.Page,
		Limit:         pagination.PageSize,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, key, users, total, pagination.Page, pagination.PageSize)
}

func (h *UserHandler) GetPublicProfile(c echo.Context) error {
	user, err := h.userUseCase.GetPublicProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]interface{}{"user": user})
}

func (h *UserHandler) Rate(c echo.Context) error {
	var req rateRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.Rate(c.Request().Context(), middleware.CurrentUserID(c), c.Param("id"), req.Rating)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "Rating submitted successfully", map[string]interface{}{
		"rating":       user.Rating,
		"totalRatings": user.TotalRatings,
	})
}
