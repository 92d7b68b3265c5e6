package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"agrirent/internal/adapter/api/middleware"
	"agrirent/internal/domain/entity"
	"agrirent/internal/usecase"
	"agrirent/pkg/response"
	"agrirent/pkg/utils"
)

type AgreementHandler struct {
	rentalUseCase *usecase.RentalUseCase
}

func NewAgreementHandler(rentalUseCase *usecase.RentalUseCase) *AgreementHandler {
	return &AgreementHandler{
		rentalUseCase: rentalUseCase,
	}
}

type rentalTermsRequest struct {
	CropsAllowed []string `json:"cropsAllowed"`
	Restrictions []string `json:"restrictions"`
	Maintenance  string   `json:"maintenance" validate:"omitempty,oneof=landowner farmer shared"`
	Utilities    string   `json:"utilities" validate:"omitempty,oneof=included separate notAvailable"`
}

type generateAgreementRequest struct {
	LandID          string             `json:"landId" validate:"required"`
	FarmerID        string             `json:"farmerId" validate:"required"`
	RentedAcres     float64            `json:"rentedAcres" validate:"required,gte=0.1"`
	PricePerAcre    float64            `json:"pricePerAcre" validate:"required,gte=100"`
	StartDate       string             `json:"startDate" validate:"required"`
	EndDate         string             `json:"endDate" validate:"required"`
	Duration        int                `json:"duration" validate:"required,min=1,max=60"`
	PaymentSchedule string             `json:"paymentSchedule" validate:"omitempty,oneof=monthly quarterly halfYearly yearly oneTime"`
	SecurityDeposit float64            `json:"securityDeposit" validate:"gte=0"`
	Terms           rentalTermsRequest `json:"terms"`
}

type signRequest struct {
	Signature string `json:"signature" validate:"required"`
}

type cancelRequest struct {
	Reason string `json:"reason" validate:"required,min=10,max=500"`
}

type disputeRequest struct {
	Issue       string `json:"issue" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=1000"`
}

func (h *AgreementHandler) Generate(c echo.Context) error {
	var req generateAgreementRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}
	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		return response.Error(c, err)
	}
	end, err := parseDate("endDate", req.EndDate)
	if err != nil {
		return response.Error(c, err)
	}

	rental, err := h.rentalUseCase.Generate(c.Request().Context(), middleware.CurrentUser(c), usecase.GenerateRentalInput{
		LandID:          req.LandID,
		FarmerID:        req.FarmerID,
		RentedAcres:     req.RentedAcres,
		PricePerAcre:    req.PricePerAcre,
		StartDate:       start,
		EndDate:         end,
		Duration:        req.Duration,
		PaymentSchedule: req.PaymentSchedule,
		SecurityDeposit: req.SecurityDeposit,
		Terms: entity.RentalTerms{
			CropsAllowed: req.Terms.CropsAllowed,
			Restrictions: req.Terms.Restrictions,
			Maintenance:  req.Terms.Maintenance,
			Utilities:    req.Terms.Utilities,
		},
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, "Rental agreement generated successfully", map[string]interface{}{"rental": rental})
}

func (h *AgreementHandler) ListMine(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	rentals, total, err := h.rentalUseCase.ListMine(c.Request().Context(), middleware.CurrentUserID(c), c.QueryParam("status"), pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, "rentals", rentals, total, pagination.Page, pagination.PageSize)
}

func (h *AgreementHandler) Get(c echo.Context) error {
	rental, err := h.rentalUseCase.Get(c.Request().Context(), middleware.CurrentUserID(c), c.Param("rentalId"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]interface{}{"rental": rental})
}

func (h *AgreementHandler) Sign(c echo.Context) error {
	var req signRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	rental, err := h.rentalUseCase.Sign(c.Request().Context(), middleware.CurrentUserID(c), c.Param("rentalId"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "Agreement signed successfully", map[string]interface{}{"rental": rental})
}

func (h *AgreementHandler) Cancel(c echo.Context) error {
	var req cancelRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	rental, err := h.rentalUseCase.Cancel(c.Request().Context(), middleware.CurrentUserID(c), c.Param("rentalId"), req.Reason)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "Agreement cancelled successfully", map[string]interface{}{"rental": rental})
}

func (h *AgreementHandler) Dispute(c echo.Context) error {
	var req disputeRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	rental, err := h.rentalUseCase.RaiseDispute(c.Request().Context(), middleware.CurrentUserID(c), c.Param("rentalId"), req.Issue, req.Description)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "Dispute raised successfully", map[string]interface{}{"rental": rental})
}

// Document streams the agreement PDF as an attachment.
func (h *AgreementHandler) Document(c echo.Context) error {
	file, err := h.rentalUseCase.Document(c.Request().Context(), middleware.CurrentUserID(c), c.Param("rentalId"))
	if err != nil {
		return response.Error(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+file.Filename+`"`)
	return c.Blob(http.StatusOK, file.ContentType, file.Content)
}
