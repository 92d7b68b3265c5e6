package handler

import (
	"github.com/labstack/echo/v4"

	"agrirent/internal/adapter/api/middleware"
	"agrirent/internal/usecase"
	"agrirent/pkg/response"
	"agrirent/pkg/utils"
)

type PaymentHandler struct {
	paymentUseCase *usecase.PaymentUseCase
}

func NewPaymentHandler(paymentUseCase *usecase.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{
		paymentUseCase: paymentUseCase,
	}
}

type processPaymentRequest struct {
	RentalID      string  `json:"rentalId" validate:"required"`
	PaymentIndex  *int    `json:"paymentIndex" validate:"required,gte=0"`
	Amount        float64 `json:"amount" validate:"required,gte=0.01"`
	PaymentMethod string  `json:"paymentMethod" validate:"required,oneof=online cash bankTransfer cheque"`
	TransactionID string  `json:"transactionId" validate:"omitempty,min=1,max=100"`
	Notes         string  `json:"notes" validate:"omitempty,max=500"`
}

type reminderRequest struct {
	PaymentIndex *int   `json:"paymentIndex" validate:"required,gte=0"`
	Message      string `json:"message" validate:"omitempty,max=500"`
}

func (h *PaymentHandler) Process(c echo.Context) error {
	var req processPaymentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.paymentUseCase.ProcessPayment(c.Request().Context(), middleware.CurrentUserID(c), usecase.ProcessPaymentInput{
		RentalID:      req.RentalID,
		PaymentIndex:  *req.PaymentIndex,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "Payment processed successfully", result)
}

func (h *PaymentHandler) MyPayments(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	payments, total, err := h.paymentUseCase.MyPayments(c.Request().Context(), middleware.CurrentUserID(c), c.QueryParam("status"), pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, "payments", payments, total, pagination.Page, pagination.PageSize)
}

func (h *PaymentHandler) Overdue(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	payments, total, err := h.paymentUseCase.Overdue(c.Request().Context(), middleware.CurrentUserID(c), pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, "overduePayments", payments, total, pagination.Page, pagination.PageSize)
}

func (h *PaymentHandler) Schedule(c echo.Context) error {
	schedule, err := h.paymentUseCase.Schedule(c.Request().Context(), middleware.CurrentUserID(c), c.Param("rentalId"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, schedule)
}

func (h *PaymentHandler) Reminder(c echo.Context) error {
	var req reminderRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.paymentUseCase.SendReminder(c.Request().Context(), middleware.CurrentUserID(c), c.Param("rentalId"), *req.PaymentIndex, req.Message); err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "Payment reminder sent successfully", nil)
}
