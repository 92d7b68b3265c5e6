package handler

import (
	"strings"
	"time"

	"agrirent/internal/usecase"
	"agrirent/pkg/errors"
)

var (
	authHandler      *AuthHandler
	userHandler      *UserHandler
	landHandler      *LandHandler
	agreementHandler *AgreementHandler
	paymentHandler   *PaymentHandler
	chatHandler      *ChatHandler
	chatbotHandler   *ChatbotHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	landUseCase *usecase.LandUseCase,
	rentalUseCase *usecase.RentalUseCase,
	paymentUseCase *usecase.PaymentUseCase,
	chatUseCase *usecase.ChatUseCase,
	chatbotUseCase *usecase.ChatbotUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	landHandler = NewLandHandler(landUseCase)
	agreementHandler = NewAgreementHandler(rentalUseCase)
	paymentHandler = NewPaymentHandler(paymentUseCase)
	chatHandler = NewChatHandler(chatUseCase)
	chatbotHandler = NewChatbotHandler(chatbotUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetLandHandler() *LandHandler {
	return landHandler
}

func GetAgreementHandler() *AgreementHandler {
	return agreementHandler
}

func GetPaymentHandler() *PaymentHandler {
	return paymentHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetChatbotHandler() *ChatbotHandler {
	return chatbotHandler
}

// parseDate accepts RFC 3339 timestamps and plain calendar dates.
func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, errors.Validation("Invalid date", errors.FieldError{
		Field:   field,
		Message: field + " must be an ISO 8601 date",
	})
}

func parseOptionalDate(field, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := parseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
