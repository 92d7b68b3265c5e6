package service

import "context"

type PaymentRequest struct {
	RentalID         string
	InstallmentIndex int
	Amount           float64
	PayerID          string
	// Reference is the caller supplied token: a payment method id, an order id or a receipt number.
	Reference string
}

// PaymentGateway settles an online installment and returns the transaction reference to record.
type PaymentGateway interface {
	Name() string
	Settle(ctx context.Context, req PaymentRequest) (string, error)
}
