package payment

import (
	"context"
	"fmt"
	"math"
	"strconv"

	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"

	"agrirent/internal/domain/service"
)

// StripeGateway charges the installment with a PaymentIntent confirmed against the
// payment method id passed as the request reference.
type StripeGateway struct {
	currency string
}

var _ service.PaymentGateway = (*StripeGateway)(nil)

func NewStripeGateway(apiKey, currency string) *StripeGateway {
	stripe.Key = apiKey
	return &StripeGateway{currency: currency}
}

func (g *StripeGateway) Name() string {
	return "stripe"
}

func (g *StripeGateway) Settle(ctx context.Context, req service.PaymentRequest) (string, error) {
	if req.Reference == "" {
		return "", fmt.Errorf("stripe payment requires a payment method id")
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(minorUnits(req.Amount)),
		Currency:      stripe.String(g.currency),
		PaymentMethod: stripe.String(req.Reference),
		Confirm:       stripe.Bool(true),
		Description:   stripe.String(fmt.Sprintf("Rental %s installment %d", req.RentalID, req.InstallmentIndex+1)),
	}
	params.Context = ctx
	params.AddMetadata("rentalId", req.RentalID)
	params.AddMetadata("installment", strconv.Itoa(req.InstallmentIndex))
	params.AddMetadata("payerId", req.PayerID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", err
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return "", fmt.Errorf("payment intent %s is %s", pi.ID, pi.Status)
	}
	return pi.ID, nil
}

func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
