package payment

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"

	"agrirent/internal/domain/service"
)

// transactionChecker is the slice of the Midtrans core API the gateway needs.
type transactionChecker interface {
	CheckTransaction(orderID string) (*coreapi.TransactionStatusResponse, *midtrans.Error)
}

// MidtransGateway confirms a payment the farmer already completed through Midtrans.
// The request reference is the Midtrans order id.
type MidtransGateway struct {
	core transactionChecker
}

var _ service.PaymentGateway = (*MidtransGateway)(nil)

func NewMidtransGateway(serverKey, environment string) *MidtransGateway {
	env := midtrans.Sandbox
	if environment == "production" {
		env = midtrans.Production
	}
	var c coreapi.Client
	c.New(serverKey, env)
	return &MidtransGateway{core: &c}
}

func (g *MidtransGateway) Name() string {
	return "midtrans"
}

func (g *MidtransGateway) Settle(ctx context.Context, req service.PaymentRequest) (string, error) {
	if req.Reference == "" {
		return "", fmt.Errorf("midtrans payment requires an order id")
	}

	status, merr := g.core.CheckTransaction(req.Reference)
	if merr != nil {
		return "", fmt.Errorf("midtrans check %s: %s", req.Reference, merr.Message)
	}

	if status.TransactionStatus != "capture" && status.TransactionStatus != "settlement" {
		return "", fmt.Errorf("midtrans order %s is %s", req.Reference, status.TransactionStatus)
	}

	gross, err := strconv.ParseFloat(status.GrossAmount, 64)
	if err != nil {
		return "", fmt.Errorf("midtrans order %s: invalid gross amount %q", req.Reference, status.GrossAmount)
	}
	if math.Abs(gross-req.Amount) > 0.01 {
		return "", fmt.Errorf("midtrans order %s settled %.2f, expected %.2f", req.Reference, gross, req.Amount)
	}

	if status.TransactionID != "" {
		return status.TransactionID, nil
	}
	return req.Reference, nil
}
