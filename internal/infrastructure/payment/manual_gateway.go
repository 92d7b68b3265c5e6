package payment

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"agrirent/internal/domain/service"
)

// ManualGateway accepts online payments confirmed outside the platform. The caller
// supplied reference is recorded as is, or a TXN- reference is generated.
type ManualGateway struct{}

var _ service.PaymentGateway = ManualGateway{}

func NewManualGateway() ManualGateway {
	return ManualGateway{}
}

func (ManualGateway) Name() string {
	return "manual"
}

func (ManualGateway) Settle(ctx context.Context, req service.PaymentRequest) (string, error) {
	if ref := strings.TrimSpace(req.Reference); ref != "" {
		return ref, nil
	}
	return "TXN-" + strings.ToUpper(uuid.NewString()[:13]), nil
}
