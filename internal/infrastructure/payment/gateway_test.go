package payment

import (
	"context"
	"strings"
	"testing"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrirent/internal/domain/service"
)

type fakeChecker struct {
	status *coreapi.TransactionStatusResponse
	err    *midtrans.Error
}

func (f fakeChecker) CheckTransaction(orderID string) (*coreapi.TransactionStatusResponse, *midtrans.Error) {
	return f.status, f.err
}

func TestManualGateway(t *testing.T) {
	g := NewManualGateway()

	ref, err := g.Settle(context.Background(), service.PaymentRequest{Reference: " receipt-42 "})
	require.NoError(t, err)
	assert.Equal(t, "receipt-42", ref)

	ref, err = g.Settle(context.Background(), service.PaymentRequest{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "TXN-"))
}

func TestMidtransGatewaySettle(t *testing.T) {
	req := service.PaymentRequest{RentalID: "r1", Amount: 1500, Reference: "order-1"}

	g := &MidtransGateway{core: fakeChecker{status: &coreapi.TransactionStatusResponse{
		TransactionStatus: "settlement", GrossAmount: "1500.00", TransactionID: "mt-1",
	}}}
	ref, err := g.Settle(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "mt-1", ref)

	g.core = fakeChecker{status: &coreapi.TransactionStatusResponse{TransactionStatus: "pending", GrossAmount: "1500.00"}}
	_, err = g.Settle(context.Background(), req)
	assert.Error(t, err)

	g.core = fakeChecker{status: &coreapi.TransactionStatusResponse{TransactionStatus: "capture", GrossAmount: "900.00"}}
	_, err = g.Settle(context.Background(), req)
	assert.Error(t, err)

	g.core = fakeChecker{err: &midtrans.Error{Message: "not found", StatusCode: 404}}
	_, err = g.Settle(context.Background(), req)
	assert.Error(t, err)

	_, err = g.Settle(context.Background(), service.PaymentRequest{Amount: 1})
	assert.Error(t, err)
}

func TestMinorUnits(t *testing.T) {
	assert.EqualValues(t, 123457, minorUnits(1234.567))
	assert.EqualValues(t, 1000, minorUnits(10))
}
