package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrirent/internal/domain/entity"
	"agrirent/internal/domain/service"
)

func agreementFixture(months int) service.AgreementData {
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	total := 2 * 1500 * float64(months)
	return service.AgreementData{
		Rental: &entity.Rental{
			ID: "rental-1", LandownerID: "owner-1", FarmerID: "farmer-1",
			RentedAcres: 2, PricePerAcre: 1500, TotalAmount: total,
			StartDate: start, EndDate: start.AddDate(0, months, 0), Duration: months,
			PaymentSchedule: "monthly", SecurityDeposit: 5000,
			Payments: entity.BuildInstallments(total, months, start),
			Terms:    entity.RentalTerms{CropsAllowed: []string{"wheat", "soybean"}, Restrictions: []string{"no pesticides"}},
		},
		Land: &entity.Land{
			Title: "Canal side plot", TotalAcres: 10,
			Address: entity.Address{Village: "Wagholi", City: "Pune", State: "Maharashtra"},
		},
		Landowner: &entity.User{Name: "Ramesh Patil", Phone: "9800000000"},
		Farmer:    &entity.User{Name: "Sunita Pawar"},
	}
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewAgreementRenderer()
	out, err := r.Render(agreementFixture(6))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Equal(t, "application/pdf", r.ContentType())
}

func TestLongSchedulesBreakPages(t *testing.T) {
	r := NewAgreementRenderer()
	assert.Equal(t, 1, r.build(agreementFixture(3)).PageCount())
	assert.Greater(t, r.build(agreementFixture(60)).PageCount(), 1)
}

func TestRenderRequiresRentalAndLand(t *testing.T) {
	_, err := NewAgreementRenderer().Render(service.AgreementData{})
	assert.Error(t, err)
}

func TestAcresFormatting(t *testing.T) {
	assert.Equal(t, "2.5", acres(2.5))
	assert.Equal(t, "10", acres(10))
}
