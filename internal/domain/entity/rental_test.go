package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildInstallments(t *testing.T) {
	start := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)

	payments := BuildInstallments(18000, 6, start)
	require.Len(t, payments, 6)
	for i, p := range payments {
		assert.Equal(t, 3000.0, p.Amount)
		assert.Equal(t, PaymentStatusPending, p.Status)
		assert.Equal(t, start.AddDate(0, i, 0), p.DueDate)
	}
}

func TestBuildInstallmentsRoundingRemainder(t *testing.T) {
	payments := BuildInstallments(1000, 3, time.Now())
	require.Len(t, payments, 3)
	assert.Equal(t, 333.33, payments[0].Amount)
	assert.Equal(t, 333.33, payments[1].Amount)
	assert.Equal(t, 333.34, payments[2].Amount)

	var sum float64
	for _, p := range payments {
		sum += p.Amount
	}
	assert.InDelta(t, 1000, sum, 0.001)
}

func TestRentalRefreshAndStats(t *testing.T) {
	now := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	r := &Rental{
		TotalAmount: 3000,
		StartDate:   start,
		EndDate:     start.AddDate(0, 3, 0),
		Payments:    BuildInstallments(3000, 3, start),
	}
	r.Payments[0].Status = PaymentStatusPaid

	r.Refresh(now)
	assert.Equal(t, 2000.0, r.RemainingAmount)
	require.NotNil(t, r.NextPaymentDue)
	assert.Equal(t, start.AddDate(0, 1, 0), *r.NextPaymentDue)
	assert.Equal(t, 17, r.DaysRemaining)

	stats := r.Stats(now)
	assert.Equal(t, 3, stats.TotalPayments)
	assert.Equal(t, 1, stats.PaidPayments)
	assert.Equal(t, 2, stats.PendingPayments)
	assert.Equal(t, 2, stats.OverduePayments)
	assert.Equal(t, 1000.0, stats.TotalPaid)
	assert.Equal(t, 2000.0, stats.TotalPending)
	assert.False(t, r.AllPaid())

	r.Payments[1].Status = PaymentStatusPaid
	r.Payments[2].Status = PaymentStatusPaid
	assert.True(t, r.AllPaid())
	assert.Nil(t, r.Refresh(now).NextPaymentDue)
}

func TestRentalIsParticipant(t *testing.T) {
	r := &Rental{LandownerID: "owner", FarmerID: "farmer"}
	assert.True(t, r.IsParticipant("owner"))
	assert.True(t, r.IsParticipant("farmer"))
	assert.False(t, r.IsParticipant("someone"))
	assert.False(t, r.IsParticipant(""))
}

func TestRunningAverage(t *testing.T) {
	u := &User{}
	u.ApplyRating(4)
	u.ApplyRating(5)
	assert.Equal(t, 2, u.TotalRatings)
	assert.InDelta(t, 4.5, u.Rating, 1e-9)
}
