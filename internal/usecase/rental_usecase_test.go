package usecase

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrirent/internal/domain/entity"
	"agrirent/internal/domain/service"
)

var rentalStart = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

func rentalInput(landID string) GenerateRentalInput {
	return GenerateRentalInput{
		LandID:      landID,
		FarmerID:    "ravi",
		RentedAcres: 4,
		StartDate:   rentalStart,
		EndDate:     rentalStart.AddDate(0, 6, 0),
		Duration:    6,
		Terms:       entity.RentalTerms{CropsAllowed: []string{"wheat"}, Maintenance: "farmer", Utilities: "landowner"},
	}
}

// generatedRental sets up a landowner, a farmer, a 10 acre plot and a pending rental on it.
func generatedRental(t *testing.T, w *world) (*RentalUseCase, *entity.User, *entity.Rental) {
	t.Helper()
	owner := seedUser(t, w.users, "meera", entity.RoleLandowner)
	seedUser(t, w.users, "ravi", entity.RoleFarmer)
	seedListedLand(t, w.lands, "plot", owner.ID, 10)

	uc := w.rentalUseCase(stubRenderer{})
	rental, err := uc.Generate(context.Background(), owner, rentalInput("plot"))
	require.NoError(t, err)
	return uc, owner, rental
}

func TestGenerateRental(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	_, _, rental := generatedRental(t, w)

	assert.Equal(t, entity.RentalStatusPending, rental.Status)
	assert.Equal(t, 1000.0, rental.PricePerAcre)
	assert.Equal(t, 24000.0, rental.TotalAmount)
	assert.Equal(t, "monthly", rental.PaymentSchedule)
	require.Len(t, rental.Payments, 6)
	for i, p := range rental.Payments {
		assert.Equal(t, 4000.0, p.Amount)
		assert.Equal(t, rentalStart.AddDate(0, i, 0), p.DueDate)
		assert.Equal(t, entity.PaymentStatusPending, p.Status)
	}
	assert.Equal(t, 24000.0, rental.RemainingAmount)
	assert.NotEmpty(t, rental.AgreementDocument.URL)
	assert.Contains(t, w.files.files, rental.AgreementDocument.URL)

	land, err := w.lands.GetByID(ctx, "plot")
	require.NoError(t, err)
	assert.Equal(t, 6.0, land.AvailableAcres)
	assert.Equal(t, entity.LandStatusRented, land.LandStatus)

	assert.Equal(t, []string{service.EventRentalGenerated}, w.events.types())
	assert.Equal(t, []string{service.NotifyRentalUpdated}, w.notifier.to("ravi"))
}

func TestGenerateRentalRejections(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	owner := seedUser(t, w.users, "meera", entity.RoleLandowner)
	seedUser(t, w.users, "ravi", entity.RoleFarmer)
	other := seedUser(t, w.users, "kiran", entity.RoleLandowner)
	seedListedLand(t, w.lands, "plot", owner.ID, 10)
	uc := w.rentalUseCase(stubRenderer{})

	cases := []struct {
		name   string
		caller *entity.User
		mutate func(*GenerateRentalInput)
		status int
	}{
		{"end before start", owner, func(in *GenerateRentalInput) { in.EndDate = in.StartDate.AddDate(0, 0, -1) }, http.StatusBadRequest},
		{"start in the past", owner, func(in *GenerateRentalInput) { in.StartDate = fixedNow.AddDate(0, 0, -1) }, http.StatusBadRequest},
		{"unknown land", owner, func(in *GenerateRentalInput) { in.LandID = "missing" }, http.StatusNotFound},
		{"not the owner", other, nil, http.StatusForbidden},
		{"too many acres", owner, func(in *GenerateRentalInput) { in.RentedAcres = 11 }, http.StatusBadRequest},
		{"farmer missing", owner, func(in *GenerateRentalInput) { in.FarmerID = "ghost" }, http.StatusNotFound},
		{"farmer is a landowner", owner, func(in *GenerateRentalInput) { in.FarmerID = "kiran" }, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := rentalInput("plot")
			if tc.mutate != nil {
				tc.mutate(&input)
			}
			_, err := uc.Generate(ctx, tc.caller, input)
			assertStatus(t, err, tc.status)
		})
	}

	land, err := w.lands.GetByID(ctx, "plot")
	require.NoError(t, err)
	assert.Equal(t, 10.0, land.AvailableAcres)
	assert.Empty(t, w.events.types())
}

func TestGenerateRentalRollsBackWhenAgreementFails(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	owner := seedUser(t, w.users, "meera", entity.RoleLandowner)
	seedUser(t, w.users, "ravi", entity.RoleFarmer)
	seedListedLand(t, w.lands, "plot", owner.ID, 10)

	uc := w.rentalUseCase(stubRenderer{err: fmt.Errorf("font missing")})
	_, err := uc.Generate(ctx, owner, rentalInput("plot"))
	assertStatus(t, err, http.StatusInternalServerError)

	land, err := w.lands.GetByID(ctx, "plot")
	require.NoError(t, err)
	assert.Equal(t, 10.0, land.AvailableAcres)
	assert.Equal(t, entity.LandStatusAvailable, land.LandStatus)

	rentals, total, err := w.rentals.ListByParticipant(ctx, "ravi", "", 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, rentals)

	w.files.uploadErr = fmt.Errorf("bucket unavailable")
	uc = w.rentalUseCase(stubRenderer{})
	_, err = uc.Generate(ctx, owner, rentalInput("plot"))
	assertStatus(t, err, http.StatusInternalServerError)

	land, err = w.lands.GetByID(ctx, "plot")
	require.NoError(t, err)
	assert.Equal(t, 10.0, land.AvailableAcres)
}

func TestSignActivatesAfterBothParties(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	uc, owner, rental := generatedRental(t, w)
	seedUser(t, w.users, "sunil", entity.RoleFarmer)

	_, err := uc.Sign(ctx, "sunil", rental.ID)
	assertStatus(t, err, http.StatusForbidden)

	signed, err := uc.Sign(ctx, owner.ID, rental.ID)
	require.NoError(t, err)
	assert.True(t, signed.AgreementDocument.SignedByLandowner)
	assert.Equal(t, entity.RentalStatusPending, signed.Status)

	// a repeated signature changes nothing
	signed, err = uc.Sign(ctx, owner.ID, rental.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RentalStatusPending, signed.Status)

	signed, err = uc.Sign(ctx, "ravi", rental.ID)
	require.NoError(t, err)
	assert.True(t, signed.AgreementDocument.SignedByFarmer)
	assert.Equal(t, entity.RentalStatusActive, signed.Status)

	_, err = uc.Sign(ctx, "ravi", rental.ID)
	assertStatus(t, err, http.StatusBadRequest)

	assert.Equal(t, []string{
		service.EventRentalGenerated, service.EventRentalSigned, service.EventRentalActivated,
	}, w.events.types())
}

func TestCancelRestoresAcreage(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	uc, owner, rental := generatedRental(t, w)

	cancelled, err := uc.Cancel(ctx, "ravi", rental.ID, " changed plans ")
	require.NoError(t, err)
	assert.Equal(t, entity.RentalStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.Cancellation)
	assert.Equal(t, "changed plans", cancelled.Cancellation.Reason)
	assert.Equal(t, "ravi", cancelled.Cancellation.CancelledBy)
	for _, p := range cancelled.Payments {
		assert.Equal(t, entity.PaymentStatusCancelled, p.Status)
	}
	assert.Equal(t, 0.0, cancelled.Refresh(fixedNow).Stats(fixedNow).TotalPending)

	land, err := w.lands.GetByID(ctx, "plot")
	require.NoError(t, err)
	assert.Equal(t, 10.0, land.AvailableAcres)
	assert.Equal(t, entity.LandStatusAvailable, land.LandStatus)

	_, err = uc.Cancel(ctx, owner.ID, rental.ID, "again")
	assertStatus(t, err, http.StatusBadRequest)
	assert.Contains(t, w.notifier.to(owner.ID), service.NotifyRentalUpdated)
}

func TestRaiseDisputeNeedsActiveRental(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	uc, owner, rental := generatedRental(t, w)

	_, err := uc.RaiseDispute(ctx, "ravi", rental.ID, "water", "canal closed")
	assertStatus(t, err, http.StatusBadRequest)

	_, err = uc.Sign(ctx, owner.ID, rental.ID)
	require.NoError(t, err)
	_, err = uc.Sign(ctx, "ravi", rental.ID)
	require.NoError(t, err)

	disputed, err := uc.RaiseDispute(ctx, "ravi", rental.ID, "water", "canal closed")
	require.NoError(t, err)
	assert.Equal(t, entity.RentalStatusDisputed, disputed.Status)
	require.Len(t, disputed.Disputes, 1)
	assert.Equal(t, "open", disputed.Disputes[0].Status)
	assert.Equal(t, "ravi", disputed.Disputes[0].RaisedBy)
}

func TestGetAndListRentalDetails(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	uc, owner, rental := generatedRental(t, w)

	detail, err := uc.Get(ctx, "ravi", rental.ID)
	require.NoError(t, err)
	assert.Equal(t, "Canal-side plot", detail.Land.Title)
	assert.Equal(t, "Meera", detail.Landowner.Name)
	assert.Equal(t, "Ravi", detail.Farmer.Name)

	_, err = uc.Get(ctx, "stranger", rental.ID)
	assertStatus(t, err, http.StatusForbidden)

	_, err = uc.Get(ctx, "ravi", "missing")
	assertStatus(t, err, http.StatusNotFound)

	list, total, err := uc.ListMine(ctx, owner.ID, entity.RentalStatusPending, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, rental.ID, list[0].ID)

	_, total, err = uc.ListMine(ctx, owner.ID, entity.RentalStatusActive, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)

	doc, err := uc.Document(ctx, "ravi", rental.ID)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, "agreement_"+rental.ID+".pdf", doc.Filename)
	assert.Contains(t, string(doc.Content), rental.ID)
}

func TestSignFailureLeavesRentalPending(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	_, owner, rental := generatedRental(t, w)

	uc := NewRentalUseCase(failingRentalRepo{w.rentals}, w.lands, w.users, stubRenderer{}, w.files, w.events, w.notifier)
	_, err := uc.Sign(ctx, owner.ID, rental.ID)
	assertStatus(t, err, http.StatusInternalServerError)

	stored, err := w.rentals.GetByID(ctx, rental.ID)
	require.NoError(t, err)
	assert.False(t, stored.AgreementDocument.SignedByLandowner)
}
