package usecase

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"agrirent/internal/domain/entity"
	"agrirent/internal/domain/repository"
	"agrirent/internal/domain/service"
	"agrirent/internal/infrastructure/metrics"
	"agrirent/pkg/errors"
	"agrirent/pkg/logger"
)

const agreementFolder = "agreements"

type RentalUseCase struct {
	rentalRepo repository.RentalRepository
	landRepo   repository.LandRepository
	userRepo   repository.UserRepository
	renderer   service.AgreementRenderer
	files      service.FileUploadService
	events     service.EventPublisher
	notifier   service.Notifier
	now        Clock
}

func NewRentalUseCase(
	rentalRepo repository.RentalRepository,
	landRepo repository.LandRepository,
	userRepo repository.UserRepository,
	renderer service.AgreementRenderer,
	files service.FileUploadService,
	events service.EventPublisher,
	notifier service.Notifier,
) *RentalUseCase {
	return &RentalUseCase{
		rentalRepo: rentalRepo,
		landRepo:   landRepo,
		userRepo:   userRepo,
		renderer:   renderer,
		files:      files,
		events:     events,
		notifier:   notifier,
		now:        time.Now,
	}
}

type GenerateRentalInput struct {
	LandID          string
	FarmerID        string
	RentedAcres     float64
	PricePerAcre    float64
	StartDate       time.Time
	EndDate         time.Time
	Duration        int
	PaymentSchedule string
	SecurityDeposit float64
	Terms           entity.RentalTerms
}

type LandSummary struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Location     entity.GeoPoint `json:"location"`
	Address      entity.Address  `json:"address"`
	PricePerAcre float64         `json:"pricePerAcre"`
}

// RentalDetail replaces the party and land ids of a rental with their summaries.
type RentalDetail struct {
	*entity.Rental
	Land      *LandSummary        `json:"land"`
	Landowner *entity.UserSummary `json:"landowner"`
	Farmer    *entity.UserSummary `json:"farmer"`
}

type AgreementFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Generate creates a pending rental for a farmer on the caller's land. The acreage is
// reserved first and released again if any later step fails.
func (uc *RentalUseCase) Generate(ctx context.Context, caller *entity.User, input GenerateRentalInput) (*entity.Rental, error) {
	now := uc.now()
	if !input.StartDate.Before(input.EndDate) {
		return nil, errors.BadRequest("End date must be after start date", nil)
	}
	if input.StartDate.Before(now) {
		return nil, errors.BadRequest("Start date cannot be in the past", nil)
	}

	land, err := uc.landRepo.GetByID(ctx, input.LandID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("Land", err)
		}
		return nil, errors.Internal("Failed to load land", err)
	}
	if land.OwnerID != caller.ID {
		return nil, errors.Forbidden("Only the landowner can generate agreements", nil)
	}
	if !land.IsListed() {
		return nil, errors.BadRequest("Land is not available for rental", nil)
	}
	if input.RentedAcres > land.AvailableAcres {
		return nil, errors.BadRequest("Requested acres exceed available acres", nil)
	}

	farmer, err := uc.userRepo.GetByID(ctx, input.FarmerID)
	if err != nil && !errors.IsNotFound(err) {
		return nil, errors.Internal("Failed to load farmer", err)
	}
	if err != nil || farmer.Role != entity.RoleFarmer || !farmer.IsActive {
		return nil, errors.NotFound("Farmer", err)
	}

	if _, err := uc.landRepo.ReserveAcreage(ctx, land.ID, input.RentedAcres); err != nil {
		switch {
		case errors.IsConflict(err):
			return nil, errors.BadRequest("Requested acres exceed available acres", err)
		case errors.IsNotFound(err):
			return nil, errors.NotFound("Land", err)
		default:
			return nil, errors.Internal("Failed to reserve acreage", err)
		}
	}

	price := input.PricePerAcre
	if price <= 0 {
		price = land.PricePerAcre
	}
	total := entity.RoundCents(input.RentedAcres * price * float64(input.Duration))

	rental := &entity.Rental{
		ID:              uuid.New().String(),
		LandID:          land.ID,
		LandownerID:     caller.ID,
		FarmerID:        farmer.ID,
		RentedAcres:     input.RentedAcres,
		PricePerAcre:    price,
		TotalAmount:     total,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		Duration:        input.Duration,
		PaymentSchedule: orDefault(input.PaymentSchedule, "monthly"),
		SecurityDeposit: input.SecurityDeposit,
		Payments:        entity.BuildInstallments(total, input.Duration, input.StartDate),
		Status:          entity.RentalStatusPending,
		Terms:           input.Terms,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := uc.rentalRepo.Create(ctx, rental); err != nil {
		uc.releaseAcreage(ctx, rental)
		return nil, errors.Internal("Failed to create rental", err)
	}

	url, err := uc.storeAgreement(ctx, rental, land, caller, farmer)
	if err != nil {
		uc.rollback(ctx, rental)
		return nil, errors.Internal("Failed to generate agreement document", err)
	}
	rental.AgreementDocument.URL = url
	rental.AgreementDocument.GeneratedAt = &now

	if err := uc.rentalRepo.Update(ctx, rental); err != nil {
		uc.rollback(ctx, rental)
		if delErr := uc.files.DeleteFile(ctx, url); delErr != nil {
			logger.Warn("failed to remove orphan agreement %s: %v", url, delErr)
		}
		return nil, errors.Internal("Failed to save agreement document", err)
	}

	metrics.RentalsGenerated.Inc()
	publish(ctx, uc.events, service.EventRentalGenerated, rental.ID, rental, now)
	notify(uc.notifier, farmer.ID, service.NotifyRentalUpdated, map[string]string{
		"rentalId": rental.ID, "status": rental.Status,
	})

	return rental.Refresh(now), nil
}

// Sign records the caller's signature. The rental becomes active once both parties signed.
func (uc *RentalUseCase) Sign(ctx context.Context, callerID, rentalID string) (*entity.Rental, error) {
	rental, err := uc.participantRental(ctx, callerID, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.Status != entity.RentalStatusPending {
		return nil, errors.BadRequest("Agreement can only be signed while pending", nil)
	}

	now := uc.now()
	doc := &rental.AgreementDocument
	if callerID == rental.LandownerID {
		if doc.SignedByLandowner {
			return rental.Refresh(now), nil
		}
		doc.SignedByLandowner = true
		doc.LandownerSignedAt = &now
	} else {
		if doc.SignedByFarmer {
			return rental.Refresh(now), nil
		}
		doc.SignedByFarmer = true
		doc.FarmerSignedAt = &now
	}

	eventType := service.EventRentalSigned
	if doc.SignedByLandowner && doc.SignedByFarmer {
		rental.Status = entity.RentalStatusActive
		eventType = service.EventRentalActivated
	}
	rental.UpdatedAt = now

	if err := uc.rentalRepo.Update(ctx, rental); err != nil {
		return nil, errors.Internal("Failed to sign agreement", err)
	}

	publish(ctx, uc.events, eventType, rental.ID, map[string]string{
		"rentalId": rental.ID, "signedBy": callerID, "status": rental.Status,
	}, now)
	uc.notifyCounterpart(rental, callerID)

	return rental.Refresh(now), nil
}

func (uc *RentalUseCase) Get(ctx context.Context, callerID, rentalID string) (*RentalDetail, error) {
	rental, err := uc.participantRental(ctx, callerID, rentalID)
	if err != nil {
		return nil, err
	}
	return uc.detail(ctx, rental), nil
}

func (uc *RentalUseCase) ListMine(ctx context.Context, callerID, status string, page, limit int) ([]*RentalDetail, int64, error) {
	rentals, total, err := uc.rentalRepo.ListByParticipant(ctx, callerID, status, limit, offsetFor(page, limit))
	if err != nil {
		return nil, 0, errors.Internal("Failed to list rentals", err)
	}

	out := make([]*RentalDetail, 0, len(rentals))
	for _, r := range rentals {
		out = append(out, uc.detail(ctx, r))
	}
	return out, total, nil
}

// Cancel ends a pending or active rental and returns its acreage to the land.
func (uc *RentalUseCase) Cancel(ctx context.Context, callerID, rentalID, reason string) (*entity.Rental, error) {
	rental, err := uc.participantRental(ctx, callerID, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.Status != entity.RentalStatusPending && rental.Status != entity.RentalStatusActive {
		return nil, errors.BadRequest("Only pending or active rentals can be cancelled", nil)
	}

	now := uc.now()
	rental.Status = entity.RentalStatusCancelled
	rental.Cancellation = &entity.Cancellation{
		Reason:      strings.TrimSpace(reason),
		CancelledBy: callerID,
		CancelledAt: now,
	}
	for i := range rental.Payments {
		if !rental.Payments[i].IsSettled() {
			rental.Payments[i].Status = entity.PaymentStatusCancelled
		}
	}
	rental.UpdatedAt = now

	if err := uc.rentalRepo.Update(ctx, rental); err != nil {
		return nil, errors.Internal("Failed to cancel rental", err)
	}
	uc.releaseAcreage(ctx, rental)

	publish(ctx, uc.events, service.EventRentalCancelled, rental.ID, map[string]string{
		"rentalId": rental.ID, "cancelledBy": callerID, "reason": rental.Cancellation.Reason,
	}, now)
	uc.notifyCounterpart(rental, callerID)

	return rental.Refresh(now), nil
}

func (uc *RentalUseCase) RaiseDispute(ctx context.Context, callerID, rentalID, issue, description string) (*entity.Rental, error) {
	rental, err := uc.participantRental(ctx, callerID, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.Status != entity.RentalStatusActive {
		return nil, errors.BadRequest("Disputes can only be raised on active rentals", nil)
	}

	now := uc.now()
	rental.Disputes = append(rental.Disputes, entity.Dispute{
		RaisedBy:    callerID,
		Issue:       strings.TrimSpace(issue),
		Description: strings.TrimSpace(description),
		Status:      "open",
		CreatedAt:   now,
	})
	rental.Status = entity.RentalStatusDisputed
	rental.UpdatedAt = now

	if err := uc.rentalRepo.Update(ctx, rental); err != nil {
		return nil, errors.Internal("Failed to raise dispute", err)
	}

	publish(ctx, uc.events, service.EventRentalDisputed, rental.ID, map[string]string{
		"rentalId": rental.ID, "raisedBy": callerID, "issue": issue,
	}, now)
	uc.notifyCounterpart(rental, callerID)

	return rental.Refresh(now), nil
}

// Document renders the current agreement for a participant.
func (uc *RentalUseCase) Document(ctx context.Context, callerID, rentalID string) (*AgreementFile, error) {
	rental, err := uc.participantRental(ctx, callerID, rentalID)
	if err != nil {
		return nil, err
	}

	land, err := uc.landRepo.GetByID(ctx, rental.LandID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("Land", err)
		}
		return nil, errors.Internal("Failed to load land", err)
	}
	landowner, _ := uc.userRepo.GetByID(ctx, rental.LandownerID)
	farmer, _ := uc.userRepo.GetByID(ctx, rental.FarmerID)

	content, err := uc.renderer.Render(service.AgreementData{Rental: rental, Land: land, Landowner: landowner, Farmer: farmer})
	if err != nil {
		return nil, errors.Internal("Failed to generate agreement document", err)
	}

	return &AgreementFile{
		Filename:    "agreement_" + rental.ID + ".pdf",
		ContentType: uc.renderer.ContentType(),
		Content:     content,
	}, nil
}

func (uc *RentalUseCase) storeAgreement(ctx context.Context, rental *entity.Rental, land *entity.Land, landowner, farmer *entity.User) (string, error) {
	content, err := uc.renderer.Render(service.AgreementData{Rental: rental, Land: land, Landowner: landowner, Farmer: farmer})
	if err != nil {
		return "", err
	}
	return uc.files.UploadFile(ctx, bytes.NewReader(content), uc.renderer.ContentType(), agreementFolder, false)
}

func (uc *RentalUseCase) rollback(ctx context.Context, rental *entity.Rental) {
	if err := uc.rentalRepo.Delete(ctx, rental.ID); err != nil && !errors.IsNotFound(err) {
		logger.Error("failed to roll back rental %s: %v", rental.ID, err)
	}
	uc.releaseAcreage(ctx, rental)
}

func (uc *RentalUseCase) releaseAcreage(ctx context.Context, rental *entity.Rental) {
	err := uc.landRepo.ReleaseAcreage(ctx, rental.LandID, rental.RentedAcres)
	if err != nil && !errors.IsNotFound(err) {
		logger.Error("failed to release %.2f acres on land %s for rental %s: %v",
			rental.RentedAcres, rental.LandID, rental.ID, err)
	}
}

func (uc *RentalUseCase) participantRental(ctx context.Context, callerID, rentalID string) (*entity.Rental, error) {
	return participantRental(ctx, uc.rentalRepo, callerID, rentalID)
}

func (uc *RentalUseCase) detail(ctx context.Context, rental *entity.Rental) *RentalDetail {
	d := &RentalDetail{
		Rental:    rental.Refresh(uc.now()),
		Land:      &LandSummary{ID: rental.LandID},
		Landowner: &entity.UserSummary{ID: rental.LandownerID},
		Farmer:    &entity.UserSummary{ID: rental.FarmerID},
	}
	if land, err := uc.landRepo.GetByID(ctx, rental.LandID); err == nil {
		d.Land = summarizeLand(land)
	}
	if u, err := uc.userRepo.GetByID(ctx, rental.LandownerID); err == nil {
		d.Landowner = u.Summary()
	}
	if u, err := uc.userRepo.GetByID(ctx, rental.FarmerID); err == nil {
		d.Farmer = u.Summary()
	}
	return d
}

func (uc *RentalUseCase) notifyCounterpart(rental *entity.Rental, callerID string) {
	other := rental.FarmerID
	if callerID == rental.FarmerID {
		other = rental.LandownerID
	}
	notify(uc.notifier, other, service.NotifyRentalUpdated, map[string]string{
		"rentalId": rental.ID, "status": rental.Status,
	})
}

func participantRental(ctx context.Context, repo repository.RentalRepository, callerID, rentalID string) (*entity.Rental, error) {
	rental, err := repo.GetByID(ctx, rentalID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("Rental", err)
		}
		return nil, errors.Internal("Failed to load rental", err)
	}
	if !rental.IsParticipant(callerID) {
		return nil, errors.Forbidden("You are not a party to this rental", nil)
	}
	return rental, nil
}

func summarizeLand(land *entity.Land) *LandSummary {
	return &LandSummary{
		ID:           land.ID,
		Title:        land.Title,
		Location:     land.Location,
		Address:      land.Address,
		PricePerAcre: land.PricePerAcre,
	}
}
