package usecase

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"agrirent/internal/domain/entity"
	"agrirent/internal/domain/repository"
	"agrirent/internal/domain/service"
	"agrirent/pkg/errors"
	"agrirent/pkg/logger"
)

// inquiryChannel opens the conversation an inquiry is posted to.
type inquiryChannel interface {
	Start(ctx context.Context, callerID string, input StartChatInput) (*ChatView, bool, error)
}

type LandUseCase struct {
	landRepo repository.LandRepository
	userRepo repository.UserRepository
	geo      service.GeoIndex
	chats    inquiryChannel
	events   service.EventPublisher
	now      Clock
}

// NewLandUseCase wires the catalog. geo and events may be nil.
func NewLandUseCase(
	landRepo repository.LandRepository,
	userRepo repository.UserRepository,
	geo service.GeoIndex,
	chats inquiryChannel,
	events service.EventPublisher,
) *LandUseCase {
	return &LandUseCase{
		landRepo: landRepo,
		userRepo: userRepo,
		geo:      geo,
		chats:    chats,
		events:   events,
		now:      time.Now,
	}
}

type LandInput struct {
	Title             string
	Description       string
	TotalAcres        float64
	AvailableAcres    float64
	PricePerAcre      float64
	Latitude          *float64
	Longitude         *float64
	Address           entity.Address
	SoilType          string
	WaterSource       string
	IrrigationType    string
	LandStatus        string
	Images            []entity.LandImage
	LandDocuments     []entity.Document
	RentalTerms       entity.LandRentalTerms
	Restrictions      []string
	PreferredCrops    []string
	ContactPreference string
	AvailableFrom     *time.Time
	AvailableTo       *time.Time
	IsActive          *bool
}

type ListLandsInput struct {
	Filter repository.LandFilter
	Sort   repository.LandSort
	Page   int
	Limit  int
}

// LandDetail is a land with its owner's public profile in place of the owner id.
type LandDetail struct {
	*entity.Land
	Owner *entity.UserSummary `json:"owner"`
}

func (uc *LandUseCase) Create(ctx context.Context, owner *entity.User, input LandInput) (*entity.Land, error) {
	if owner.Role != entity.RoleLandowner {
		return nil, errors.Forbidden("Only landowners can list land", nil)
	}
	if input.AvailableAcres > input.TotalAcres {
		return nil, errors.Validation("Validation failed", errors.FieldError{
			Field: "availableAcres", Message: "availableAcres cannot exceed totalAcres",
		})
	}
	if input.Latitude == nil || input.Longitude == nil {
		return nil, errors.Validation("Validation failed", errors.FieldError{
			Field: "location", Message: "latitude and longitude are required",
		})
	}

	now := uc.now()
	land := &entity.Land{
		ID:                uuid.New().String(),
		OwnerID:           owner.ID,
		Title:             strings.TrimSpace(input.Title),
		Description:       strings.TrimSpace(input.Description),
		TotalAcres:        input.TotalAcres,
		AvailableAcres:    input.AvailableAcres,
		PricePerAcre:      input.PricePerAcre,
		Location:          entity.NewGeoPoint(*input.Latitude, *input.Longitude),
		Address:           input.Address,
		SoilType:          input.SoilType,
		WaterSource:       input.WaterSource,
		IrrigationType:    orDefault(input.IrrigationType, "none"),
		LandStatus:        entity.LandStatusAvailable,
		Images:            input.Images,
		LandDocuments:     input.LandDocuments,
		RentalTerms:       withTermDefaults(input.RentalTerms),
		Restrictions:      input.Restrictions,
		PreferredCrops:    input.PreferredCrops,
		ContactPreference: orDefault(input.ContactPreference, "both"),
		AvailableFrom:     now,
		AvailableTo:       input.AvailableTo,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if input.AvailableFrom != nil {
		land.AvailableFrom = *input.AvailableFrom
	}
	if input.LandStatus != "" {
		land.LandStatus = input.LandStatus
	}

	if err := uc.landRepo.Create(ctx, land); err != nil {
		return nil, errors.Internal("Failed to create land listing", err)
	}
	uc.index(ctx, land)

	return land.Refresh(), nil
}

func (uc *LandUseCase) List(ctx context.Context, input ListLandsInput) ([]*entity.Land, int64, error) {
	filter := input.Filter
	if filter.Near != nil && uc.geo != nil {
		ids, err := uc.geo.WithinRadius(ctx, filter.Near.Lat, filter.Near.Lng, filter.Near.RadiusKm)
		if err != nil {
			logger.Warn("geo index unavailable, falling back to store radius search: %v", err)
		} else {
			if ids == nil {
				ids = []string{}
			}
			filter.IDs = ids
		}
	}

	lands, total, err := uc.landRepo.List(ctx, filter, input.Sort, input.Limit, offsetFor(input.Page, input.Limit))
	if err != nil {
		return nil, 0, errors.Internal("Failed to list lands", err)
	}
	for _, l := range lands {
		l.Refresh()
	}
	return lands, total, nil
}

// Get returns an active land. An authenticated viewer other than the owner bumps the view counter.
func (uc *LandUseCase) Get(ctx context.Context, id, viewerID string) (*LandDetail, error) {
	land, err := uc.activeLand(ctx, id)
	if err != nil {
		return nil, err
	}

	if viewerID != "" && viewerID != land.OwnerID {
		if err := uc.landRepo.IncrementViews(ctx, id); err != nil {
			logger.Warn("failed to count view of land %s: %v", id, err)
		} else {
			land.Views++
		}
	}

	detail := &LandDetail{Land: land.Refresh()}
	if owner, err := uc.userRepo.GetByID(ctx, land.OwnerID); err == nil {
		detail.Owner = owner.Summary()
	} else {
		detail.Owner = &entity.UserSummary{ID: land.OwnerID}
	}
	return detail, nil
}

func (uc *LandUseCase) Update(ctx context.Context, callerID, id string, input LandInput) (*entity.Land, error) {
	if _, err := uc.ownedLand(ctx, callerID, id); err != nil {
		return nil, err
	}

	now := uc.now()
	land, err := uc.landRepo.Update(ctx, id, func(l *entity.Land) error {
		if l.OwnerID != callerID {
			return errors.Forbidden("You do not own this land listing", nil)
		}
		return applyLandInput(l, input, now)
	})
	if err != nil {
		return nil, landWriteErr(err, "Failed to update land listing")
	}
	if input.Latitude != nil || input.Longitude != nil {
		uc.index(ctx, land)
	}

	return land.Refresh(), nil
}

// applyLandInput merges a partial update into land. Nested address and rental terms are
// merged field by field.
func applyLandInput(land *entity.Land, input LandInput, now time.Time) error {
	address, terms := land.Address, land.RentalTerms
	if err := copier.CopyWithOption(land, &input, copier.Option{IgnoreEmpty: true}); err != nil {
		return errors.Internal("Failed to apply land update", err)
	}
	land.Address, land.RentalTerms = address, terms
	if err := copier.CopyWithOption(&land.Address, &input.Address, copier.Option{IgnoreEmpty: true}); err != nil {
		return errors.Internal("Failed to apply land update", err)
	}
	if err := copier.CopyWithOption(&land.RentalTerms, &input.RentalTerms, copier.Option{IgnoreEmpty: true}); err != nil {
		return errors.Internal("Failed to apply land update", err)
	}
	land.RentalTerms = withTermDefaults(land.RentalTerms)

	if input.Latitude != nil || input.Longitude != nil {
		lat, lng := land.Location.Lat(), land.Location.Lng()
		if input.Latitude != nil {
			lat = *input.Latitude
		}
		if input.Longitude != nil {
			lng = *input.Longitude
		}
		land.Location = entity.NewGeoPoint(lat, lng)
	}
	if input.IsActive != nil {
		land.IsActive = *input.IsActive
	}
	if input.AvailableFrom != nil {
		land.AvailableFrom = *input.AvailableFrom
	}
	if input.AvailableTo != nil {
		land.AvailableTo = input.AvailableTo
	}

	if land.AvailableAcres > land.TotalAcres {
		return errors.Validation("Validation failed", errors.FieldError{
			Field: "availableAcres", Message: "availableAcres cannot exceed totalAcres",
		})
	}
	land.UpdatedAt = now
	return nil
}

func (uc *LandUseCase) Delete(ctx context.Context, callerID, id string) error {
	if _, err := uc.ownedLand(ctx, callerID, id); err != nil {
		return err
	}

	if err := uc.landRepo.Delete(ctx, id); err != nil {
		return errors.Internal("Failed to delete land listing", err)
	}
	if uc.geo != nil {
		if err := uc.geo.Remove(ctx, id); err != nil {
			logger.Warn("failed to remove land %s from geo index: %v", id, err)
		}
	}
	return nil
}

func (uc *LandUseCase) ListMine(ctx context.Context, ownerID string, page, limit int) ([]*entity.Land, int64, error) {
	lands, total, err := uc.landRepo.ListByOwner(ctx, ownerID, limit, offsetFor(page, limit))
	if err != nil {
		return nil, 0, errors.Internal("Failed to list your lands", err)
	}
	for _, l := range lands {
		l.Refresh()
	}
	return lands, total, nil
}

// Inquire counts an inquiry and posts the message to the caller's thread with the owner.
func (uc *LandUseCase) Inquire(ctx context.Context, callerID, id, message string) (*ChatView, error) {
	land, err := uc.activeLand(ctx, id)
	if err != nil {
		return nil, err
	}
	if land.LandStatus != entity.LandStatusAvailable {
		return nil, errors.BadRequest("Land is not available for inquiry", nil)
	}
	if land.OwnerID == callerID {
		return nil, errors.BadRequest("You cannot inquire about your own land", nil)
	}

	if err := uc.landRepo.IncrementInquiries(ctx, id); err != nil {
		logger.Warn("failed to count inquiry on land %s: %v", id, err)
	}

	chat, _, err := uc.chats.Start(ctx, callerID, StartChatInput{
		ParticipantID:  land.OwnerID,
		LandID:         land.ID,
		Title:          land.Title,
		InitialMessage: message,
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, uc.events, service.EventLandInquiry, land.ID, map[string]string{
		"landId": land.ID, "from": callerID, "chatId": chat.ID,
	}, uc.now())
	return chat, nil
}

func (uc *LandUseCase) Rate(ctx context.Context, callerID, id string, rating int) (*entity.Land, error) {
	if rating < 1 || rating > 5 {
		return nil, errors.Validation("Validation failed", errors.FieldError{
			Field: "rating", Message: "rating must be between 1 and 5",
		})
	}

	land, err := uc.activeLand(ctx, id)
	if err != nil {
		return nil, err
	}
	if land.OwnerID == callerID {
		return nil, errors.BadRequest("You cannot rate your own land", nil)
	}

	now := uc.now()
	land, err = uc.landRepo.Update(ctx, id, func(l *entity.Land) error {
		if !l.IsActive {
			return errors.NotFound("Land listing", nil)
		}
		l.ApplyRating(rating)
		l.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, landWriteErr(err, "Failed to save rating")
	}
	return land.Refresh(), nil
}

func (uc *LandUseCase) activeLand(ctx context.Context, id string) (*entity.Land, error) {
	land, err := uc.landRepo.GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("Land listing", err)
		}
		return nil, errors.Internal("Failed to load land listing", err)
	}
	if !land.IsActive {
		return nil, errors.NotFound("Land listing", nil)
	}
	return land, nil
}

func (uc *LandUseCase) ownedLand(ctx context.Context, callerID, id string) (*entity.Land, error) {
	land, err := uc.landRepo.GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("Land listing", err)
		}
		return nil, errors.Internal("Failed to load land listing", err)
	}
	if land.OwnerID != callerID {
		return nil, errors.Forbidden("You do not own this land listing", nil)
	}
	return land, nil
}

func (uc *LandUseCase) index(ctx context.Context, land *entity.Land) {
	if uc.geo == nil || !land.Location.Valid() {
		return
	}
	if err := uc.geo.Upsert(ctx, land.ID, land.Location.Lat(), land.Location.Lng()); err != nil {
		logger.Warn("failed to index land %s: %v", land.ID, err)
	}
}

func withTermDefaults(t entity.LandRentalTerms) entity.LandRentalTerms {
	if t.MinimumDuration == 0 {
		t.MinimumDuration = 1
	}
	if t.MaximumDuration == 0 {
		t.MaximumDuration = 12
	}
	if t.PaymentSchedule == "" {
		t.PaymentSchedule = "monthly"
	}
	return t
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// landWriteErr keeps the errors raised inside an update and classifies repository failures.
func landWriteErr(err error, message string) error {
	var appErr *errors.AppError
	switch {
	case errors.IsNotFound(err):
		return errors.NotFound("Land listing", err)
	case stderrors.As(err, &appErr):
		return appErr
	case errors.IsConflict(err):
		return errors.Conflict("Land listing changed while saving, please retry")
	}
	return errors.Internal(message, err)
}
