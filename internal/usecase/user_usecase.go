package usecase

import (
	"context"
	"time"

	"github.com/jinzhu/copier"

	"agrirent/internal/domain/entity"
	"agrirent/internal/domain/repository"
	"agrirent/pkg/errors"
)

type UserUseCase struct {
	userRepo repository.UserRepository
	now      Clock
}

func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		now:      time.Now,
	}
}

// UpdateProfileInput carries a partial profile update. Empty fields are left unchanged.
type UpdateProfileInput struct {
	Name              string
	Phone             string
	Address           entity.Address
	FarmingExperience int
	PreferredCrops    []string
	BankDetails       *entity.BankDetails
	ProfileImage      string
}

type DocumentInput struct {
	DocumentType string
	DocumentURL  string
}

type ListUsersInput struct {
	Search        string
	State         string
	City          string
	MinExperience int
	Page          int
	Limit         int
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Internal("Failed to load user", err)
	}
	return user, nil
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	address := user.Address
	if err := copier.CopyWithOption(user, &input, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, errors.Internal("Failed to apply profile update", err)
	}
	user.Address = address
	if err := copier.CopyWithOption(&user.Address, &input.Address, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, errors.Internal("Failed to apply profile update", err)
	}
	user.UpdatedAt = uc.now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Internal("Failed to update user profile", err)
	}
	return user, nil
}

// Deactivate soft deletes the account. Existing data stays in place.
func (uc *UserUseCase) Deactivate(ctx context.Context, userID string) error {
	user, err := uc.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	user.IsActive = false
	user.UpdatedAt = uc.now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return errors.Internal("Failed to deactivate account", err)
	}
	return nil
}

func (uc *UserUseCase) UploadDocuments(ctx context.Context, userID string, docs []DocumentInput) (*entity.User, error) {
	user, err := uc.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != entity.RoleLandowner {
		return nil, errors.Forbidden("Only landowners can upload land documents", nil)
	}
	if len(docs) == 0 {
		return nil, errors.BadRequest("No documents provided", nil)
	}

	now := uc.now()
	for _, d := range docs {
		user.LandDocuments = append(user.LandDocuments, entity.Document{
			DocumentType: d.DocumentType,
			DocumentURL:  d.DocumentURL,
			UploadedAt:   now,
		})
	}
	user.UpdatedAt = now

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Internal("Failed to save documents", err)
	}
	return user, nil
}

// GetPublicProfile returns another user's profile without their bank details.
func (uc *UserUseCase) GetPublicProfile(ctx context.Context, id string) (*entity.User, error) {
	user, err := loadActiveUser(ctx, uc.userRepo, id, "User")
	if err != nil {
		return nil, err
	}
	user.BankDetails = nil
	return user, nil
}

func (uc *UserUseCase) ListByRole(ctx context.Context, role string, input ListUsersInput) ([]*entity.User, int64, error) {
	users, total, err := uc.userRepo.List(ctx, repository.UserFilter{
		Role:          role,
		OnlyActive:    true,
		Search:        input.Search,
		State:         input.State,
		City:          input.City,
		MinExperience: input.MinExperience,
	}, input.Limit, offsetFor(input.Page, input.Limit))
	if err != nil {
		return nil, 0, errors.Internal("Failed to list users", err)
	}
	return users, total, nil
}

func (uc *UserUseCase) Rate(ctx context.Context, raterID, targetID string, rating int) (*entity.User, error) {
	if raterID == targetID {
		return nil, errors.BadRequest("You cannot rate yourself", nil)
	}
	if rating < 1 || rating > 5 {
		return nil, errors.Validation("Validation failed", errors.FieldError{
			Field: "rating", Message: "rating must be between 1 and 5",
		})
	}

	target, err := loadActiveUser(ctx, uc.userRepo, targetID, "User")
	if err != nil {
		return nil, err
	}

	target.ApplyRating(rating)
	target.UpdatedAt = uc.now()
	if err := uc.userRepo.Update(ctx, target); err != nil {
		return nil, errors.Internal("Failed to save rating", err)
	}
	return target, nil
}
