package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"agrirent/internal/domain/entity"
	"agrirent/internal/domain/repository"
	"agrirent/internal/domain/service"
	"agrirent/pkg/errors"
)

const minPasswordLength = 6

type AuthUseCase struct {
	userRepo repository.UserRepository
	tokens   service.TokenService
	now      Clock
}

func NewAuthUseCase(userRepo repository.UserRepository, tokens service.TokenService) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		tokens:   tokens,
		now:      time.Now,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Phone    string
	Address  entity.Address
}

type AuthResult struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token"`
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if len(input.Password) < minPasswordLength {
		return nil, errors.Validation("Validation failed", errors.FieldError{
			Field: "password", Message: "password must be at least 6 characters",
		})
	}
	if input.Role != entity.RoleFarmer && input.Role != entity.RoleLandowner {
		return nil, errors.Validation("Validation failed", errors.FieldError{
			Field: "role", Message: "role must be one of: farmer landowner",
		})
	}

	if existing, err := uc.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, errors.Conflict("User already exists with this email")
	} else if err != nil && !errors.IsNotFound(err) {
		return nil, errors.Internal("Failed to check email", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Internal("Failed to hash password", err)
	}

	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		Phone:        input.Phone,
		PasswordHash: string(hash),
		Role:         input.Role,
		Address:      input.Address,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.IsConflict(err) {
			return nil, errors.Conflict("User already exists with this email")
		}
		return nil, errors.Internal("Failed to create user record", err)
	}

	token, err := uc.tokens.IssueToken(ctx, user.ID)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Unauthorized("Invalid credentials", nil)
		}
		return nil, errors.Internal("Failed to load user", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, errors.Unauthorized("Invalid credentials", nil)
	}
	if !user.IsActive {
		return nil, errors.Unauthorized("Account is deactivated", nil)
	}

	token, err := uc.tokens.IssueToken(ctx, user.ID)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Authenticate resolves a bearer token to an active user.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	uid, err := uc.tokens.VerifyToken(ctx, token)
	if err != nil {
		return nil, errors.Unauthorized("Invalid or expired token", err)
	}

	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Unauthorized("Token is not valid", err)
		}
		return nil, errors.Internal("Failed to load user", err)
	}
	if !user.IsActive {
		return nil, errors.Unauthorized("Account is deactivated", nil)
	}
	return user, nil
}
