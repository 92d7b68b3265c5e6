package repository

import (
	"context"

	"agrirent/internal/domain/entity"
)

type UserFilter struct {
	Role          string
	OnlyActive    bool
	Search        string
	State         string
	City          string
	MinExperience int
}

// UserRepository persists user documents. Lookups that miss return errors.ErrNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	// List returns matching users ordered by rating, highest first.
	List(ctx context.Context, filter UserFilter, limit, offset int) ([]*entity.User, int64, error)
}
