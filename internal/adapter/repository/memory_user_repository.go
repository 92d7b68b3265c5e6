package repository

import (
	"context"
	"strings"

	"agrirent/internal/domain/entity"
	"agrirent/internal/domain/repository"
	"agrirent/pkg/errors"
)

type memoryUserRepository struct {
	store *memoryStore[entity.User]
}

func NewMemoryUserRepository() repository.UserRepository {
	return &memoryUserRepository{store: newMemoryStore[entity.User]()}
}

func (r *memoryUserRepository) Create(ctx context.Context, user *entity.User) error {
	if existing, _ := r.GetByEmail(ctx, user.Email); existing != nil {
		return errors.ErrConflict
	}
	if !r.store.insert(user.ID, user) {
		return errors.ErrConflict
	}
	return nil
}

func (r *memoryUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.store.get(id)
}

func (r *memoryUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	found := r.store.filter(func(u *entity.User) bool {
		return strings.EqualFold(u.Email, email)
	})
	if len(found) == 0 {
		return nil, errors.ErrNotFound
	}
	return found[0], nil
}

func (r *memoryUserRepository) Update(ctx context.Context, user *entity.User) error {
	return r.store.replace(user.ID, user)
}

func (r *memoryUserRepository) List(ctx context.Context, filter repository.UserFilter, limit, offset int) ([]*entity.User, int64, error) {
	users := r.store.filter(func(u *entity.User) bool { return matchUser(u, filter) })
	sortUsersByRating(users)
	return page(users, limit, offset), int64(len(users)), nil
}
