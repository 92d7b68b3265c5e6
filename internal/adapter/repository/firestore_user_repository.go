package repository

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"

	"agrirent/internal/domain/entity"
	"agrirent/internal/domain/repository"
	"agrirent/pkg/errors"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	if existing, err := r.GetByEmail(ctx, user.Email); err == nil && existing != nil {
		return errors.ErrConflict
	}
	_, err := r.client.Collection(usersCollection).Doc(user.ID).Create(ctx, user)
	return mapFirestoreWriteErr(err, "User")
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return getDoc[entity.User](ctx, r.client.Collection(usersCollection).Doc(id), "User")
}

func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	iter := r.client.Collection(usersCollection).
		Where("email", "==", strings.ToLower(email)).
		Limit(1).
		Documents(ctx)
	users, err := collectDocs[entity.User](iter)
	if err != nil {
		return nil, errors.Internal("Failed to query users", err)
	}
	if len(users) == 0 {
		return nil, errors.NotFound("User", errors.ErrNotFound)
	}
	return users[0], nil
}

func (r *firestoreUserRepository) Update(ctx context.Context, user *entity.User) error {
	return setExisting(ctx, r.client, r.client.Collection(usersCollection).Doc(user.ID), user, "User")
}

func (r *firestoreUserRepository) List(ctx context.Context, filter repository.UserFilter, limit, offset int) ([]*entity.User, int64, error) {
	query := r.client.Collection(usersCollection).Query
	if filter.Role != "" {
		query = query.Where("role", "==", filter.Role)
	}
	if filter.OnlyActive {
		query = query.Where("isActive", "==", true)
	}

	// Firestore cannot do substring or multi-range filters, the rest runs in memory
	all, err := collectDocs[entity.User](query.Documents(ctx))
	if err != nil {
		return nil, 0, errors.Internal("Failed to list users", err)
	}

	var users []*entity.User
	for _, u := range all {
		if matchUser(u, filter) {
			users = append(users, u)
		}
	}
	sortUsersByRating(users)
	return page(users, limit, offset), int64(len(users)), nil
}
