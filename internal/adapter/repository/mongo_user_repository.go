package repository

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"agrirent/internal/domain/entity"
	"agrirent/internal/domain/repository"
	apperrors "agrirent/pkg/errors"
)

type mongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	return &mongoUserRepository{coll: db.Collection(usersCollection)}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *entity.User) error {
	return mongoInsert(ctx, r.coll, user, "User")
}

func (r *mongoUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return mongoFindByID[entity.User](ctx, r.coll, id, "User")
}

func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.coll.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("User", apperrors.ErrNotFound)
		}
		return nil, apperrors.Internal("Failed to get user", err)
	}
	return &user, nil
}

func (r *mongoUserRepository) Update(ctx context.Context, user *entity.User) error {
	return mongoReplace(ctx, r.coll, user.ID, user, "User")
}

func (r *mongoUserRepository) List(ctx context.Context, filter repository.UserFilter, limit, offset int) ([]*entity.User, int64, error) {
	query := bson.M{}
	if filter.Role != "" {
		query["role"] = filter.Role
	}
	if filter.OnlyActive {
		query["isActive"] = true
	}
	if filter.MinExperience > 0 {
		query["farmingExperience"] = bson.M{"$gte": filter.MinExperience}
	}
	if filter.State != "" {
		query["address.state"] = containsRegex(filter.State)
	}
	if filter.City != "" {
		query["address.city"] = containsRegex(filter.City)
	}
	if filter.Search != "" {
		rx := containsRegex(filter.Search)
		query["$or"] = bson.A{
			bson.M{"name": rx},
			bson.M{"address.city": rx},
			bson.M{"address.state": rx},
		}
	}

	users, total, err := mongoFindPage[entity.User](ctx, r.coll, query, bson.D{{Key: "rating", Value: -1}}, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list users", err)
	}
	return users, total, nil
}
