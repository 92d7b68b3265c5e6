package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"agrirent/internal/domain/entity"
	"agrirent/internal/domain/repository"
	apperrors "agrirent/pkg/errors"
)

type mongoRentalRepository struct {
	coll *mongo.Collection
}

func NewMongoRentalRepository(db *mongo.Database) repository.RentalRepository {
	return &mongoRentalRepository{coll: db.Collection(rentalsCollection)}
}

func (r *mongoRentalRepository) Create(ctx context.Context, rental *entity.Rental) error {
	return mongoInsert(ctx, r.coll, rental, "Rental")
}

func (r *mongoRentalRepository) GetByID(ctx context.Context, id string) (*entity.Rental, error) {
	return mongoFindByID[entity.Rental](ctx, r.coll, id, "Rental")
}

func (r *mongoRentalRepository) Update(ctx context.Context, rental *entity.Rental) error {
	return mongoReplace(ctx, r.coll, rental.ID, rental, "Rental")
}

func (r *mongoRentalRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return apperrors.Internal("Failed to delete rental", err)
	}
	return nil
}

func (r *mongoRentalRepository) ListByParticipant(ctx context.Context, userID, status string, limit, offset int) ([]*entity.Rental, int64, error) {
	query := bson.M{
		"$or": bson.A{
			bson.M{"landowner": userID},
			bson.M{"farmer": userID},
		},
	}
	if status != "" {
		query["status"] = status
	}
	rentals, total, err := mongoFindPage[entity.Rental](ctx, r.coll, query, bson.D{{Key: "createdAt", Value: -1}}, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list rentals", err)
	}
	return rentals, total, nil
}

func (r *mongoRentalRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int, error) {
	due := bson.M{"status": entity.PaymentStatusPending, "dueDate": bson.M{"$lt": asOf}}
	filter := bson.M{
		"status":   entity.RentalStatusActive,
		"payments": bson.M{"$elemMatch": due},
	}
	update := bson.M{"$set": bson.M{"payments.$[p].status": entity.PaymentStatusOverdue}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{
			"p.status":  entity.PaymentStatusPending,
			"p.dueDate": bson.M{"$lt": asOf},
		}},
	})

	res, err := r.coll.UpdateMany(ctx, filter, update, opts)
	if err != nil {
		return 0, apperrors.Internal("Failed to mark overdue installments", err)
	}
	return int(res.ModifiedCount), nil
}
