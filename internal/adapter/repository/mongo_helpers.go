package repository

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "agrirent/pkg/errors"
)

// EnsureMongoIndexes creates the indexes the repositories rely on. It is idempotent.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}, {Key: "rating", Value: -1}}},
		},
		landsCollection: {
			{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
			{Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "description", Value: "text"},
				{Key: "address.village", Value: "text"},
				{Key: "address.city", Value: "text"},
				{Key: "address.district", Value: "text"},
			}},
			{Keys: bson.D{{Key: "owner", Value: 1}}},
			{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "landStatus", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		rentalsCollection: {
			{Keys: bson.D{{Key: "landowner", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "farmer", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		chatsCollection: {
			{Keys: bson.D{{Key: "participants", Value: 1}, {Key: "isActive", Value: 1}}},
		},
	}
	for collection, models := range specs {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

func mongoFindByID[T any](ctx context.Context, coll *mongo.Collection, id, resource string) (*T, error) {
	var out T
	err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound(resource, apperrors.ErrNotFound)
		}
		return nil, apperrors.Internal("Failed to get "+resource, err)
	}
	return &out, nil
}

func mongoReplace(ctx context.Context, coll *mongo.Collection, id string, doc interface{}, resource string) error {
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return apperrors.Internal("Failed to update "+resource, err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound(resource, apperrors.ErrNotFound)
	}
	return nil
}

func mongoInsert(ctx context.Context, coll *mongo.Collection, doc interface{}, resource string) error {
	_, err := coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrConflict
		}
		return apperrors.Internal("Failed to create "+resource, err)
	}
	return nil
}

// mongoFindPage counts and fetches one page of documents matching filter.
func mongoFindPage[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, sort bson.D, limit, offset int) ([]*T, int64, error) {
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(sort).SetSkip(int64(offset))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	var out []*T
	if err := cursor.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func containsRegex(value string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(value), Options: "i"}
}
