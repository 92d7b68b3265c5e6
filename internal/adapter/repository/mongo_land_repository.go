package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"agrirent/internal/domain/entity"
	"agrirent/internal/domain/repository"
	apperrors "agrirent/pkg/errors"
)

// earth radius used by $centerSphere, in km
const mongoEarthRadiusKm = 6378.1

const mongoUpdateAttempts = 5

type mongoLandRepository struct {
	coll *mongo.Collection
}

func NewMongoLandRepository(db *mongo.Database) repository.LandRepository {
	return &mongoLandRepository{coll: db.Collection(landsCollection)}
}

func (r *mongoLandRepository) Create(ctx context.Context, land *entity.Land) error {
	return mongoInsert(ctx, r.coll, land, "Land")
}

func (r *mongoLandRepository) GetByID(ctx context.Context, id string) (*entity.Land, error) {
	return mongoFindByID[entity.Land](ctx, r.coll, id, "Land")
}

// Update is an optimistic read-modify-write. The write only lands if the acreage fields and
// updatedAt still hold the values fn saw, and it never touches the counters.
func (r *mongoLandRepository) Update(ctx context.Context, id string, fn func(*entity.Land) error) (*entity.Land, error) {
	for attempt := 0; attempt < mongoUpdateAttempts; attempt++ {
		land, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		filter := bson.M{
			"_id":            id,
			"availableAcres": land.AvailableAcres,
			"landStatus":     land.LandStatus,
			"updatedAt":      land.UpdatedAt,
		}
		if err := fn(land); err != nil {
			return nil, err
		}

		fields, err := landSetFields(land)
		if err != nil {
			return nil, apperrors.Internal("Failed to encode land", err)
		}
		res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": fields})
		if err != nil {
			return nil, apperrors.Internal("Failed to update land", err)
		}
		if res.MatchedCount == 1 {
			return land, nil
		}
	}
	return nil, apperrors.ErrConflict
}

// landSetFields is the $set document for a land without its id and counters.
func landSetFields(land *entity.Land) (bson.M, error) {
	raw, err := bson.Marshal(land)
	if err != nil {
		return nil, err
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	for _, key := range []string{"_id", "views", "inquiries"} {
		delete(fields, key)
	}
	return fields, nil
}

func (r *mongoLandRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperrors.Internal("Failed to delete land", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("Land", apperrors.ErrNotFound)
	}
	return nil
}

func landQuery(f repository.LandFilter) bson.M {
	query := bson.M{
		"isActive":   true,
		"landStatus": entity.LandStatusAvailable,
	}
	if f.IDs != nil {
		query["_id"] = bson.M{"$in": f.IDs}
	}
	if price := rangeQuery(f.MinPrice, f.MaxPrice); price != nil {
		query["pricePerAcre"] = price
	}
	if acres := rangeQuery(f.MinAcres, f.MaxAcres); acres != nil {
		query["availableAcres"] = acres
	}
	if f.SoilType != "" {
		query["soilType"] = f.SoilType
	}
	if f.WaterSource != "" {
		query["waterSource"] = f.WaterSource
	}
	if f.IrrigationType != "" {
		query["irrigationType"] = f.IrrigationType
	}
	for field, value := range map[string]string{
		"address.state":    f.State,
		"address.city":     f.City,
		"address.district": f.District,
		"address.village":  f.Village,
	} {
		if value != "" {
			query[field] = containsRegex(value)
		}
	}
	if f.Search != "" {
		query["$text"] = bson.M{"$search": f.Search}
	}
	if f.Near != nil {
		query["location"] = bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{
					bson.A{f.Near.Lng, f.Near.Lat},
					f.Near.RadiusKm / mongoEarthRadiusKm,
				},
			},
		}
	}
	return query
}

func rangeQuery(min, max float64) bson.M {
	if min <= 0 && max <= 0 {
		return nil
	}
	q := bson.M{}
	if min > 0 {
		q["$gte"] = min
	}
	if max > 0 {
		q["$lte"] = max
	}
	return q
}

func landSortDoc(s repository.LandSort) bson.D {
	field := "createdAt"
	switch s.Field {
	case repository.LandSortPrice:
		field = "pricePerAcre"
	case repository.LandSortAcres:
		field = "availableAcres"
	case repository.LandSortRating:
		field = "rating"
	}
	dir := 1
	if s.Desc {
		dir = -1
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: 1}}
}

func (r *mongoLandRepository) List(ctx context.Context, filter repository.LandFilter, sort repository.LandSort, limit, offset int) ([]*entity.Land, int64, error) {
	lands, total, err := mongoFindPage[entity.Land](ctx, r.coll, landQuery(filter), landSortDoc(sort), limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list lands", err)
	}
	return lands, total, nil
}

func (r *mongoLandRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Land, int64, error) {
	lands, total, err := mongoFindPage[entity.Land](ctx, r.coll, bson.M{"owner": ownerID}, bson.D{{Key: "createdAt", Value: -1}}, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list lands", err)
	}
	return lands, total, nil
}

func (r *mongoLandRepository) increment(ctx context.Context, id, field string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{field: 1}})
	if err != nil {
		return apperrors.Internal("Failed to update land", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("Land", apperrors.ErrNotFound)
	}
	return nil
}

func (r *mongoLandRepository) IncrementViews(ctx context.Context, id string) error {
	return r.increment(ctx, id, "views")
}

func (r *mongoLandRepository) IncrementInquiries(ctx context.Context, id string) error {
	return r.increment(ctx, id, "inquiries")
}

func (r *mongoLandRepository) ReserveAcreage(ctx context.Context, id string, acres float64) (*entity.Land, error) {
	filter := bson.M{
		"_id":            id,
		"isActive":       true,
		"landStatus":     entity.LandStatusAvailable,
		"availableAcres": bson.M{"$gte": acres},
	}
	update := bson.M{
		"$inc": bson.M{"availableAcres": -acres},
		"$set": bson.M{"landStatus": entity.LandStatusRented, "updatedAt": time.Now()},
	}

	var land entity.Land
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&land)
	if err == nil {
		return &land, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.Internal("Failed to reserve acreage", err)
	}
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, apperrors.ErrConflict
}

func (r *mongoLandRepository) ReleaseAcreage(ctx context.Context, id string, acres float64) error {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "availableAcres", Value: bson.D{{Key: "$min", Value: bson.A{
				"$totalAcres",
				bson.D{{Key: "$add", Value: bson.A{"$availableAcres", acres}}},
			}}}},
			{Key: "landStatus", Value: entity.LandStatusAvailable},
			{Key: "updatedAt", Value: time.Now()},
		}}},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return apperrors.Internal("Failed to release acreage", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("Land", apperrors.ErrNotFound)
	}
	return nil
}
