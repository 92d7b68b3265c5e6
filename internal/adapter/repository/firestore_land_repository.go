package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"agrirent/internal/domain/entity"
	"agrirent/internal/domain/repository"
	"agrirent/pkg/errors"
)

type firestoreLandRepository struct {
	client *firestore.Client
}

func NewFirestoreLandRepository(client *firestore.Client) repository.LandRepository {
	return &firestoreLandRepository{
		client: client,
	}
}

func (r *firestoreLandRepository) doc(id string) *firestore.DocumentRef {
	return r.client.Collection(landsCollection).Doc(id)
}

func (r *firestoreLandRepository) Create(ctx context.Context, land *entity.Land) error {
	_, err := r.doc(land.ID).Create(ctx, land)
	return mapFirestoreWriteErr(err, "Land")
}

func (r *firestoreLandRepository) GetByID(ctx context.Context, id string) (*entity.Land, error) {
	return getDoc[entity.Land](ctx, r.doc(id), "Land")
}

func (r *firestoreLandRepository) Update(ctx context.Context, id string, fn func(*entity.Land) error) (*entity.Land, error) {
	var updated *entity.Land
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		land, err := txGetDoc[entity.Land](tx, r.doc(id), "Land")
		if err != nil {
			return err
		}
		if err := fn(land); err != nil {
			return err
		}
		updated = land
		return tx.Set(r.doc(id), land)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *firestoreLandRepository) Delete(ctx context.Context, id string) error {
	_, err := r.doc(id).Delete(ctx, firestore.Exists)
	return mapFirestoreWriteErr(err, "Land")
}

func (r *firestoreLandRepository) List(ctx context.Context, filter repository.LandFilter, sort repository.LandSort, limit, offset int) ([]*entity.Land, int64, error) {
	query := r.client.Collection(landsCollection).
		Where("isActive", "==", true).
		Where("landStatus", "==", entity.LandStatusAvailable)
	if filter.SoilType != "" {
		query = query.Where("soilType", "==", filter.SoilType)
	}
	if filter.WaterSource != "" {
		query = query.Where("waterSource", "==", filter.WaterSource)
	}
	if filter.IrrigationType != "" {
		query = query.Where("irrigationType", "==", filter.IrrigationType)
	}

	all, err := collectDocs[entity.Land](query.Documents(ctx))
	if err != nil {
		return nil, 0, errors.Internal("Failed to list lands", err)
	}

	var lands []*entity.Land
	for _, l := range all {
		if matchLand(l, filter) {
			lands = append(lands, l)
		}
	}
	sortLands(lands, sort)
	return page(lands, limit, offset), int64(len(lands)), nil
}

func (r *firestoreLandRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Land, int64, error) {
	all, err := collectDocs[entity.Land](r.client.Collection(landsCollection).Where("owner", "==", ownerID).Documents(ctx))
	if err != nil {
		return nil, 0, errors.Internal("Failed to list lands", err)
	}
	sortLands(all, repository.LandSort{Field: repository.LandSortCreatedAt, Desc: true})
	return page(all, limit, offset), int64(len(all)), nil
}

func (r *firestoreLandRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.doc(id).Update(ctx, []firestore.Update{
		{Path: "views", Value: firestore.Increment(1)},
	})
	return mapFirestoreWriteErr(err, "Land")
}

func (r *firestoreLandRepository) IncrementInquiries(ctx context.Context, id string) error {
	_, err := r.doc(id).Update(ctx, []firestore.Update{
		{Path: "inquiries", Value: firestore.Increment(1)},
	})
	return mapFirestoreWriteErr(err, "Land")
}

func (r *firestoreLandRepository) ReserveAcreage(ctx context.Context, id string, acres float64) (*entity.Land, error) {
	var reserved *entity.Land
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		land, err := txGetDoc[entity.Land](tx, r.doc(id), "Land")
		if err != nil {
			return err
		}
		if !land.IsListed() || land.AvailableAcres < acres {
			return errors.ErrConflict
		}
		land.AvailableAcres = entity.RoundCents(land.AvailableAcres - acres)
		land.LandStatus = entity.LandStatusRented
		land.UpdatedAt = time.Now()
		reserved = land
		return tx.Set(r.doc(id), land)
	})
	if err != nil {
		return nil, err
	}
	return reserved, nil
}

func (r *firestoreLandRepository) ReleaseAcreage(ctx context.Context, id string, acres float64) error {
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		land, err := txGetDoc[entity.Land](tx, r.doc(id), "Land")
		if err != nil {
			return err
		}
		return tx.Update(r.doc(id), []firestore.Update{
			{Path: "availableAcres", Value: releasedAcres(land, acres)},
			{Path: "landStatus", Value: entity.LandStatusAvailable},
			{Path: "updatedAt", Value: time.Now()},
		})
	})
}
