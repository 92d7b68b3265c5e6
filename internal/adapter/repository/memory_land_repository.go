package repository

import (
	"context"
	"time"

	"agrirent/internal/domain/entity"
	"agrirent/internal/domain/repository"
	"agrirent/pkg/errors"
)

type memoryLandRepository struct {
	store *memoryStore[entity.Land]
}

func NewMemoryLandRepository() repository.LandRepository {
	return &memoryLandRepository{store: newMemoryStore[entity.Land]()}
}

func (r *memoryLandRepository) Create(ctx context.Context, land *entity.Land) error {
	if !r.store.insert(land.ID, land) {
		return errors.ErrConflict
	}
	return nil
}

func (r *memoryLandRepository) GetByID(ctx context.Context, id string) (*entity.Land, error) {
	return r.store.get(id)
}

func (r *memoryLandRepository) Update(ctx context.Context, id string, fn func(*entity.Land) error) (*entity.Land, error) {
	return r.store.mutate(id, fn)
}

func (r *memoryLandRepository) Delete(ctx context.Context, id string) error {
	return r.store.remove(id)
}

func (r *memoryLandRepository) List(ctx context.Context, filter repository.LandFilter, sort repository.LandSort, limit, offset int) ([]*entity.Land, int64, error) {
	lands := r.store.filter(func(l *entity.Land) bool { return matchLand(l, filter) })
	sortLands(lands, sort)
	return page(lands, limit, offset), int64(len(lands)), nil
}

func (r *memoryLandRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Land, int64, error) {
	lands := r.store.filter(func(l *entity.Land) bool { return l.OwnerID == ownerID })
	sortLands(lands, repository.LandSort{Field: repository.LandSortCreatedAt, Desc: true})
	return page(lands, limit, offset), int64(len(lands)), nil
}

func (r *memoryLandRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.store.mutate(id, func(l *entity.Land) error {
		l.Views++
		return nil
	})
	return err
}

func (r *memoryLandRepository) IncrementInquiries(ctx context.Context, id string) error {
	_, err := r.store.mutate(id, func(l *entity.Land) error {
		l.Inquiries++
		return nil
	})
	return err
}

func (r *memoryLandRepository) ReserveAcreage(ctx context.Context, id string, acres float64) (*entity.Land, error) {
	return r.store.mutate(id, func(l *entity.Land) error {
		if !l.IsListed() || l.AvailableAcres < acres {
			return errors.ErrConflict
		}
		l.AvailableAcres = entity.RoundCents(l.AvailableAcres - acres)
		l.LandStatus = entity.LandStatusRented
		l.UpdatedAt = time.Now()
		return nil
	})
}

func (r *memoryLandRepository) ReleaseAcreage(ctx context.Context, id string, acres float64) error {
	_, err := r.store.mutate(id, func(l *entity.Land) error {
		l.AvailableAcres = releasedAcres(l, acres)
		l.LandStatus = entity.LandStatusAvailable
		l.UpdatedAt = time.Now()
		return nil
	})
	return err
}

func releasedAcres(l *entity.Land, acres float64) float64 {
	v := entity.RoundCents(l.AvailableAcres + acres)
	if v > l.TotalAcres {
		v = l.TotalAcres
	}
	return v
}
