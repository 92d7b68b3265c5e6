package repository

import (
	"context"
	"time"

	"agrirent/internal/domain/entity"
	"agrirent/internal/domain/repository"
	"agrirent/pkg/errors"
)

type memoryRentalRepository struct {
	store *memoryStore[entity.Rental]
}

func NewMemoryRentalRepository() repository.RentalRepository {
	return &memoryRentalRepository{store: newMemoryStore[entity.Rental]()}
}

func (r *memoryRentalRepository) Create(ctx context.Context, rental *entity.Rental) error {
	if !r.store.insert(rental.ID, rental) {
		return errors.ErrConflict
	}
	return nil
}

func (r *memoryRentalRepository) GetByID(ctx context.Context, id string) (*entity.Rental, error) {
	return r.store.get(id)
}

func (r *memoryRentalRepository) Update(ctx context.Context, rental *entity.Rental) error {
	return r.store.replace(rental.ID, rental)
}

func (r *memoryRentalRepository) Delete(ctx context.Context, id string) error {
	return r.store.remove(id)
}

func (r *memoryRentalRepository) ListByParticipant(ctx context.Context, userID, status string, limit, offset int) ([]*entity.Rental, int64, error) {
	rentals := r.store.filter(func(rental *entity.Rental) bool {
		return rental.IsParticipant(userID) && (status == "" || rental.Status == status)
	})
	sortRentalsNewestFirst(rentals)
	return page(rentals, limit, offset), int64(len(rentals)), nil
}

func (r *memoryRentalRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int, error) {
	candidates := r.store.filter(func(rental *entity.Rental) bool {
		return rental.Status == entity.RentalStatusActive
	})

	changed := 0
	for _, c := range candidates {
		_, err := r.store.mutate(c.ID, func(rental *entity.Rental) error {
			if rental.Status != entity.RentalStatusActive {
				return nil
			}
			touched := false
			for i := range rental.Payments {
				p := &rental.Payments[i]
				if p.Status == entity.PaymentStatusPending && p.DueDate.Before(asOf) {
					p.Status = entity.PaymentStatusOverdue
					touched = true
				}
			}
			if touched {
				changed++
			}
			return nil
		})
		if err != nil && err != errors.ErrNotFound {
			return changed, err
		}
	}
	return changed, nil
}
