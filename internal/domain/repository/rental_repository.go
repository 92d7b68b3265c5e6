package repository

import (
	"context"
	"time"

	"agrirent/internal/domain/entity"
)

// RentalRepository persists rental documents. Lookups that miss return errors.ErrNotFound.
type RentalRepository interface {
	Create(ctx context.Context, rental *entity.Rental) error
	GetByID(ctx context.Context, id string) (*entity.Rental, error)
	Update(ctx context.Context, rental *entity.Rental) error
	Delete(ctx context.Context, id string) error

	// ListByParticipant returns rentals where userID is landowner or farmer, newest first.
	// An empty status matches every status.
	ListByParticipant(ctx context.Context, userID, status string, limit, offset int) ([]*entity.Rental, int64, error)

	// MarkOverdue flips pending installments of active rentals due before asOf to overdue
	// without touching any other field. It returns the number of rentals changed.
	MarkOverdue(ctx context.Context, asOf time.Time) (int, error)
}
