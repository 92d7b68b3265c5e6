package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"agrirent/internal/domain/entity"
	"agrirent/internal/domain/repository"
	"agrirent/pkg/errors"
	"agrirent/pkg/logger"
)

type firestoreRentalRepository struct {
	client *firestore.Client
}

func NewFirestoreRentalRepository(client *firestore.Client) repository.RentalRepository {
	return &firestoreRentalRepository{
		client: client,
	}
}

func (r *firestoreRentalRepository) doc(id string) *firestore.DocumentRef {
	return r.client.Collection(rentalsCollection).Doc(id)
}

func (r *firestoreRentalRepository) Create(ctx context.Context, rental *entity.Rental) error {
	_, err := r.doc(rental.ID).Create(ctx, rental)
	return mapFirestoreWriteErr(err, "Rental")
}

func (r *firestoreRentalRepository) GetByID(ctx context.Context, id string) (*entity.Rental, error) {
	return getDoc[entity.Rental](ctx, r.doc(id), "Rental")
}

func (r *firestoreRentalRepository) Update(ctx context.Context, rental *entity.Rental) error {
	return setExisting(ctx, r.client, r.doc(rental.ID), rental, "Rental")
}

func (r *firestoreRentalRepository) Delete(ctx context.Context, id string) error {
	_, err := r.doc(id).Delete(ctx)
	return mapFirestoreWriteErr(err, "Rental")
}

func (r *firestoreRentalRepository) ListByParticipant(ctx context.Context, userID, status string, limit, offset int) ([]*entity.Rental, int64, error) {
	var rentals []*entity.Rental
	for _, field := range []string{"landowner", "farmer"} {
		query := r.client.Collection(rentalsCollection).Where(field, "==", userID)
		if status != "" {
			query = query.Where("status", "==", status)
		}
		found, err := collectDocs[entity.Rental](query.Documents(ctx))
		if err != nil {
			return nil, 0, errors.Internal("Failed to list rentals", err)
		}
		rentals = append(rentals, found...)
	}
	sortRentalsNewestFirst(rentals)
	return page(rentals, limit, offset), int64(len(rentals)), nil
}

func (r *firestoreRentalRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int, error) {
	active, err := collectDocs[entity.Rental](
		r.client.Collection(rentalsCollection).Where("status", "==", entity.RentalStatusActive).Documents(ctx),
	)
	if err != nil {
		return 0, errors.Internal("Failed to list active rentals", err)
	}

	total := 0
	for _, candidate := range active {
		changed := false
		err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
			changed = false
			rental, err := txGetDoc[entity.Rental](tx, r.doc(candidate.ID), "Rental")
			if err != nil {
				return err
			}
			if rental.Status != entity.RentalStatusActive {
				return nil
			}
			for i := range rental.Payments {
				p := &rental.Payments[i]
				if p.Status == entity.PaymentStatusPending && p.DueDate.Before(asOf) {
					p.Status = entity.PaymentStatusOverdue
					changed = true
				}
			}
			if !changed {
				return nil
			}
			return tx.Update(r.doc(candidate.ID), []firestore.Update{
				{Path: "payments", Value: rental.Payments},
			})
		})
		if err != nil {
			logger.Warn("MarkOverdue: rental %s: %v", candidate.ID, err)
			continue
		}
		if changed {
			total++
		}
	}
	return total, nil
}
