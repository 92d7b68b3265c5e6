package usecase

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"agrirent/internal/domain/entity"
	"agrirent/internal/domain/repository"
	"agrirent/internal/domain/service"
	"agrirent/internal/infrastructure/metrics"
	"agrirent/pkg/errors"
	"agrirent/pkg/logger"
	"agrirent/pkg/utils"
)

type PaymentUseCase struct {
	rentalRepo repository.RentalRepository
	landRepo   repository.LandRepository
	gateway    service.PaymentGateway
	events     service.EventPublisher
	notifier   service.Notifier
	now        Clock
}

func NewPaymentUseCase(
	rentalRepo repository.RentalRepository,
	landRepo repository.LandRepository,
	gateway service.PaymentGateway,
	events service.EventPublisher,
	notifier service.Notifier,
) *PaymentUseCase {
	return &PaymentUseCase{
		rentalRepo: rentalRepo,
		landRepo:   landRepo,
		gateway:    gateway,
		events:     events,
		notifier:   notifier,
		now:        time.Now,
	}
}

type ProcessPaymentInput struct {
	RentalID      string
	PaymentIndex  int
	Amount        float64
	PaymentMethod string
	TransactionID string
	Notes         string
}

type PaymentResult struct {
	Rental  *entity.Rental     `json:"rental"`
	Payment entity.Installment `json:"payment"`
}

type RentalPaymentSummary struct {
	Status          string     `json:"status"`
	TotalAmount     float64    `json:"totalAmount"`
	RemainingAmount float64    `json:"remainingAmount"`
	NextPaymentDue  *time.Time `json:"nextPaymentDue,omitempty"`
	DaysRemaining   int        `json:"daysRemaining"`
}

type PaymentSchedule struct {
	RentalID   string               `json:"rentalId"`
	Payments   []entity.Installment `json:"payments"`
	Statistics entity.PaymentStats  `json:"statistics"`
	Rental     RentalPaymentSummary `json:"rental"`
}

// PaymentEntry is one installment flattened out of its rental.
type PaymentEntry struct {
	entity.Installment
	RentalID     string       `json:"rentalId"`
	RentalStatus string       `json:"rentalStatus"`
	PaymentIndex int          `json:"paymentIndex"`
	Land         *LandSummary `json:"land"`
	DaysOverdue  int          `json:"daysOverdue,omitempty"`
}

func (uc *PaymentUseCase) ProcessPayment(ctx context.Context, callerID string, input ProcessPaymentInput) (*PaymentResult, error) {
	rental, err := participantRental(ctx, uc.rentalRepo, callerID, input.RentalID)
	if err != nil {
		return nil, err
	}
	if rental.Status != entity.RentalStatusActive {
		return nil, errors.BadRequest("Payments can only be processed for active rentals", nil)
	}
	if input.PaymentIndex < 0 || input.PaymentIndex >= len(rental.Payments) {
		return nil, errors.BadRequest("Invalid payment index", nil)
	}

	installment := &rental.Payments[input.PaymentIndex]
	if installment.IsSettled() {
		return nil, errors.BadRequest("Payment already processed", nil)
	}
	if math.Abs(input.Amount-installment.Amount) > entity.AmountTolerance {
		return nil, errors.BadRequest(fmt.Sprintf("Payment amount must be %.2f", installment.Amount), nil)
	}

	reference := strings.TrimSpace(input.TransactionID)
	if input.PaymentMethod == entity.PaymentMethodOnline && uc.gateway != nil {
		reference, err = uc.gateway.Settle(ctx, service.PaymentRequest{
			RentalID:         rental.ID,
			InstallmentIndex: input.PaymentIndex,
			Amount:           installment.Amount,
			PayerID:          callerID,
			Reference:        reference,
		})
		if err != nil {
			return nil, errors.New("PAYMENT_FAILED", "Payment could not be settled", http.StatusPaymentRequired, err)
		}
	}
	if reference == "" {
		reference = "TXN-" + strings.ToUpper(uuid.NewString()[:13])
	}

	now := uc.now()
	installment.Status = entity.PaymentStatusPaid
	installment.PaidDate = &now
	installment.PaymentMethod = input.PaymentMethod
	installment.TransactionID = reference
	installment.Notes = strings.TrimSpace(input.Notes)

	completed := rental.AllPaid()
	if completed {
		rental.Status = entity.RentalStatusCompleted
	}
	rental.UpdatedAt = now

	if err := uc.rentalRepo.Update(ctx, rental); err != nil {
		return nil, errors.Internal("Failed to record payment", err)
	}

	metrics.InstallmentsPaid.WithLabelValues(input.PaymentMethod).Inc()
	publish(ctx, uc.events, service.EventPaymentProcessed, rental.ID, map[string]interface{}{
		"rentalId": rental.ID, "paymentIndex": input.PaymentIndex, "amount": installment.Amount,
		"method": input.PaymentMethod, "transactionId": reference, "paidBy": callerID,
	}, now)
	if completed {
		publish(ctx, uc.events, service.EventRentalCompleted, rental.ID, map[string]string{"rentalId": rental.ID}, now)
	}

	payee := rental.LandownerID
	if callerID == rental.LandownerID {
		payee = rental.FarmerID
	}
	notify(uc.notifier, payee, service.NotifyPaymentReceived, map[string]interface{}{
		"rentalId": rental.ID, "paymentIndex": input.PaymentIndex, "amount": installment.Amount,
	})

	return &PaymentResult{Rental: rental.Refresh(now), Payment: *installment}, nil
}

func (uc *PaymentUseCase) Schedule(ctx context.Context, callerID, rentalID string) (*PaymentSchedule, error) {
	rental, err := participantRental(ctx, uc.rentalRepo, callerID, rentalID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	rental.Refresh(now)
	return &PaymentSchedule{
		RentalID:   rental.ID,
		Payments:   rental.Payments,
		Statistics: rental.Stats(now),
		Rental: RentalPaymentSummary{
			Status:          rental.Status,
			TotalAmount:     rental.TotalAmount,
			RemainingAmount: rental.RemainingAmount,
			NextPaymentDue:  rental.NextPaymentDue,
			DaysRemaining:   rental.DaysRemaining,
		},
	}, nil
}

// MyPayments lists every installment of the caller's rentals, latest due date first.
func (uc *PaymentUseCase) MyPayments(ctx context.Context, callerID, status string, page, limit int) ([]*PaymentEntry, int64, error) {
	rentals, _, err := uc.rentalRepo.ListByParticipant(ctx, callerID, "", 0, 0)
	if err != nil {
		return nil, 0, errors.Internal("Failed to load payments", err)
	}

	lands := uc.landLookup(ctx)
	var entries []*PaymentEntry
	for _, r := range rentals {
		for i, p := range r.Payments {
			if status != "" && p.Status != status {
				continue
			}
			entries = append(entries, &PaymentEntry{
				Installment:  p,
				RentalID:     r.ID,
				RentalStatus: r.Status,
				PaymentIndex: i,
				Land:         lands(r.LandID),
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].DueDate.After(entries[j].DueDate)
	})
	return pageEntries(entries, page, limit), int64(len(entries)), nil
}

// Overdue lists unpaid installments past due on the caller's active rentals, most overdue first.
func (uc *PaymentUseCase) Overdue(ctx context.Context, callerID string, page, limit int) ([]*PaymentEntry, int64, error) {
	rentals, _, err := uc.rentalRepo.ListByParticipant(ctx, callerID, entity.RentalStatusActive, 0, 0)
	if err != nil {
		return nil, 0, errors.Internal("Failed to load overdue payments", err)
	}

	now := uc.now()
	lands := uc.landLookup(ctx)
	var entries []*PaymentEntry
	for _, r := range rentals {
		for i, p := range r.Payments {
			if !p.IsOverdue(now) {
				continue
			}
			entries = append(entries, &PaymentEntry{
				Installment:  p,
				RentalID:     r.ID,
				RentalStatus: r.Status,
				PaymentIndex: i,
				Land:         lands(r.LandID),
				DaysOverdue:  int(now.Sub(p.DueDate).Hours() / 24),
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].DueDate.Before(entries[j].DueDate)
	})
	return pageEntries(entries, page, limit), int64(len(entries)), nil
}

// SendReminder lets the landowner nudge the farmer about an unpaid installment.
func (uc *PaymentUseCase) SendReminder(ctx context.Context, callerID, rentalID string, paymentIndex int, message string) error {
	rental, err := participantRental(ctx, uc.rentalRepo, callerID, rentalID)
	if err != nil {
		return err
	}
	if rental.LandownerID != callerID {
		return errors.Forbidden("Only the landowner can send payment reminders", nil)
	}
	if paymentIndex < 0 || paymentIndex >= len(rental.Payments) {
		return errors.BadRequest("Invalid payment index", nil)
	}

	p := rental.Payments[paymentIndex]
	if p.Status != entity.PaymentStatusPending && p.Status != entity.PaymentStatusOverdue {
		return errors.BadRequest("Reminders can only be sent for pending or overdue payments", nil)
	}

	if strings.TrimSpace(message) == "" {
		message = fmt.Sprintf("Installment %d of %.2f is due on %s.", paymentIndex+1, p.Amount, p.DueDate.Format("02 Jan 2006"))
	}
	payload := map[string]interface{}{
		"rentalId": rental.ID, "paymentIndex": paymentIndex, "amount": p.Amount,
		"dueDate": p.DueDate, "message": message,
	}

	publish(ctx, uc.events, service.EventPaymentReminder, rental.ID, payload, uc.now())
	notify(uc.notifier, rental.FarmerID, service.NotifyPaymentReminder, payload)
	return nil
}

// SweepOverdue flags pending installments of active rentals that are past due.
func (uc *PaymentUseCase) SweepOverdue(ctx context.Context) (int, error) {
	changed, err := uc.rentalRepo.MarkOverdue(ctx, uc.now())
	if err != nil {
		return changed, err
	}
	metrics.OverdueMarked.Add(float64(changed))
	return changed, nil
}

// StartOverdueSweep runs SweepOverdue immediately and then every interval until ctx is done.
// A non-positive interval disables the sweep.
func (uc *PaymentUseCase) StartOverdueSweep(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		logger.Warn("overdue sweep disabled: interval %s is not positive", interval)
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			if n, err := uc.SweepOverdue(ctx); err != nil {
				logger.Error("overdue sweep failed: %v", err)
			} else if n > 0 {
				logger.Info("overdue sweep flagged installments on %d rentals", n)
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func (uc *PaymentUseCase) landLookup(ctx context.Context) func(id string) *LandSummary {
	cache := map[string]*LandSummary{}
	return func(id string) *LandSummary {
		if s, ok := cache[id]; ok {
			return s
		}
		s := &LandSummary{ID: id}
		if land, err := uc.landRepo.GetByID(ctx, id); err == nil {
			s = summarizeLand(land)
		}
		cache[id] = s
		return s
	}
}

func pageEntries(entries []*PaymentEntry, page, limit int) []*PaymentEntry {
	start, end := utils.SlicePage(len(entries), offsetFor(page, limit), limit)
	out := entries[start:end]
	if out == nil {
		return []*PaymentEntry{}
	}
	return out
}
