package entity

import (
	"math"
	"time"
)

const (
	RentalStatusPending   = "pending"
	RentalStatusActive    = "active"
	RentalStatusCompleted = "completed"
	RentalStatusCancelled = "cancelled"
	RentalStatusDisputed  = "disputed"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusOverdue   = "overdue"
	PaymentStatusCancelled = "cancelled"
)

const (
	PaymentMethodOnline       = "online"
	PaymentMethodCash         = "cash"
	PaymentMethodBankTransfer = "bankTransfer"
	PaymentMethodCheque       = "cheque"
)

// AmountTolerance is the largest accepted difference between a payment and its installment.
const AmountTolerance = 0.01

type Installment struct {
	Amount        float64    `json:"amount" firestore:"amount" bson:"amount"`
	DueDate       time.Time  `json:"dueDate" firestore:"dueDate" bson:"dueDate"`
	PaidDate      *time.Time `json:"paidDate,omitempty" firestore:"paidDate,omitempty" bson:"paidDate,omitempty"`
	Status        string     `json:"status" firestore:"status" bson:"status"`
	PaymentMethod string     `json:"paymentMethod,omitempty" firestore:"paymentMethod" bson:"paymentMethod"`
	TransactionID string     `json:"transactionId,omitempty" firestore:"transactionId" bson:"transactionId"`
	Notes         string     `json:"notes,omitempty" firestore:"notes" bson:"notes"`
}

func (i Installment) IsSettled() bool {
	return i.Status == PaymentStatusPaid || i.Status == PaymentStatusCancelled
}

// IsOverdue reports whether the installment is unpaid and past due at now.
func (i Installment) IsOverdue(now time.Time) bool {
	if i.Status == PaymentStatusOverdue {
		return true
	}
	return i.Status == PaymentStatusPending && i.DueDate.Before(now)
}

type RentalTerms struct {
	CropsAllowed []string `json:"cropsAllowed,omitempty" firestore:"cropsAllowed" bson:"cropsAllowed"`
	Restrictions []string `json:"restrictions,omitempty" firestore:"restrictions" bson:"restrictions"`
	Maintenance  string   `json:"maintenance" firestore:"maintenance" bson:"maintenance"`
	Utilities    string   `json:"utilities" firestore:"utilities" bson:"utilities"`
}

type AgreementDocument struct {
	URL               string     `json:"url,omitempty" firestore:"url" bson:"url"`
	GeneratedAt       *time.Time `json:"generatedAt,omitempty" firestore:"generatedAt,omitempty" bson:"generatedAt,omitempty"`
	SignedByLandowner bool       `json:"signedByLandowner" firestore:"signedByLandowner" bson:"signedByLandowner"`
	SignedByFarmer    bool       `json:"signedByFarmer" firestore:"signedByFarmer" bson:"signedByFarmer"`
	LandownerSignedAt *time.Time `json:"landownerSignedAt,omitempty" firestore:"landownerSignedAt,omitempty" bson:"landownerSignedAt,omitempty"`
	FarmerSignedAt    *time.Time `json:"farmerSignedAt,omitempty" firestore:"farmerSignedAt,omitempty" bson:"farmerSignedAt,omitempty"`
}

type Cancellation struct {
	Reason      string    `json:"reason" firestore:"reason" bson:"reason"`
	CancelledBy string    `json:"cancelledBy" firestore:"cancelledBy" bson:"cancelledBy"`
	CancelledAt time.Time `json:"cancelledAt" firestore:"cancelledAt" bson:"cancelledAt"`
}

type Dispute struct {
	RaisedBy    string    `json:"raisedBy" firestore:"raisedBy" bson:"raisedBy"`
	Issue       string    `json:"issue" firestore:"issue" bson:"issue"`
	Description string    `json:"description" firestore:"description" bson:"description"`
	Status      string    `json:"status" firestore:"status" bson:"status"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt" bson:"createdAt"`
}

type Rental struct {
	ID          string `json:"id" firestore:"id" bson:"_id"`
	LandID      string `json:"land" firestore:"land" bson:"land"`
	LandownerID string `json:"landowner" firestore:"landowner" bson:"landowner"`
	FarmerID    string `json:"farmer" firestore:"farmer" bson:"farmer"`

	RentedAcres  float64 `json:"rentedAcres" firestore:"rentedAcres" bson:"rentedAcres"`
	PricePerAcre float64 `json:"pricePerAcre" firestore:"pricePerAcre" bson:"pricePerAcre"`
	TotalAmount  float64 `json:"totalAmount" firestore:"totalAmount" bson:"totalAmount"`

	StartDate       time.Time `json:"startDate" firestore:"startDate" bson:"startDate"`
	EndDate         time.Time `json:"endDate" firestore:"endDate" bson:"endDate"`
	Duration        int       `json:"duration" firestore:"duration" bson:"duration"`
	PaymentSchedule string    `json:"paymentSchedule" firestore:"paymentSchedule" bson:"paymentSchedule"`
	SecurityDeposit float64   `json:"securityDeposit" firestore:"securityDeposit" bson:"securityDeposit"`

	Payments []Installment `json:"payments" firestore:"payments" bson:"payments"`
	Status   string        `json:"status" firestore:"status" bson:"status"`

	Terms             RentalTerms       `json:"terms" firestore:"terms" bson:"terms"`
	AgreementDocument AgreementDocument `json:"agreementDocument" firestore:"agreementDocument" bson:"agreementDocument"`
	Cancellation      *Cancellation     `json:"cancellation,omitempty" firestore:"cancellation,omitempty" bson:"cancellation,omitempty"`
	Disputes          []Dispute         `json:"disputes,omitempty" firestore:"disputes" bson:"disputes"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt" bson:"updatedAt"`

	// derived, never persisted
	RemainingAmount float64    `json:"remainingAmount" firestore:"-" bson:"-"`
	NextPaymentDue  *time.Time `json:"nextPaymentDue,omitempty" firestore:"-" bson:"-"`
	DaysRemaining   int        `json:"daysRemaining" firestore:"-" bson:"-"`
}

// BuildInstallments splits total into duration monthly installments starting at start.
// Amounts are rounded to cents; the last installment absorbs the rounding remainder.
func BuildInstallments(total float64, duration int, start time.Time) []Installment {
	if duration <= 0 {
		return nil
	}
	each := RoundCents(total / float64(duration))
	out := make([]Installment, duration)
	for i := 0; i < duration; i++ {
		amount := each
		if i == duration-1 {
			amount = RoundCents(total - each*float64(duration-1))
		}
		out[i] = Installment{
			Amount:  amount,
			DueDate: start.AddDate(0, i, 0),
			Status:  PaymentStatusPending,
		}
	}
	return out
}

func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func (r *Rental) IsParticipant(userID string) bool {
	return userID != "" && (r.LandownerID == userID || r.FarmerID == userID)
}

func (r *Rental) AllPaid() bool {
	if len(r.Payments) == 0 {
		return false
	}
	for _, p := range r.Payments {
		if p.Status != PaymentStatusPaid {
			return false
		}
	}
	return true
}

func (r *Rental) TotalPaid() float64 {
	var sum float64
	for _, p := range r.Payments {
		if p.Status == PaymentStatusPaid {
			sum += p.Amount
		}
	}
	return RoundCents(sum)
}

// Refresh recomputes derived fields against now.
func (r *Rental) Refresh(now time.Time) *Rental {
	r.RemainingAmount = RoundCents(r.TotalAmount - r.TotalPaid())

	r.NextPaymentDue = nil
	for _, p := range r.Payments {
		if p.IsSettled() {
			continue
		}
		if r.NextPaymentDue == nil || p.DueDate.Before(*r.NextPaymentDue) {
			due := p.DueDate
			r.NextPaymentDue = &due
		}
	}

	days := int(math.Ceil(r.EndDate.Sub(now).Hours() / 24))
	if days < 0 {
		days = 0
	}
	r.DaysRemaining = days
	return r
}

type PaymentStats struct {
	TotalPayments   int     `json:"totalPayments"`
	PaidPayments    int     `json:"paidPayments"`
	PendingPayments int     `json:"pendingPayments"`
	OverduePayments int     `json:"overduePayments"`
	TotalPaid       float64 `json:"totalPaid"`
	TotalPending    float64 `json:"totalPending"`
}

func (r *Rental) Stats(now time.Time) PaymentStats {
	stats := PaymentStats{TotalPayments: len(r.Payments)}
	for _, p := range r.Payments {
		switch p.Status {
		case PaymentStatusPaid:
			stats.PaidPayments++
			stats.TotalPaid += p.Amount
			continue
		case PaymentStatusPending:
			stats.PendingPayments++
		}
		if p.IsOverdue(now) {
			stats.OverduePayments++
		}
		if p.Status != PaymentStatusCancelled {
			stats.TotalPending += p.Amount
		}
	}
	stats.TotalPaid = RoundCents(stats.TotalPaid)
	stats.TotalPending = RoundCents(stats.TotalPending)
	return stats
}
