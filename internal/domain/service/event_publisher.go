package service

import (
	"context"
	"time"
)

const (
	EventRentalGenerated  = "rental.generated"
	EventRentalSigned     = "rental.signed"
	EventRentalActivated  = "rental.activated"
	EventRentalCancelled  = "rental.cancelled"
	EventRentalDisputed   = "rental.disputed"
	EventRentalCompleted  = "rental.completed"
	EventPaymentProcessed = "payment.processed"
	EventPaymentReminder  = "payment.reminder"
	EventLandInquiry      = "land.inquiry"
	EventChatbotFeedback  = "chatbot.feedback"
)

type Event struct {
	Type       string      `json:"type"`
	Key        string      `json:"key"`
	Payload    interface{} `json:"payload"`
	OccurredAt time.Time   `json:"occurredAt"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
