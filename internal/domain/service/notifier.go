package service

// Realtime event types pushed to connected users.
const (
	NotifyNewMessage      = "new_message"
	NotifyMessagesRead    = "messages_read"
	NotifyRentalUpdated   = "rental_updated"
	NotifyPaymentReminder = "payment_reminder"
	NotifyPaymentReceived = "payment_received"
)

// Notifier pushes a realtime event to a connected user. Offline users are skipped.
type Notifier interface {
	Notify(userID, eventType string, data interface{})
}
