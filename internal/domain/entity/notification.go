package entity

import "time"

// Notification delivery status
const (
	NotificationSent      = "SENT"
	NotificationSimulated = "SIMULATED"
	NotificationFailed    = "FAILED"
)

// NotificationRecord is one outbox entry for a customer message
type NotificationRecord struct {
	ID          string
	Recipient   string
	Subject     string
	Body        string
	Status      string
	ErrorDetail string
	CreatedAt   time.Time
}
