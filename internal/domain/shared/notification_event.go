package shared

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NotificationEvent defines a Kafka message asking for a user to be notified
// about a screened transaction
type NotificationEvent struct {
	EventID       uuid.UUID        `json:"event_id"`
	Kind          NotificationKind `json:"kind"`
	UserID        string           `json:"user_id"`
	Amount        decimal.Decimal  `json:"amount"`
	Location      string           `json:"location"`
	Timestamp     string           `json:"timestamp,omitempty"` // TimestampLayout, identifies the transaction
	CorrelationID string           `json:"correlation_id,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// NewNotificationEvent builds an event for the given transaction tuple
func NewNotificationEvent(kind NotificationKind, userID string, amount decimal.Decimal, location string, ts time.Time) *NotificationEvent {
	event := &NotificationEvent{
		EventID:   uuid.New(),
		Kind:      kind,
		UserID:    userID,
		Amount:    amount,
		Location:  location,
		CreatedAt: time.Now().UTC(),
	}
	if !ts.IsZero() {
		event.Timestamp = ts.UTC().Format(TimestampLayout)
	}
	return event
}
