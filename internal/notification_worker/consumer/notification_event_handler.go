package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fraud-screening-ledger/internal/domain/shared"
	"github.com/fraud-screening-ledger/internal/platform/messaging/producers"
)

// Mailer delivers a notification event to a person
type Mailer interface {
	Send(ctx context.Context, event *shared.NotificationEvent) error
}

var errInvalidEvent = errors.New("invalid notification event")

// NotificationEventHandler handles notification events consumed from Kafka
type NotificationEventHandler struct {
	mailer   Mailer
	producer producers.DeadLetterPublisher
	logger   *slog.Logger
}

// NewNotificationEventHandler creates a new handler
func NewNotificationEventHandler(
	logger *slog.Logger,
	mailer Mailer,
	producer producers.DeadLetterPublisher,
) *NotificationEventHandler {
	return &NotificationEventHandler{
		mailer:   mailer,
		producer: producer,
		logger:   logger,
	}
}

// HandleMessage mails the event. Messages that cannot be delivered are parked
// on the DLQ; an error is returned only when parking fails too, so the offset
// stays uncommitted.
func (h *NotificationEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var event shared.NotificationEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return h.deadLetter(ctx, h.logger, key, value, "Failed to unmarshal notification event from Kafka message", err)
	}

	logger := h.logger
	if event.CorrelationID != "" {
		logger = h.logger.With("correlation_id", event.CorrelationID)
	}

	if err := validateEvent(&event); err != nil {
		return h.deadLetter(ctx, logger, key, value, "Rejected notification event", err)
	}

	logger.Info("Received notification event",
		"event_id", event.EventID.String(),
		"kind", event.Kind,
		"user_id", event.UserID,
	)

	if err := h.mailer.Send(ctx, &event); err != nil {
		return h.deadLetter(ctx, logger, key, value, "Failed to deliver notification", shared.NotificationError{Kind: event.Kind, Err: err})
	}

	logger.Info("Successfully delivered notification", "event_id", event.EventID.String())
	return nil
}

func (h *NotificationEventHandler) deadLetter(ctx context.Context, logger *slog.Logger, key, value []byte, msg string, cause error) error {
	logger.Error(msg, "error", cause, "message_key", string(key))

	if h.producer != nil {
		reason := fmt.Sprintf("%s: %s", msg, cause.Error())
		if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, reason); dlqErr != nil {
			logger.Error("Failed to publish message to DLQ",
				"dlq_error", dlqErr,
				"original_error", cause,
				"message_key", string(key),
			)
		} else {
			logger.Info("Published undeliverable message to DLQ", "message_key", string(key), "reason", reason)
			return nil
		}
	}
	return fmt.Errorf("%s: %w", msg, cause)
}

func validateEvent(event *shared.NotificationEvent) error {
	if event.UserID == "" {
		return fmt.Errorf("%w: missing user_id", errInvalidEvent)
	}
	switch event.Kind {
	case shared.NotificationVerificationRequest:
		if event.Timestamp == "" {
			return fmt.Errorf("%w: verification request without timestamp", errInvalidEvent)
		}
	case shared.NotificationFraudAlert:
	default:
		return fmt.Errorf("%w: unknown kind %q", errInvalidEvent, event.Kind)
	}
	return nil
}
