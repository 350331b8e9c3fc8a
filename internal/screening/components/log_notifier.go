package components

import (
	"context"
	"log/slog"

	"github.com/fraud-screening-ledger/internal/domain/shared"
	"github.com/fraud-screening-ledger/internal/screening/service"
)

// LogNotifier writes notifications to the log instead of a broker
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) service.Notifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, event *shared.NotificationEvent) error {
	n.logger.Info("Notification",
		"event_id", event.EventID.String(),
		"kind", event.Kind,
		"user_id", event.UserID,
		"amount", event.Amount.String(),
		"location", event.Location,
		"timestamp", event.Timestamp,
		"correlation_id", event.CorrelationID,
	)
	return nil
}
