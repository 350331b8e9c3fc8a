package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/fraud-screening-ledger/internal/config"
	"github.com/fraud-screening-ledger/internal/domain/shared"
	"github.com/segmentio/kafka-go"
)

// Header keys set on notification messages
const (
	HeaderNotificationKind = "notification-kind"
	HeaderCorrelationID    = "correlation-id"
)

// NotificationProducer publishes notification events for the notification worker
type NotificationProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewNotificationProducer creates the producer and ensures the topic exists
func NewNotificationProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*NotificationProducer, error) {
	if cfg.NotificationTopic == "" {
		return nil, fmt.Errorf("kafka notification topic is not configured")
	}

	if err := dialAndEnsureTopic(cfg.Brokers, cfg.NotificationTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure notification topic %s exists: %w", cfg.NotificationTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.NotificationTopic,
		Balancer:     &kafka.Hash{}, // events for one user stay ordered on one partition
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
	}

	return NewNotificationProducerWithWriter(logger, writer, cfg.NotificationTopic), nil
}

// NewNotificationProducerWithWriter builds a producer on an existing writer
func NewNotificationProducerWithWriter(logger *slog.Logger, writer KafkaWriter, topic string) *NotificationProducer {
	return &NotificationProducer{
		logger: logger,
		writer: writer,
		topic:  topic,
	}
}

// Notify publishes the event keyed by user ID
func (p *NotificationProducer) Notify(ctx context.Context, event *shared.NotificationEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal notification event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.UserID),
		Value: value,
		Headers: []kafka.Header{
			{Key: HeaderNotificationKind, Value: []byte(event.Kind)},
			{Key: HeaderCorrelationID, Value: []byte(event.CorrelationID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish notification event",
			"topic", p.topic,
			"event_id", event.EventID.String(),
			"kind", string(event.Kind),
			"error", err,
		)
		return fmt.Errorf("failed to publish notification event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published notification event",
		"topic", p.topic,
		"event_id", event.EventID.String(),
		"kind", string(event.Kind),
	)
	return nil
}

// Close flushes and closes the writer
func (p *NotificationProducer) Close() error {
	p.logger.Info("Closing notification producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close notification writer for topic %s: %w", p.topic, err)
	}
	return nil
}
