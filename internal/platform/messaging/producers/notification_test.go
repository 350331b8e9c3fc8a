package producers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fraud-screening-ledger/internal/domain/shared"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNotificationProducer_Notify(t *testing.T) {
	logger := newTestLogger()
	ctx := context.Background()
	event := shared.NewNotificationEvent(shared.NotificationVerificationRequest, "u1",
		decimal.NewFromInt(5000), "Unknown", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	event.CorrelationID = "corr-1"

	t.Run("SuccessfulPublish", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := NewNotificationProducerWithWriter(logger, mockWriter, "notification_events")

		mockWriter.On("WriteMessages", ctx, mock.MatchedBy(func(msgs []kafka.Message) bool {
			if len(msgs) != 1 {
				return false
			}
			msg := msgs[0]
			var decoded shared.NotificationEvent
			if err := json.Unmarshal(msg.Value, &decoded); err != nil {
				return false
			}
			return string(msg.Key) == "u1" &&
				decoded.EventID == event.EventID &&
				decoded.Kind == shared.NotificationVerificationRequest &&
				decoded.Amount.Equal(event.Amount) &&
				decoded.Timestamp == "2024-01-01 10:00:00" &&
				len(msg.Headers) == 2 &&
				string(msg.Headers[0].Value) == string(shared.NotificationVerificationRequest) &&
				string(msg.Headers[1].Value) == "corr-1"
		})).Return(nil).Once()

		require.NoError(t, producer.Notify(ctx, event))
		mockWriter.AssertExpectations(t)
	})

	t.Run("ReturnsErrorOnWriterError", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := NewNotificationProducerWithWriter(logger, mockWriter, "notification_events")
		writerError := errors.New("kafka write error")

		mockWriter.On("WriteMessages", ctx, mock.AnythingOfType("[]kafka.Message")).Return(writerError).Once()

		err := producer.Notify(ctx, event)
		require.Error(t, err)
		assert.ErrorIs(t, err, writerError)
		mockWriter.AssertExpectations(t)
	})
}

func TestNotificationProducer_Close(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	producer := NewNotificationProducerWithWriter(newTestLogger(), mockWriter, "notification_events")
	closeError := errors.New("kafka close error")
	mockWriter.On("Close").Return(closeError).Once()

	err := producer.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, closeError)
	mockWriter.AssertExpectations(t)
}
