package components

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/fraud-screening-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogNotifier_Notify(t *testing.T) {
	var buf bytes.Buffer
	notifier := NewLogNotifier(slog.New(slog.NewJSONHandler(&buf, nil)))

	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	event := shared.NewNotificationEvent(shared.NotificationFraudAlert, "u2", decimal.NewFromInt(5000), "Unknown", ts)

	require.NoError(t, notifier.Notify(context.Background(), event))
	assert.Contains(t, buf.String(), `"kind":"FRAUD_ALERT"`)
	assert.Contains(t, buf.String(), `"timestamp":"2024-01-01 12:00:00"`)
}
