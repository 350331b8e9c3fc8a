package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/fraud-screening-ledger/internal/domain/ledger"
	"github.com/fraud-screening-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLedger(l *memoryLedger) {
	at := func(day, hour int) time.Time { return time.Date(2024, 1, day, hour, 0, 0, 0, time.UTC) }
	l.records = []*ledger.Record{
		ledger.NewRecord(at(1, 9), "u1", decimal.NewFromInt(5000), "Unknown", shared.StatusFraud),
		ledger.NewRecord(at(1, 10), "u2", decimal.NewFromInt(50), "Harare", shared.StatusNormal),
		ledger.NewRecord(at(1, 11), "u3", decimal.NewFromInt(2000), "Russia", shared.StatusFraud),
		ledger.NewRecord(at(2, 9), "u4", decimal.NewFromInt(9000), "Unknown", shared.StatusFraud),
		ledger.NewRecord(at(2, 10), "u4", decimal.NewFromInt(9000), "Unknown", shared.StatusApproved),
	}
}

func TestReportService_Summarize(t *testing.T) {
	ctx := context.Background()

	t.Run("AllRecords", func(t *testing.T) {
		l := &memoryLedger{malformed: 1}
		seedLedger(l)
		svc := NewReportService(l, slog.Default())

		summary, err := svc.Summarize(ctx, ledger.Filter{})
		require.NoError(t, err)
		assert.Equal(t, 5, summary.Total)
		assert.Equal(t, 3, summary.Fraud)
		assert.Equal(t, 1, summary.Approved)
		assert.Equal(t, 1, summary.Normal)
		assert.Equal(t, 1, summary.Skipped)
		assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, summary.FraudDates)
		assert.Equal(t, []int{2, 1}, summary.FraudCounts)
	})

	t.Run("FilteredIsIdempotent", func(t *testing.T) {
		l := &memoryLedger{}
		seedLedger(l)
		svc := NewReportService(l, slog.Default())
		filter := ledger.NewFilter("fraud", "2024-01-01")

		first, err := svc.Summarize(ctx, filter)
		require.NoError(t, err)
		second, err := svc.Summarize(ctx, filter)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 2, first.Total)
		assert.Len(t, first.Records, first.Total)
	})

	t.Run("ScanFailure", func(t *testing.T) {
		l := &memoryLedger{scanErr: errors.New("permission denied")}
		svc := NewReportService(l, slog.Default())

		_, err := svc.Summarize(ctx, ledger.Filter{})
		assert.ErrorIs(t, err, shared.PersistenceError{Op: OpLedgerScan})
	})
}
