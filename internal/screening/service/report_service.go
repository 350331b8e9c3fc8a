package service

import (
	"context"
	"log/slog"

	"github.com/fraud-screening-ledger/internal/domain/ledger"
	"github.com/fraud-screening-ledger/internal/domain/report"
	"github.com/fraud-screening-ledger/internal/domain/shared"
)

type ReportServiceImpl struct {
	ledgerRepo ledger.Repository
	logger     *slog.Logger
}

func NewReportService(ledgerRepo ledger.Repository, logger *slog.Logger) *ReportServiceImpl {
	return &ReportServiceImpl{
		ledgerRepo: ledgerRepo,
		logger:     logger,
	}
}

// Summarize recomputes the summary from a fresh ledger scan
func (s *ReportServiceImpl) Summarize(ctx context.Context, filter ledger.Filter) (*report.Summary, error) {
	summary, err := report.Summarize(s.ledgerRepo.Scan(ctx, filter), filter)
	if err != nil {
		s.logger.Error("Failed to summarize ledger", "status", filter.Status, "date", filter.DatePrefix, "error", err)
		return nil, shared.PersistenceError{Op: OpLedgerScan, Err: err}
	}

	if summary.Skipped > 0 {
		s.logger.Warn("Skipped malformed ledger rows", "skipped", summary.Skipped)
	}
	s.logger.Debug("Ledger summarized", "total", summary.Total, "fraud", summary.Fraud)
	return summary, nil
}
