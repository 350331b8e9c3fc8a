package file

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/fraud-screening-ledger/internal/domain/ledger"
)

// LedgerStore implements ledger.Repository on a CSV file with rows
// timestamp,user_id,amount,location,status
type LedgerStore struct {
	file   *appendFile
	logger *slog.Logger
}

// NewLedgerStore creates a CSV-backed ledger at path
func NewLedgerStore(logger *slog.Logger, path string) (*LedgerStore, error) {
	f, err := newAppendFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger store: %w", err)
	}
	return &LedgerStore{file: f, logger: logger}, nil
}

// Append writes the record as one row and syncs it before returning
func (s *LedgerStore) Append(ctx context.Context, record *ledger.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.file.writeRow(record.Fields()); err != nil {
		s.logger.Error("Failed to append ledger record",
			"user_id", record.UserID,
			"status", string(record.Status),
			"error", err)
		return fmt.Errorf("failed to append ledger record: %w", err)
	}
	return nil
}

// Scan streams matching records in file order. Undecodable rows are
// yielded as ErrMalformedRow errors.
func (s *LedgerStore) Scan(ctx context.Context, filter ledger.Filter) iter.Seq2[*ledger.Record, error] {
	return func(yield func(*ledger.Record, error) bool) {
		err := s.file.readRows(func(line int, row []string, rowErr error) bool {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return false
			}
			if rowErr != nil {
				return yield(nil, fmt.Errorf("line %d: %w: %v", line, ledger.ErrMalformedRow, rowErr))
			}
			record, err := ledger.ParseFields(row)
			if err != nil {
				return yield(nil, fmt.Errorf("line %d: %w", line, err))
			}
			if !filter.Matches(record) {
				return true
			}
			return yield(record, nil)
		})
		if err != nil {
			s.logger.Error("Failed to scan ledger", "error", err)
			yield(nil, fmt.Errorf("failed to scan ledger: %w", err))
		}
	}
}

var _ ledger.Repository = (*LedgerStore)(nil)
