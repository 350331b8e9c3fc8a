package file

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fraud-screening-ledger/internal/domain/shared"
	"github.com/fraud-screening-ledger/internal/domain/suspension"
)

// SuspensionStore implements suspension.Repository on a CSV file with rows
// user_id,timestamp
type SuspensionStore struct {
	file   *appendFile
	logger *slog.Logger
}

// NewSuspensionStore creates a CSV-backed suspension registry at path
func NewSuspensionStore(logger *slog.Logger, path string) (*SuspensionStore, error) {
	f, err := newAppendFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create suspension store: %w", err)
	}
	return &SuspensionStore{file: f, logger: logger}, nil
}

// Append records a suspension. Duplicates are kept.
func (s *SuspensionStore) Append(ctx context.Context, entry *suspension.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	row := []string{entry.UserID, entry.SuspendedAt.UTC().Format(shared.TimestampLayout)}
	if err := s.file.writeRow(row); err != nil {
		s.logger.Error("Failed to append suspension", "user_id", entry.UserID, "error", err)
		return fmt.Errorf("failed to append suspension: %w", err)
	}
	return nil
}

// IsSuspended scans the registry for any row naming the user
func (s *SuspensionStore) IsSuspended(ctx context.Context, userID string) (bool, error) {
	found := false
	var ctxErr error
	err := s.file.readRows(func(line int, row []string, rowErr error) bool {
		if ctxErr = ctx.Err(); ctxErr != nil {
			return false
		}
		if rowErr != nil || len(row) == 0 {
			s.logger.Warn("Skipping malformed suspension row", "line", line)
			return true
		}
		if strings.TrimSpace(row[0]) == userID {
			found = true
			return false
		}
		return true
	})
	if err != nil {
		return false, fmt.Errorf("failed to read suspensions: %w", err)
	}
	if ctxErr != nil {
		return false, ctxErr
	}
	return found, nil
}

// ListByUser returns every row naming the user in file order
func (s *SuspensionStore) ListByUser(ctx context.Context, userID string) ([]*suspension.Entry, error) {
	var entries []*suspension.Entry
	var ctxErr error
	err := s.file.readRows(func(line int, row []string, rowErr error) bool {
		if ctxErr = ctx.Err(); ctxErr != nil {
			return false
		}
		if rowErr != nil || len(row) < 2 || strings.TrimSpace(row[0]) != userID {
			return true
		}
		at, err := time.Parse(shared.TimestampLayout, strings.TrimSpace(row[1]))
		if err != nil {
			s.logger.Warn("Skipping suspension row with invalid timestamp", "line", line)
			return true
		}
		entries = append(entries, &suspension.Entry{UserID: userID, SuspendedAt: at})
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read suspensions: %w", err)
	}
	if ctxErr != nil {
		return nil, ctxErr
	}
	return entries, nil
}

var _ suspension.Repository = (*SuspensionStore)(nil)
