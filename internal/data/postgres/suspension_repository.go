// Package postgres provides PostgreSQL implementations of the domain repositories.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fraud-screening-ledger/internal/domain/suspension"
	"github.com/fraud-screening-ledger/internal/platform/persistence"
)

// SuspensionRepository implements the suspension.Repository interface for PostgreSQL
type SuspensionRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewSuspensionRepository creates a new PostgreSQL suspension repository
func NewSuspensionRepository(logger *slog.Logger, db *persistence.PostgresDB) *SuspensionRepository {
	return &SuspensionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Append inserts a suspension row. The table has no uniqueness constraint on
// user_id so repeated suspensions are all kept.
func (r *SuspensionRepository) Append(ctx context.Context, entry *suspension.Entry) error {
	query := `
		INSERT INTO suspensions (user_id, suspended_at)
		VALUES ($1, $2)
	`

	_, err := r.querier.Exec(ctx, query, entry.UserID, entry.SuspendedAt)
	if err != nil {
		r.logger.Error("Failed to append suspension", "user_id", entry.UserID, "error", err)
		return fmt.Errorf("failed to append suspension: %w", err)
	}

	return nil
}

// IsSuspended reports whether any suspension row exists for the user
func (r *SuspensionRepository) IsSuspended(ctx context.Context, userID string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM suspensions WHERE user_id = $1)
	`

	var exists bool
	if err := r.querier.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		r.logger.Error("Failed to check suspension", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to check suspension: %w", err)
	}

	return exists, nil
}

// ListByUser returns every suspension recorded for the user, oldest first
func (r *SuspensionRepository) ListByUser(ctx context.Context, userID string) ([]*suspension.Entry, error) {
	query := `
		SELECT user_id, suspended_at
		FROM suspensions
		WHERE user_id = $1
		ORDER BY id ASC
	`

	rows, err := r.querier.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list suspensions", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list suspensions: %w", err)
	}
	defer rows.Close()

	var entries []*suspension.Entry
	for rows.Next() {
		var entry suspension.Entry
		if err := rows.Scan(&entry.UserID, &entry.SuspendedAt); err != nil {
			return nil, fmt.Errorf("failed to scan suspension row: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suspension rows: %w", err)
	}

	return entries, nil
}

var _ suspension.Repository = (*SuspensionRepository)(nil)
