package service

import (
	"context"
	"fmt"

	"github.com/fraud-screening-ledger/internal/domain/shared"
	"github.com/fraud-screening-ledger/internal/domain/suspension"
)

// SuspensionServiceImpl implements the SuspensionService interface
type SuspensionServiceImpl struct {
	suspensionRepo suspension.Repository
}

// NewSuspensionService creates a new suspension service
func NewSuspensionService(suspensionRepo suspension.Repository) SuspensionService {
	return &SuspensionServiceImpl{
		suspensionRepo: suspensionRepo,
	}
}

// GetSuspension answers from IsSuspended so a cache in front of the
// registry is consulted, then loads the entries for suspended users only
func (s *SuspensionServiceImpl) GetSuspension(ctx context.Context, userID string) (*SuspensionStatus, error) {
	if userID == "" {
		return nil, shared.ValidationError{Fields: []string{"user_id"}}
	}

	suspended, err := s.suspensionRepo.IsSuspended(ctx, userID)
	if err != nil {
		return nil, shared.PersistenceError{Op: "suspension lookup", Err: err}
	}

	status := &SuspensionStatus{
		UserID:    userID,
		Suspended: suspended,
		Entries:   []*suspension.Entry{},
	}
	if !suspended {
		return status, nil
	}

	entries, err := s.suspensionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, shared.PersistenceError{Op: "suspension lookup", Err: fmt.Errorf("failed to list suspensions: %w", err)}
	}
	status.Entries = append(status.Entries, entries...)
	return status, nil
}
