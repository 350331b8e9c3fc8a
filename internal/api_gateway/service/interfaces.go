package service

import (
	"context"

	"github.com/fraud-screening-ledger/internal/domain/suspension"
)

// SuspensionService defines the interface for suspension lookups
type SuspensionService interface {
	// GetSuspension reports whether the user is suspended along with every
	// suspension recorded for them. An unknown user is not an error.
	GetSuspension(ctx context.Context, userID string) (*SuspensionStatus, error)
}

// SuspensionStatus summarizes a user's suspension history
type SuspensionStatus struct {
	UserID    string
	Suspended bool
	Entries   []*suspension.Entry
}
