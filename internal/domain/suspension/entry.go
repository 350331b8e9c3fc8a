package suspension

import (
	"context"
	"time"
)

// Entry bars a user from future approvals. Entries are append-only and a
// user may appear more than once.
type Entry struct {
	UserID      string    `json:"user_id"`
	SuspendedAt time.Time `json:"suspended_at"`
}

// NewEntry creates a suspension entry stamped with the given time
func NewEntry(userID string, at time.Time) *Entry {
	return &Entry{
		UserID:      userID,
		SuspendedAt: at.UTC().Truncate(time.Second),
	}
}

// Repository is the append-only suspension registry
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	// IsSuspended reports whether at least one entry exists for the user
	IsSuspended(ctx context.Context, userID string) (bool, error)
	// ListByUser returns the user's entries in append order
	ListByUser(ctx context.Context, userID string) ([]*Entry, error)
}
