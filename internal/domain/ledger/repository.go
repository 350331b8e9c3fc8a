package ledger

import (
	"context"
	"iter"
)

// Repository is the append-only ledger of screening decisions.
// Records are never updated or deleted.
type Repository interface {
	// Append durably stores the record before returning
	Append(ctx context.Context, record *Record) error

	// Scan lazily yields records matching the filter in append order.
	// Rows that cannot be decoded are yielded as errors wrapping ErrMalformedRow
	// and iteration continues; any other error ends the sequence.
	Scan(ctx context.Context, filter Filter) iter.Seq2[*Record, error]
}
