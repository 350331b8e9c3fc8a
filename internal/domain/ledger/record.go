package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fraud-screening-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// FieldCount is the number of columns in a persisted ledger row
const FieldCount = 5

// ErrMalformedRow marks a persisted row that cannot be decoded into a Record
var ErrMalformedRow = errors.New("malformed ledger row")

// Record represents one immutable screening decision in the ledger.
// A later record with the same Key supersedes the status of earlier ones.
type Record struct {
	Timestamp time.Time       `json:"timestamp"`
	UserID    string          `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	Location  string          `json:"location"`
	Status    shared.Status   `json:"status"`
}

// NewRecord creates a record truncated to the ledger's second precision
func NewRecord(ts time.Time, userID string, amount decimal.Decimal, location string, status shared.Status) *Record {
	return &Record{
		Timestamp: ts.UTC().Truncate(time.Second),
		UserID:    userID,
		Amount:    amount,
		Location:  location,
		Status:    status,
	}
}

// FormattedTimestamp renders the timestamp in the persisted layout
func (r *Record) FormattedTimestamp() string {
	return r.Timestamp.UTC().Format(shared.TimestampLayout)
}

// Key returns the identity of the logical transaction this record belongs to
func (r *Record) Key() Key {
	return Key{
		UserID:    r.UserID,
		Amount:    r.Amount,
		Location:  r.Location,
		Timestamp: r.FormattedTimestamp(),
	}
}

// Fields encodes the record as a persisted row:
// timestamp, user_id, amount, location, status
func (r *Record) Fields() []string {
	return []string{
		r.FormattedTimestamp(),
		r.UserID,
		r.Amount.String(),
		r.Location,
		string(r.Status),
	}
}

// ParseFields decodes a persisted row. Extra trailing columns are ignored.
func ParseFields(fields []string) (*Record, error) {
	if len(fields) < FieldCount {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRow, FieldCount, len(fields))
	}
	ts, err := ParseTimestamp(fields[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(fields[2]))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid amount %q", ErrMalformedRow, fields[2])
	}
	return &Record{
		Timestamp: ts,
		UserID:    fields[1],
		Amount:    amount,
		Location:  fields[3],
		Status:    shared.ParseStatus(fields[4]),
	}, nil
}

// ParseTimestamp parses a timestamp in the persisted layout as UTC
func ParseTimestamp(s string) (time.Time, error) {
	ts, err := time.Parse(shared.TimestampLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return ts, nil
}

// Key identifies a logical transaction across its ledger records
type Key struct {
	UserID    string
	Amount    decimal.Decimal
	Location  string
	Timestamp string
}

// Matches reports whether the record belongs to this transaction.
// Amounts compare numerically so "100" and "100.00" are the same transaction.
func (k Key) Matches(r *Record) bool {
	return r.UserID == k.UserID &&
		r.Location == k.Location &&
		r.FormattedTimestamp() == k.Timestamp &&
		r.Amount.Equal(k.Amount)
}

// Filter restricts a ledger scan. Zero values match everything.
type Filter struct {
	Status     shared.Status // compared case-insensitively
	DatePrefix string        // matched against the formatted timestamp
}

// NewFilter normalizes raw query values into a Filter
func NewFilter(status, datePrefix string) Filter {
	return Filter{
		Status:     shared.ParseStatus(status),
		DatePrefix: strings.TrimSpace(datePrefix),
	}
}

// Matches reports whether the record passes the filter
func (f Filter) Matches(r *Record) bool {
	if f.Status != "" && shared.ParseStatus(string(r.Status)) != shared.ParseStatus(string(f.Status)) {
		return false
	}
	if f.DatePrefix != "" && !strings.HasPrefix(r.FormattedTimestamp(), f.DatePrefix) {
		return false
	}
	return true
}
