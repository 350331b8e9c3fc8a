package service

import (
	"context"
	"iter"
	"strings"
	"sync"
	"time"

	"github.com/fraud-screening-ledger/internal/domain/ledger"
	"github.com/fraud-screening-ledger/internal/domain/shared"
	"github.com/fraud-screening-ledger/internal/domain/suspension"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockClassifier mocks the Classifier interface
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, amount decimal.Decimal, location string) (shared.Verdict, error) {
	args := m.Called(ctx, amount, location)
	return args.Get(0).(shared.Verdict), args.Error(1)
}

// MockNotifier mocks the Notifier interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, event *shared.NotificationEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// stubValidator mirrors the intake rules without depending on the components package
type stubValidator struct{}

func (stubValidator) Validate(_ context.Context, r *IntakeRequest) (*Intake, error) {
	var fields []string
	if strings.TrimSpace(r.UserID) == "" {
		fields = append(fields, "user_id")
	}
	amount, err := shared.ParseAmount(r.Amount)
	if err != nil {
		fields = append(fields, "amount")
	}
	if strings.TrimSpace(r.Location) == "" {
		fields = append(fields, "location")
	}
	if len(fields) > 0 {
		return nil, shared.ValidationError{Fields: fields}
	}
	return &Intake{UserID: r.UserID, Amount: amount, Location: r.Location, CorrelationID: r.CorrelationID}, nil
}

func (v stubValidator) ValidateVerification(ctx context.Context, r *IntakeRequest) (*Intake, error) {
	ts, tsErr := ledger.ParseTimestamp(r.Timestamp)
	intake, err := v.Validate(ctx, r)
	if err != nil {
		return nil, err
	}
	if tsErr != nil {
		return nil, shared.ValidationError{Fields: []string{"timestamp"}}
	}
	intake.Timestamp = ts
	return intake, nil
}

// memoryLedger is an in-memory ledger.Repository
type memoryLedger struct {
	mu        sync.Mutex
	records   []*ledger.Record
	appendErr error
	scanErr   error
	malformed int // malformed rows yielded before the records
}

func (l *memoryLedger) Append(_ context.Context, record *ledger.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.appendErr != nil {
		return l.appendErr
	}
	copied := *record
	l.records = append(l.records, &copied)
	return nil
}

func (l *memoryLedger) Scan(_ context.Context, filter ledger.Filter) iter.Seq2[*ledger.Record, error] {
	l.mu.Lock()
	snapshot := append([]*ledger.Record(nil), l.records...)
	l.mu.Unlock()

	return func(yield func(*ledger.Record, error) bool) {
		for i := 0; i < l.malformed; i++ {
			if !yield(nil, ledger.ErrMalformedRow) {
				return
			}
		}
		if l.scanErr != nil {
			yield(nil, l.scanErr)
			return
		}
		for _, r := range snapshot {
			if filter.Matches(r) && !yield(r, nil) {
				return
			}
		}
	}
}

func (l *memoryLedger) all() []*ledger.Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*ledger.Record(nil), l.records...)
}

// memorySuspensions is an in-memory suspension.Repository
type memorySuspensions struct {
	mu        sync.Mutex
	entries   []*suspension.Entry
	appendErr error
	lookupErr error
}

func (s *memorySuspensions) Append(_ context.Context, entry *suspension.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return s.appendErr
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *memorySuspensions) IsSuspended(ctx context.Context, userID string) (bool, error) {
	if s.lookupErr != nil {
		return false, s.lookupErr
	}
	entries, _ := s.ListByUser(ctx, userID)
	return len(entries) > 0, nil
}

func (s *memorySuspensions) ListByUser(_ context.Context, userID string) ([]*suspension.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*suspension.Entry
	for _, e := range s.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func newEntry(userID string) *suspension.Entry {
	return suspension.NewEntry(userID, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}
