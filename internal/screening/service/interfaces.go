package service

import (
	"context"
	"time"

	"github.com/fraud-screening-ledger/internal/domain/ledger"
	"github.com/fraud-screening-ledger/internal/domain/report"
	"github.com/fraud-screening-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// WorkflowService drives a transaction through screening and verification
type WorkflowService interface {
	Submit(ctx context.Context, request *IntakeRequest) (*Outcome, error)
	Decide(ctx context.Context, request *IntakeRequest, decision shared.Decision) (*Outcome, error)
	Confirm(ctx context.Context, request *IntakeRequest, confirmed bool) (*Outcome, error)
	CurrentStatus(ctx context.Context, request *IntakeRequest) (*StatusView, error)
}

// ReportService summarizes the ledger on demand
type ReportService interface {
	Summarize(ctx context.Context, filter ledger.Filter) (*report.Summary, error)
}

// Classifier labels a transaction NORMAL or FRAUD
type Classifier interface {
	Classify(ctx context.Context, amount decimal.Decimal, location string) (shared.Verdict, error)
}

// Notifier delivers a notification event
type Notifier interface {
	Notify(ctx context.Context, event *shared.NotificationEvent) error
}

// IntakeValidator checks raw intake fields before any side effect.
// Both methods return a shared.ValidationError naming every offending field.
type IntakeValidator interface {
	Validate(ctx context.Context, request *IntakeRequest) (*Intake, error)
	// ValidateVerification additionally requires a parseable timestamp
	ValidateVerification(ctx context.Context, request *IntakeRequest) (*Intake, error)
}

// IntakeRequest carries the raw, unvalidated fields of a workflow call
type IntakeRequest struct {
	UserID        string
	Amount        string
	Location      string
	Timestamp     string // only used by verification and status lookups
	CorrelationID string
}

// Intake is a validated IntakeRequest
type Intake struct {
	UserID        string
	Amount        decimal.Decimal
	Location      string
	Timestamp     time.Time // zero unless validated for verification
	CorrelationID string
}

// Outcome is the result of a workflow step
type Outcome struct {
	Status shared.Status  `json:"status"`
	Record *ledger.Record `json:"record"`
}

// StatusView is the last-write-wins status of a logical transaction
type StatusView struct {
	Status  shared.Status    `json:"status"`
	Current *ledger.Record   `json:"current"`
	History []*ledger.Record `json:"history"`
}
