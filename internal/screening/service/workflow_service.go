package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fraud-screening-ledger/internal/domain/ledger"
	"github.com/fraud-screening-ledger/internal/domain/shared"
	"github.com/fraud-screening-ledger/internal/domain/suspension"
)

// Operation names carried by the PersistenceErrors this package returns
const (
	OpLedgerAppend     = "ledger append"
	OpLedgerScan       = "ledger scan"
	OpSuspensionAppend = "suspension append"
	OpSuspensionLookup = "suspension lookup"
)

// WorkflowConfig holds the policy switches of the workflow
type WorkflowConfig struct {
	EnforceSuspension bool
}

type WorkflowServiceImpl struct {
	validator      IntakeValidator
	classifier     Classifier
	notifier       Notifier
	ledgerRepo     ledger.Repository
	suspensionRepo suspension.Repository
	config         WorkflowConfig
	logger         *slog.Logger
	now            func() time.Time
}

func NewWorkflowService(
	validator IntakeValidator,
	classifier Classifier,
	notifier Notifier,
	ledgerRepo ledger.Repository,
	suspensionRepo suspension.Repository,
	config WorkflowConfig,
	logger *slog.Logger,
) *WorkflowServiceImpl {
	return &WorkflowServiceImpl{
		validator:      validator,
		classifier:     classifier,
		notifier:       notifier,
		ledgerRepo:     ledgerRepo,
		suspensionRepo: suspensionRepo,
		config:         config,
		logger:         logger,
		now:            time.Now,
	}
}

// Submit screens a new transaction. A FRAUD verdict dispatches a verification
// request and a fraud alert before the FRAUD record is appended.
func (s *WorkflowServiceImpl) Submit(ctx context.Context, request *IntakeRequest) (*Outcome, error) {
	intake, err := s.validator.Validate(ctx, request)
	if err != nil {
		return nil, err
	}
	logger := s.requestLogger(intake.CorrelationID)

	logger.Info("Screening submitted transaction", "user_id", intake.UserID, "amount", intake.Amount.String(), "location", intake.Location)

	// 1. Classify
	verdict, err := s.classify(ctx, logger, intake)
	if err != nil {
		return nil, err
	}
	record := ledger.NewRecord(s.now(), intake.UserID, intake.Amount, intake.Location, verdict.Status())

	// 2. Notify
	if verdict == shared.VerdictFraud {
		s.notify(ctx, logger, shared.NotificationVerificationRequest, record, intake.CorrelationID)
		s.notify(ctx, logger, shared.NotificationFraudAlert, record, intake.CorrelationID)
	}

	// 3. Append
	if err := s.appendRecord(ctx, logger, record); err != nil {
		return nil, err
	}

	return &Outcome{Status: record.Status, Record: record}, nil
}

// Decide applies an operator decision. Unrecognized decisions are recorded
// as UNKNOWN rather than rejected.
func (s *WorkflowServiceImpl) Decide(ctx context.Context, request *IntakeRequest, decision shared.Decision) (*Outcome, error) {
	intake, err := s.validator.Validate(ctx, request)
	if err != nil {
		return nil, err
	}
	logger := s.requestLogger(intake.CorrelationID)

	decision = shared.Decision(strings.ToLower(strings.TrimSpace(string(decision))))
	logger.Info("Applying decision", "user_id", intake.UserID, "decision", decision)

	var status shared.Status
	switch decision {
	case shared.DecisionScan:
		verdict, err := s.classify(ctx, logger, intake)
		if err != nil {
			return nil, err
		}
		status = verdict.Status()
	case shared.DecisionApprove:
		if err := s.checkSuspension(ctx, logger, intake.UserID); err != nil {
			return nil, err
		}
		status = shared.StatusApproved
	case shared.DecisionDeny:
		status = shared.StatusDenied
	default:
		logger.Warn("Unrecognized decision, recording as UNKNOWN", "decision", decision)
		status = shared.StatusUnknown
	}

	record := ledger.NewRecord(s.now(), intake.UserID, intake.Amount, intake.Location, status)
	if status == shared.StatusFraud {
		s.notify(ctx, logger, shared.NotificationVerificationRequest, record, intake.CorrelationID)
	}

	if err := s.appendRecord(ctx, logger, record); err != nil {
		return nil, err
	}

	return &Outcome{Status: record.Status, Record: record}, nil
}

// Confirm resolves a pending verification. The follow-up record keeps the
// original timestamp so it shares the transaction's key. A denial suspends
// the user before the DENIED record is appended.
func (s *WorkflowServiceImpl) Confirm(ctx context.Context, request *IntakeRequest, confirmed bool) (*Outcome, error) {
	intake, err := s.validator.ValidateVerification(ctx, request)
	if err != nil {
		return nil, err
	}
	logger := s.requestLogger(intake.CorrelationID)

	logger.Info("Resolving verification",
		"user_id", intake.UserID,
		"timestamp", intake.Timestamp.Format(shared.TimestampLayout),
		"confirmed", confirmed,
	)

	status := shared.StatusApproved
	if confirmed {
		if err := s.checkSuspension(ctx, logger, intake.UserID); err != nil {
			return nil, err
		}
	} else {
		status = shared.StatusDenied
		entry := suspension.NewEntry(intake.UserID, s.now())
		if err := s.suspensionRepo.Append(ctx, entry); err != nil {
			logger.Error("Failed to record suspension", "user_id", intake.UserID, "error", err)
			return nil, shared.PersistenceError{Op: OpSuspensionAppend, Err: err}
		}
		logger.Info("User suspended", "user_id", intake.UserID)
	}

	record := ledger.NewRecord(intake.Timestamp, intake.UserID, intake.Amount, intake.Location, status)
	if err := s.appendRecord(ctx, logger, record); err != nil {
		return nil, err
	}

	return &Outcome{Status: record.Status, Record: record}, nil
}

// CurrentStatus returns the status of the most recent record sharing the
// request's (user_id, amount, location, timestamp) key, with its history.
func (s *WorkflowServiceImpl) CurrentStatus(ctx context.Context, request *IntakeRequest) (*StatusView, error) {
	intake, err := s.validator.ValidateVerification(ctx, request)
	if err != nil {
		return nil, err
	}
	record := ledger.NewRecord(intake.Timestamp, intake.UserID, intake.Amount, intake.Location, "")
	key := record.Key()

	history := []*ledger.Record{}
	for r, err := range s.ledgerRepo.Scan(ctx, ledger.Filter{DatePrefix: key.Timestamp}) {
		if err != nil {
			if errors.Is(err, ledger.ErrMalformedRow) {
				continue
			}
			return nil, shared.PersistenceError{Op: OpLedgerScan, Err: err}
		}
		if key.Matches(r) {
			history = append(history, r)
		}
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("transaction %s/%s at %s: %w", key.UserID, key.Amount.String(), key.Timestamp, shared.ErrNotFound)
	}

	current := history[len(history)-1]
	return &StatusView{Status: current.Status, Current: current, History: history}, nil
}

func (s *WorkflowServiceImpl) classify(ctx context.Context, logger *slog.Logger, intake *Intake) (shared.Verdict, error) {
	verdict, err := s.classifier.Classify(ctx, intake.Amount, intake.Location)
	if err != nil {
		logger.Error("Classification failed", "user_id", intake.UserID, "error", err)
		var classErr shared.ClassificationError
		if errors.As(err, &classErr) {
			return "", err
		}
		return "", shared.ClassificationError{Err: err}
	}
	if verdict != shared.VerdictFraud && verdict != shared.VerdictNormal {
		logger.Error("Classifier returned an unrecognized verdict", "verdict", verdict)
		return "", shared.ClassificationError{Err: fmt.Errorf("unrecognized verdict %q", verdict)}
	}
	logger.Info("Transaction classified", "user_id", intake.UserID, "verdict", verdict)
	return verdict, nil
}

// notify never fails the workflow
func (s *WorkflowServiceImpl) notify(ctx context.Context, logger *slog.Logger, kind shared.NotificationKind, record *ledger.Record, correlationID string) {
	event := shared.NewNotificationEvent(kind, record.UserID, record.Amount, record.Location, record.Timestamp)
	event.CorrelationID = correlationID

	if err := s.notifier.Notify(ctx, event); err != nil {
		logger.Error("Notification dispatch failed, continuing",
			"event_id", event.EventID.String(),
			"error", shared.NotificationError{Kind: kind, Err: err},
		)
	}
}

func (s *WorkflowServiceImpl) appendRecord(ctx context.Context, logger *slog.Logger, record *ledger.Record) error {
	if err := s.ledgerRepo.Append(ctx, record); err != nil {
		logger.Error("Failed to append ledger record", "user_id", record.UserID, "status", record.Status, "error", err)
		return shared.PersistenceError{Op: OpLedgerAppend, Err: err}
	}
	logger.Info("Ledger record appended", "user_id", record.UserID, "status", record.Status, "timestamp", record.FormattedTimestamp())
	return nil
}

func (s *WorkflowServiceImpl) checkSuspension(ctx context.Context, logger *slog.Logger, userID string) error {
	if !s.config.EnforceSuspension {
		return nil
	}
	suspended, err := s.suspensionRepo.IsSuspended(ctx, userID)
	if err != nil {
		logger.Error("Failed to check suspension", "user_id", userID, "error", err)
		return shared.PersistenceError{Op: OpSuspensionLookup, Err: err}
	}
	if suspended {
		logger.Warn("Approval rejected for suspended user", "user_id", userID)
		return shared.ErrUserSuspended{UserID: userID}
	}
	return nil
}

func (s *WorkflowServiceImpl) requestLogger(correlationID string) *slog.Logger {
	if correlationID != "" {
		return s.logger.With("correlation_id", correlationID)
	}
	return s.logger
}
