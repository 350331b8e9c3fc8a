package components

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"github.com/fraud-screening-ledger/internal/domain/ledger"
	"github.com/fraud-screening-ledger/internal/domain/shared"
	"github.com/fraud-screening-ledger/internal/screening/service"
)

type IntakeValidatorImpl struct {
	logger *slog.Logger
}

func NewIntakeValidator(logger *slog.Logger) service.IntakeValidator {
	return &IntakeValidatorImpl{
		logger: logger,
	}
}

// Validate checks that user_id, amount and location are present and the amount parses
func (v *IntakeValidatorImpl) Validate(ctx context.Context, request *service.IntakeRequest) (*service.Intake, error) {
	intake, fields := v.validate(request)
	if len(fields) > 0 {
		v.reject(request, fields)
		return nil, shared.ValidationError{Fields: fields}
	}
	return intake, nil
}

// ValidateVerification also requires a timestamp in the ledger layout
func (v *IntakeValidatorImpl) ValidateVerification(ctx context.Context, request *service.IntakeRequest) (*service.Intake, error) {
	intake, fields := v.validate(request)

	ts, err := ledger.ParseTimestamp(request.Timestamp)
	if err != nil {
		fields = append(fields, "timestamp")
	}
	if len(fields) > 0 {
		v.reject(request, fields)
		return nil, shared.ValidationError{Fields: fields}
	}

	intake.Timestamp = ts
	return intake, nil
}

func (v *IntakeValidatorImpl) validate(request *service.IntakeRequest) (*service.Intake, []string) {
	var fields []string

	userID := strings.TrimSpace(request.UserID)
	if userID == "" || hasControl(userID) {
		fields = append(fields, "user_id")
	}

	amount, err := shared.ParseAmount(request.Amount)
	if err != nil {
		fields = append(fields, "amount")
	}

	location := strings.TrimSpace(request.Location)
	if location == "" || hasControl(location) {
		fields = append(fields, "location")
	}

	return &service.Intake{
		UserID:        userID,
		Amount:        amount,
		Location:      location,
		CorrelationID: request.CorrelationID,
	}, fields
}

// hasControl reports control characters; user_id and location end up in
// CSV rows and mail headers where CR and LF break the framing.
func hasControl(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}

func (v *IntakeValidatorImpl) reject(request *service.IntakeRequest, fields []string) {
	logger := v.logger
	if request.CorrelationID != "" {
		logger = v.logger.With("correlation_id", request.CorrelationID)
	}
	logger.Warn("Rejected invalid intake", "fields", fields, "user_id", request.UserID)
}
