package handler

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	apiservice "github.com/fraud-screening-ledger/internal/api_gateway/service"
	"github.com/fraud-screening-ledger/internal/domain/ledger"
	"github.com/fraud-screening-ledger/internal/domain/report"
	"github.com/fraud-screening-ledger/internal/domain/shared"
	"github.com/fraud-screening-ledger/internal/screening/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// envelope is Response with a typed payload for decoding in tests
type envelope[T any] struct {
	Data          T          `json:"data"`
	Error         *ErrorInfo `json:"error,omitempty"`
	CorrelationID string     `json:"correlation_id,omitempty"`
}

func decodeEnvelope[T any](t *testing.T, body []byte) envelope[T] {
	t.Helper()
	var out envelope[T]
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

type MockWorkflowService struct {
	mock.Mock
}

func (m *MockWorkflowService) Submit(ctx context.Context, request *service.IntakeRequest) (*service.Outcome, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Outcome), args.Error(1)
}

func (m *MockWorkflowService) Decide(ctx context.Context, request *service.IntakeRequest, decision shared.Decision) (*service.Outcome, error) {
	args := m.Called(ctx, request, decision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Outcome), args.Error(1)
}

func (m *MockWorkflowService) Confirm(ctx context.Context, request *service.IntakeRequest, confirmed bool) (*service.Outcome, error) {
	args := m.Called(ctx, request, confirmed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Outcome), args.Error(1)
}

func (m *MockWorkflowService) CurrentStatus(ctx context.Context, request *service.IntakeRequest) (*service.StatusView, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StatusView), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Summarize(ctx context.Context, filter ledger.Filter) (*report.Summary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Summary), args.Error(1)
}

type MockSuspensionService struct {
	mock.Mock
}

func (m *MockSuspensionService) GetSuspension(ctx context.Context, userID string) (*apiservice.SuspensionStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apiservice.SuspensionStatus), args.Error(1)
}

var testTimestamp = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func testOutcome(userID, amount, location string, status shared.Status) *service.Outcome {
	record := ledger.NewRecord(testTimestamp, userID, decimal.RequireFromString(amount), location, status)
	return &service.Outcome{Status: status, Record: record}
}
