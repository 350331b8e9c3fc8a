package handler

import (
	"encoding/json"

	"github.com/fraud-screening-ledger/internal/domain/ledger"
	"github.com/fraud-screening-ledger/internal/domain/report"
	"github.com/fraud-screening-ledger/internal/domain/shared"
	"github.com/fraud-screening-ledger/internal/domain/suspension"
	"github.com/fraud-screening-ledger/internal/screening/service"
)

// AmountInput keeps the raw text of an amount so that parsing, and its
// field-named validation error, happen in the workflow rather than at bind time.
// A JSON string is unquoted; any other JSON value is kept verbatim.
type AmountInput string

func (a *AmountInput) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = AmountInput(s)
		return nil
	}
	if string(data) == "null" {
		*a = ""
		return nil
	}
	*a = AmountInput(data)
	return nil
}

// SubmitTransactionRequest is accepted as JSON or as a form post
type SubmitTransactionRequest struct {
	UserID   string      `json:"user_id" form:"user_id"`
	Amount   AmountInput `json:"amount" form:"amount"`
	Location string      `json:"location" form:"location"`
}

// ScanTransactionRequest carries an operator decision; an empty decision means scan
type ScanTransactionRequest struct {
	SubmitTransactionRequest
	Decision string `json:"decision" form:"decision"`
}

// VerifyTransactionQuery is the query string of a verification link
type VerifyTransactionQuery struct {
	UserID    string `form:"user_id"`
	Amount    string `form:"amount"`
	Location  string `form:"location"`
	Timestamp string `form:"timestamp"`
	Confirm   string `form:"confirm"`
}

// TransactionKeyQuery identifies a logical transaction
type TransactionKeyQuery struct {
	UserID    string `form:"user_id"`
	Amount    string `form:"amount"`
	Location  string `form:"location"`
	Timestamp string `form:"timestamp"`
}

// ReportQuery holds the optional report filters
type ReportQuery struct {
	Status string `form:"status"`
	Date   string `form:"date"`
}

// PredictRequest is the machine-facing screening request
type PredictRequest struct {
	UserID   string      `json:"user_id"`
	Amount   AmountInput `json:"amount"`
	Location string      `json:"location"`
}

// TransactionResponse represents a ledger record in API responses
type TransactionResponse struct {
	Timestamp string `json:"timestamp"`
	UserID    string `json:"user_id"`
	Amount    string `json:"amount"`
	Location  string `json:"location"`
	Status    string `json:"status"`
}

// OutcomeResponse is returned by every workflow step
type OutcomeResponse struct {
	Status      string              `json:"status"`
	Message     string              `json:"message"`
	Transaction TransactionResponse `json:"transaction"`
}

// StatusResponse is the last-write-wins view of a transaction
type StatusResponse struct {
	Status  string                `json:"status"`
	History []TransactionResponse `json:"history"`
}

// PredictResponse answers a predict call
type PredictResponse struct {
	IsFraud     bool                `json:"is_fraud"`
	Message     string              `json:"message"`
	Transaction TransactionResponse `json:"transaction"`
}

// ReportResponse carries the summary, the date series and the matching rows
type ReportResponse struct {
	Total       int                   `json:"total"`
	Fraud       int                   `json:"fraud"`
	Approved    int                   `json:"approved"`
	Denied      int                   `json:"denied"`
	Normal      int                   `json:"normal"`
	Skipped     int                   `json:"skipped"`
	FraudDates  []string              `json:"fraud_dates"`
	FraudCounts []int                 `json:"fraud_counts"`
	Records     []TransactionResponse `json:"records"`
}

// SuspensionEntryResponse represents one suspension
type SuspensionEntryResponse struct {
	SuspendedAt string `json:"suspended_at"`
}

// SuspensionResponse reports a user's suspension state
type SuspensionResponse struct {
	UserID    string                    `json:"user_id"`
	Suspended bool                      `json:"suspended"`
	Entries   []SuspensionEntryResponse `json:"entries"`
}

func (r SubmitTransactionRequest) intake(correlationID string) *service.IntakeRequest {
	return &service.IntakeRequest{
		UserID:        r.UserID,
		Amount:        string(r.Amount),
		Location:      r.Location,
		CorrelationID: correlationID,
	}
}

func (q TransactionKeyQuery) intake(correlationID string) *service.IntakeRequest {
	return &service.IntakeRequest{
		UserID:        q.UserID,
		Amount:        q.Amount,
		Location:      q.Location,
		Timestamp:     q.Timestamp,
		CorrelationID: correlationID,
	}
}

// mapRecordToResponse maps a ledger record to a transaction response DTO
func mapRecordToResponse(record *ledger.Record) TransactionResponse {
	return TransactionResponse{
		Timestamp: record.FormattedTimestamp(),
		UserID:    record.UserID,
		Amount:    record.Amount.String(),
		Location:  record.Location,
		Status:    string(record.Status),
	}
}

func mapRecordsToResponse(records []*ledger.Record) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(records))
	for _, r := range records {
		out = append(out, mapRecordToResponse(r))
	}
	return out
}

func mapSummaryToResponse(summary *report.Summary) ReportResponse {
	return ReportResponse{
		Total:       summary.Total,
		Fraud:       summary.Fraud,
		Approved:    summary.Approved,
		Denied:      summary.Denied,
		Normal:      summary.Normal,
		Skipped:     summary.Skipped,
		FraudDates:  summary.FraudDates,
		FraudCounts: summary.FraudCounts,
		Records:     mapRecordsToResponse(summary.Records),
	}
}

func mapEntriesToResponse(entries []*suspension.Entry) []SuspensionEntryResponse {
	out := make([]SuspensionEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, SuspensionEntryResponse{SuspendedAt: e.SuspendedAt.UTC().Format(shared.TimestampLayout)})
	}
	return out
}
