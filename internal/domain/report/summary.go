// Package report aggregates ledger records into screening summaries.
// Summaries are recomputed from the ledger on every call and never cached.
package report

import (
	"errors"
	"iter"
	"sort"

	"github.com/fraud-screening-ledger/internal/domain/ledger"
	"github.com/fraud-screening-ledger/internal/domain/shared"
)

// Summary holds per-status counts for the records matching a filter and the
// FRAUD records bucketed by calendar date
type Summary struct {
	Total    int `json:"total"`
	Fraud    int `json:"fraud"`
	Approved int `json:"approved"`
	Denied   int `json:"denied"`
	Normal   int `json:"normal"`
	Skipped  int `json:"skipped"`

	// FraudDates is sorted ascending; FraudCounts is parallel to it
	FraudDates  []string `json:"fraud_dates"`
	FraudCounts []int    `json:"fraud_counts"`

	Records []*ledger.Record `json:"records"`
}

// Summarize consumes the sequence in a single pass. Malformed rows are
// counted in Skipped; any other error aborts the summary.
func Summarize(records iter.Seq2[*ledger.Record, error], filter ledger.Filter) (*Summary, error) {
	summary := &Summary{
		FraudDates:  []string{},
		FraudCounts: []int{},
		Records:     []*ledger.Record{},
	}
	fraudByDate := make(map[string]int)

	for record, err := range records {
		if err != nil {
			if errors.Is(err, ledger.ErrMalformedRow) {
				summary.Skipped++
				continue
			}
			return nil, err
		}
		if !filter.Matches(record) {
			continue
		}

		summary.Total++
		summary.Records = append(summary.Records, record)

		switch shared.ParseStatus(string(record.Status)) {
		case shared.StatusFraud:
			summary.Fraud++
			fraudByDate[DateOf(record)]++
		case shared.StatusApproved:
			summary.Approved++
		case shared.StatusDenied:
			summary.Denied++
		case shared.StatusNormal:
			summary.Normal++
		}
	}

	for date := range fraudByDate {
		summary.FraudDates = append(summary.FraudDates, date)
	}
	sort.Strings(summary.FraudDates)
	for _, date := range summary.FraudDates {
		summary.FraudCounts = append(summary.FraudCounts, fraudByDate[date])
	}

	return summary, nil
}

// DateOf returns the calendar date portion of the record timestamp
func DateOf(record *ledger.Record) string {
	return record.Timestamp.UTC().Format("2006-01-02")
}
