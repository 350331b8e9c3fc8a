package shared

import "strings"

// TimestampLayout is the second-precision layout used for ledger timestamps.
// Timestamps are always recorded in UTC.
const TimestampLayout = "2006-01-02 15:04:05"

// Status defines the screening state carried by a ledger record
type Status string

const (
	StatusNormal   Status = "NORMAL"
	StatusFraud    Status = "FRAUD"
	StatusApproved Status = "APPROVED"
	StatusDenied   Status = "DENIED"
	StatusUnknown  Status = "UNKNOWN"
)

// ParseStatus normalizes a status string. Values outside the known set are
// returned upper-cased so that rows written by other tools still compare.
func ParseStatus(s string) Status {
	return Status(strings.ToUpper(strings.TrimSpace(s)))
}

// IsKnown reports whether the status is one the workflow can produce
func (s Status) IsKnown() bool {
	switch s {
	case StatusNormal, StatusFraud, StatusApproved, StatusDenied, StatusUnknown:
		return true
	}
	return false
}

// IsTerminal reports whether no further workflow step is expected
func (s Status) IsTerminal() bool {
	return s == StatusNormal || s == StatusApproved || s == StatusDenied
}

// Decision defines the operator action requested on the scan endpoint
type Decision string

const (
	DecisionScan    Decision = "scan"
	DecisionApprove Decision = "approve"
	DecisionDeny    Decision = "deny"
)

// Verdict is the classifier output
type Verdict string

const (
	VerdictNormal Verdict = "NORMAL"
	VerdictFraud  Verdict = "FRAUD"
)

// Status maps a verdict onto the ledger status it produces
func (v Verdict) Status() Status {
	if v == VerdictFraud {
		return StatusFraud
	}
	return StatusNormal
}

// NotificationKind defines outbound notification categories
type NotificationKind string

const (
	NotificationVerificationRequest NotificationKind = "VERIFICATION_REQUEST"
	NotificationFraudAlert          NotificationKind = "FRAUD_ALERT"
)
