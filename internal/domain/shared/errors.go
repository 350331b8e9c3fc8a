package shared

import (
	"errors"
	"strings"
)

// ValidationError reports intake fields that are missing or malformed.
// Nothing has been classified, notified or persisted when it is returned.
type ValidationError struct {
	Fields []string
}

func (e ValidationError) Error() string {
	return "invalid or missing fields: " + strings.Join(e.Fields, ", ")
}

// Is implements the errors.Is interface for ValidationError
func (e ValidationError) Is(target error) bool {
	_, ok := target.(ValidationError)
	return ok
}

// ClassificationError indicates the classifier could not produce a verdict
type ClassificationError struct {
	Err error
}

func (e ClassificationError) Error() string {
	if e.Err == nil {
		return "classification failed"
	}
	return "classification failed: " + e.Err.Error()
}

func (e ClassificationError) Unwrap() error { return e.Err }

// Is implements the errors.Is interface for ClassificationError
func (e ClassificationError) Is(target error) bool {
	_, ok := target.(ClassificationError)
	return ok
}

// PersistenceError indicates a ledger or registry write/read failed
type PersistenceError struct {
	Op  string
	Err error
}

func (e PersistenceError) Error() string {
	if e.Err == nil {
		return "persistence failure during " + e.Op
	}
	return "persistence failure during " + e.Op + ": " + e.Err.Error()
}

func (e PersistenceError) Unwrap() error { return e.Err }

// Is implements the errors.Is interface for PersistenceError.
// An empty Op in the target matches any operation.
func (e PersistenceError) Is(target error) bool {
	t, ok := target.(PersistenceError)
	if !ok {
		return false
	}
	return t.Op == "" || t.Op == e.Op
}

// NotificationError indicates a notification could not be dispatched.
// It is logged by the workflow and never returned to callers.
type NotificationError struct {
	Kind NotificationKind
	Err  error
}

func (e NotificationError) Error() string {
	return "failed to dispatch " + string(e.Kind) + " notification: " + errorText(e.Err)
}

func (e NotificationError) Unwrap() error { return e.Err }

// ErrUserSuspended is returned when an approval targets a suspended user
type ErrUserSuspended struct {
	UserID string
}

func (e ErrUserSuspended) Error() string {
	return "user is suspended: " + e.UserID
}

// Is implements the errors.Is interface for ErrUserSuspended
func (e ErrUserSuspended) Is(target error) bool {
	t, ok := target.(ErrUserSuspended)
	if !ok {
		return false
	}
	// An empty target UserID matches any suspended user
	if t.UserID == "" {
		return true
	}
	return e.UserID == t.UserID
}

// ErrNotFound is returned by lookups that found no matching record
var ErrNotFound = errors.New("not found")

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
