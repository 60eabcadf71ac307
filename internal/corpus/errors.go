package corpus

import (
	"errors"
	"fmt"
)

// FetchErrorKind classifies fetch failures for retry decisions.
type FetchErrorKind string

// Fetch error kinds. Transient kinds are retried per policy; permanent
// kinds short-circuit without consuming the retry budget.
const (
	FetchErrTimeout     FetchErrorKind = "timeout"
	FetchErrConnection  FetchErrorKind = "connection"
	FetchErrServer      FetchErrorKind = "server"
	FetchErrThrottled   FetchErrorKind = "throttled"
	FetchErrNotFound    FetchErrorKind = "not_found"
	FetchErrBlocked     FetchErrorKind = "blocked"
	FetchErrUnsupported FetchErrorKind = "unsupported"
)

// FetchError wraps a fetch failure with its classification.
type FetchError struct {
	Kind FetchErrorKind
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Transient reports whether the failure class is worth retrying.
func (e *FetchError) Transient() bool {
	switch e.Kind {
	case FetchErrTimeout, FetchErrConnection, FetchErrServer, FetchErrThrottled:
		return true
	default:
		return false
	}
}

// NewFetchError builds a classified fetch error.
func NewFetchError(kind FetchErrorKind, url string, err error) *FetchError {
	return &FetchError{Kind: kind, URL: url, Err: err}
}

// ValidationError marks adapter output that failed the content checks.
// The record is discarded and never stored.
type ValidationError struct {
	URL    string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validate %s: %s", e.URL, e.Reason)
}

// ExtractionError marks a collaborator failure on a single record. The
// record is skipped and the run continues.
type ExtractionError struct {
	ContentID string
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.ContentID, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ErrNotFound is returned by store reads for unknown content IDs.
var ErrNotFound = errors.New("record not found")

// ErrMergeConflict should be unreachable given last-write-wins store
// semantics; seeing it signals a concurrency-discipline bug.
var ErrMergeConflict = errors.New("merge conflict")
