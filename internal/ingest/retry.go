package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/fashiondb/stylecorpus/internal/corpus"
)

// RetryPolicy decides whether a failed attempt is retried and how long
// to pause first. The delay is fixed and jitterless so runs with the
// same inputs make the same attempts at the same offsets.
type RetryPolicy struct {
	maxAttempts int
	delay       time.Duration
}

// NewRetryPolicy builds a policy. Attempts below one are raised to one.
func NewRetryPolicy(maxAttempts int, delay time.Duration) *RetryPolicy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RetryPolicy{maxAttempts: maxAttempts, delay: delay}
}

// MaxAttempts returns the fixed attempt budget.
func (p *RetryPolicy) MaxAttempts() int {
	return p.maxAttempts
}

// ShouldRetry reports whether another attempt follows this failure.
// Permanent failure classes never retry, whatever the remaining budget.
func (p *RetryPolicy) ShouldRetry(err error, attempt int) bool {
	if err == nil || attempt >= p.maxAttempts {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var fetchErr *corpus.FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Transient()
	}
	return false
}

// Pause blocks for the fixed inter-retry delay or until the context
// finishes.
func (p *RetryPolicy) Pause(ctx context.Context) {
	if p.delay <= 0 {
		return
	}
	timer := time.NewTimer(p.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// errorKind extracts the classification label for outcome records.
func errorKind(err error) string {
	if err == nil {
		return ""
	}
	var fetchErr *corpus.FetchError
	if errors.As(err, &fetchErr) {
		return string(fetchErr.Kind)
	}
	var validationErr *corpus.ValidationError
	if errors.As(err, &validationErr) {
		return "validation"
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return "internal"
}
