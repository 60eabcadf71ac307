package ingest

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/fashiondb/stylecorpus/internal/metrics"
)

// RateGate enforces a fixed minimum delay between any two fetch attempts
// across the whole run. It is shared by every worker, so raising worker
// concurrency increases throughput only up to this ceiling.
type RateGate struct {
	limiter *rate.Limiter
}

// NewRateGate builds a gate releasing one attempt per minDelay. A
// non-positive delay disables gating.
func NewRateGate(minDelay time.Duration) *RateGate {
	limit := rate.Inf
	if minDelay > 0 {
		limit = rate.Every(minDelay)
	}
	return &RateGate{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the next attempt is allowed, respecting the context.
func (g *RateGate) Wait(ctx context.Context) error {
	start := time.Now()
	if err := g.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate gate wait: %w", err)
	}
	if waited := time.Since(start); waited > time.Millisecond {
		metrics.ObserveRateGateDelay(waited)
	}
	return nil
}
