package ingest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateGateZeroDelayNeverBlocks(t *testing.T) {
	g := NewRateGate(0)
	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, g.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), time.Second)
}

func TestRateGateEnforcesMinimumSpacing(t *testing.T) {
	g := NewRateGate(50 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, g.Wait(ctx))
	start := time.Now()
	require.NoError(t, g.Wait(ctx))
	require.NoError(t, g.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestRateGateSharedAcrossGoroutines(t *testing.T) {
	// One gate, several workers: total elapsed must reflect the shared
	// token stream, not per-worker pacing.
	g := NewRateGate(30 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, g.Wait(ctx)) // drain the initial token

	var wg sync.WaitGroup
	start := time.Now()
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, g.Wait(ctx))
		}()
	}
	wg.Wait()
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestRateGateHonorsContextCancel(t *testing.T) {
	g := NewRateGate(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.NoError(t, g.Wait(ctx)) // initial token is free
	err := g.Wait(ctx)
	assert.Error(t, err)
}
