package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSupervise_BacksOffBetweenFailures(t *testing.T) {
	minRestartDelay, maxRestartDelay = 10*time.Millisecond, 40*time.Millisecond
	defer func() { minRestartDelay, maxRestartDelay = time.Second, 30*time.Second }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var starts []time.Time
	run := func(context.Context) error {
		mu.Lock()
		defer mu.Unlock()
		starts = append(starts, time.Now())
		if len(starts) == 5 {
			cancel()
			return nil
		}
		return errors.New("connection refused")
	}

	done := make(chan struct{})
	go func() {
		Supervise(ctx, "test", run)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not stop after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, starts, 5)
	require.GreaterOrEqual(t, starts[1].Sub(starts[0]), 10*time.Millisecond)
	require.GreaterOrEqual(t, starts[2].Sub(starts[1]), 20*time.Millisecond)
	require.GreaterOrEqual(t, starts[3].Sub(starts[2]), 40*time.Millisecond)
	require.GreaterOrEqual(t, starts[4].Sub(starts[3]), 40*time.Millisecond)
}

func TestNextRestartDelay_Caps(t *testing.T) {
	require.Equal(t, 2*time.Second, nextRestartDelay(time.Second))
	require.Equal(t, maxRestartDelay, nextRestartDelay(20*time.Second))
	require.Equal(t, maxRestartDelay, nextRestartDelay(maxRestartDelay))
}
