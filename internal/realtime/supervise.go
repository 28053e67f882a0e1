package realtime

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Restart delays double from minRestartDelay up to maxRestartDelay. A run
// that stayed up for at least maxRestartDelay resets the delay.
var (
	minRestartDelay = time.Second
	maxRestartDelay = 30 * time.Second
)

// Supervise reruns run until ctx is done, logging each failure.
func Supervise(ctx context.Context, name string, run func(ctx context.Context) error) {
	delay := minRestartDelay
	for {
		started := time.Now()
		err := run(ctx)
		if ctx.Err() != nil {
			return
		}
		if time.Since(started) >= maxRestartDelay {
			delay = minRestartDelay
		}
		if err != nil {
			zap.L().Error("realtime bridge stopped",
				zap.String("bridge", name),
				zap.Duration("retry_in", delay),
				zap.Error(err),
			)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay = nextRestartDelay(delay)
	}
}

func nextRestartDelay(d time.Duration) time.Duration {
	d *= 2
	if d > maxRestartDelay {
		return maxRestartDelay
	}
	return d
}
