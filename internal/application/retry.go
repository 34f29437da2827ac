package application

import (
	"context"
	"time"
)

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the wall-clock Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// BackoffDelay is the wait after the given 1-based failed attempt: attempt * step.
func BackoffDelay(attempt int, step time.Duration) time.Duration {
	if attempt < 1 {
		return 0
	}
	return time.Duration(attempt) * step
}
