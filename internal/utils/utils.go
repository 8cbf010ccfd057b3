package utils

import (
	"context"
	"time"
)

// Swappable so tests can skip real backoff sleeps.
var sleep = time.Sleep

// WaitFor sleeps for d unless the context finishes first, in which case it
// returns the context error. Used between embedding retry attempts.
func WaitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sleep(d)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}
