// Package poll provides the fallback synchronization primitive for UI state
// that offers no event or wait primitive of its own.
package poll

import (
	"context"
	"time"
)

// DefaultInterval is the sleep between two evaluations when no interval is given.
const DefaultInterval = 10 * time.Millisecond

// Until evaluates predicate until it returns true or timeout has elapsed.
// It sleeps a fixed interval between evaluations and reports whether the
// predicate became true. A timeout is not an error; callers decide.
func Until(predicate func() bool, timeout, interval time.Duration) bool {
	if interval <= 0 {
		interval = DefaultInterval
	}
	start := time.Now()
	for {
		if predicate() {
			return true
		}
		if time.Since(start) >= timeout {
			return false
		}
		time.Sleep(interval)
	}
}

// UntilContext is like Until but bounded by the context instead of a timeout.
func UntilContext(ctx context.Context, predicate func() bool, interval time.Duration) bool {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if predicate() {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
}
