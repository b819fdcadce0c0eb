package clock

import (
	"context"
	"time"
)

// SleepFunc waits for d and reports whether the full delay elapsed. It
// returns false early when ctx is cancelled.
type SleepFunc func(ctx context.Context, d time.Duration) bool

// Sleep is the real SleepFunc.
func Sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
