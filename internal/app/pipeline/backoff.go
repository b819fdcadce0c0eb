package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/marcus-v-rodrigues/pump-monitoring/internal/ports"
)

// RetryState counts consecutive failed stores. It is owned by a single loop
// and never persisted.
type RetryState struct {
	ConsecutiveFailures int
	Threshold           int
}

// Fail records a failed store and reports whether the threshold was reached.
// Reaching the threshold resets the counter.
func (r *RetryState) Fail() (failures int, reachedThreshold bool) {
	r.ConsecutiveFailures++
	failures = r.ConsecutiveFailures
	if r.Threshold > 0 && failures >= r.Threshold {
		r.ConsecutiveFailures = 0
		return failures, true
	}
	return failures, false
}

// Succeed resets the counter.
func (r *RetryState) Succeed() { r.ConsecutiveFailures = 0 }

// Backoff returns min(base * 2^failures, max).
func Backoff(failures int, base, max time.Duration) time.Duration {
	d := base
	for i := 0; i < failures; i++ {
		if d >= max {
			return max
		}
		d *= 2
	}
	if d > max {
		return max
	}
	return d
}

// LogEscalation is the default threshold action: log and carry on.
func LogEscalation(logger *zap.Logger) ports.Escalation {
	return func(_ context.Context, failures int) {
		logger.Error("consecutive store failures reached threshold, resetting counter",
			zap.Int("consecutive_failures", failures))
	}
}
