package timescale

import (
	"github.com/marcus-v-rodrigues/pump-monitoring/internal/adapters/clock"
)

// DefaultTable is the measurements hypertable name.
const DefaultTable = "pump_metrics"

// Option customises a Gateway or Bootstrapper.
type Option func(*settings)

type settings struct {
	sleep clock.SleepFunc
}

// WithSleep replaces the delay between attempts, mainly for tests.
func WithSleep(fn clock.SleepFunc) Option {
	return func(s *settings) {
		if fn != nil {
			s.sleep = fn
		}
	}
}

func applyOptions(opts []Option) settings {
	s := settings{sleep: clock.Sleep}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}

func tableOrDefault(table string) string {
	if table == "" {
		return DefaultTable
	}
	return table
}
