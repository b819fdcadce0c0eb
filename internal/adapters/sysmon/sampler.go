package sysmon

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/marcus-v-rodrigues/pump-monitoring/internal/adapters/clock"
	"github.com/marcus-v-rodrigues/pump-monitoring/internal/ports"
)

// Sampler refreshes the system gauges on a coarse cadence: it wakes every
// poll interval but only probes once refresh has elapsed since the last
// probe.
type Sampler struct {
	probe   ports.ResourceProbe
	metrics ports.Metrics
	refresh time.Duration
	poll    time.Duration
	logger  *zap.Logger

	now   func() time.Time
	sleep clock.SleepFunc
	last  time.Time
}

func NewSampler(probe ports.ResourceProbe, metrics ports.Metrics, refresh, poll time.Duration, logger *zap.Logger) *Sampler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if poll <= 0 {
		poll = time.Second
	}
	return &Sampler{
		probe:   probe,
		metrics: metrics,
		refresh: refresh,
		poll:    poll,
		logger:  logger.Named("sysmon"),
		now:     time.Now,
		sleep:   clock.Sleep,
	}
}

// Run blocks until ctx is cancelled.
func (s *Sampler) Run(ctx context.Context) {
	for {
		s.tick(ctx)
		if !s.sleep(ctx, s.poll) {
			return
		}
	}
}

// tick probes when due and reports whether it did.
func (s *Sampler) tick(ctx context.Context) bool {
	now := s.now()
	if !s.last.IsZero() && now.Sub(s.last) < s.refresh {
		return false
	}
	s.last = now

	usage, err := s.probe.Probe(ctx)
	if err != nil {
		s.logger.Warn("system probe failed", zap.Error(err))
		return true
	}
	s.metrics.SetSystemUsage(usage)
	s.logger.Debug("system usage refreshed",
		zap.Float64("cpu_percent", usage.CPUPercent),
		zap.Float64("memory_percent", usage.MemoryPercent),
		zap.Float64("disk_percent", usage.DiskPercent))
	return true
}
