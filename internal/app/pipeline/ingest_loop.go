package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/marcus-v-rodrigues/pump-monitoring/internal/adapters/clock"
	"github.com/marcus-v-rodrigues/pump-monitoring/internal/domain"
	"github.com/marcus-v-rodrigues/pump-monitoring/internal/ports"
)

// IngestLoop runs generate -> store -> cooldown until its context ends.
type IngestLoop struct {
	gen      ports.Generator
	store    ports.SampleStore
	metrics  ports.Metrics
	policy   ports.BackoffPolicy
	escalate ports.Escalation
	logger   *zap.Logger

	sleep clock.SleepFunc
	now   func() time.Time

	state RetryState

	mu     sync.RWMutex
	status ports.IngestionStatus
}

// LoopOption customises an IngestLoop.
type LoopOption func(*IngestLoop)

// WithEscalation replaces the action taken when the failure threshold is hit.
func WithEscalation(fn ports.Escalation) LoopOption {
	return func(l *IngestLoop) {
		if fn != nil {
			l.escalate = fn
		}
	}
}

// WithLoopSleep replaces the cooldown sleep, mainly for tests.
func WithLoopSleep(fn clock.SleepFunc) LoopOption {
	return func(l *IngestLoop) {
		if fn != nil {
			l.sleep = fn
		}
	}
}

func NewIngestLoop(gen ports.Generator, store ports.SampleStore, metrics ports.Metrics, policy ports.BackoffPolicy, logger *zap.Logger, opts ...LoopOption) *IngestLoop {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("ingest")
	l := &IngestLoop{
		gen:      gen,
		store:    store,
		metrics:  metrics,
		policy:   policy,
		escalate: LogEscalation(logger),
		logger:   logger,
		sleep:    clock.Sleep,
		now:      time.Now,
		state:    RetryState{Threshold: policy.FailureThreshold},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Run blocks until ctx is cancelled. Panics inside a cycle are recovered and
// followed by the error pause.
func (l *IngestLoop) Run(ctx context.Context) {
	l.logger.Info("ingestion loop started", zap.String("store", l.store.Name()))
	for {
		pause := l.safeCycle(ctx)
		if !l.sleep(ctx, pause) {
			l.logger.Info("ingestion loop stopped")
			return
		}
	}
}

// Status returns a snapshot for health reporting.
func (l *IngestLoop) Status() ports.IngestionStatus {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.status
}

func (l *IngestLoop) safeCycle(ctx context.Context) (pause time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			l.metrics.IncOperation(ports.OutcomeError)
			l.logger.Error("ingestion cycle failed", zap.Error(fmt.Errorf("panic: %v", r)))
			pause = l.policy.ErrorPause
		}
	}()
	return l.cycle(ctx)
}

func (l *IngestLoop) cycle(ctx context.Context) time.Duration {
	start := l.now()
	s := l.gen.Generate()
	ok := l.store.Store(ctx, s)
	l.metrics.ObserveCycle(l.now().Sub(start).Seconds())

	if ok {
		return l.onSuccess(s)
	}
	return l.onFailure(ctx)
}

func (l *IngestLoop) onSuccess(s domain.Sample) time.Duration {
	l.state.Succeed()
	l.metrics.IncOperation(ports.OutcomeTotal)

	l.mu.Lock()
	l.status.LastSuccess = l.now()
	l.status.ConsecutiveFailures = 0
	l.status.Cycles++
	l.status.LastCycleOK = true
	l.mu.Unlock()

	l.logger.Info("sample stored", zap.String("pump_id", s.PumpID), zap.Stringer("reading", s))
	return l.policy.BaseDelay
}

func (l *IngestLoop) onFailure(ctx context.Context) time.Duration {
	failures, escalate := l.state.Fail()
	cooldown := Backoff(failures, l.policy.BaseDelay, l.policy.MaxDelay)

	l.mu.Lock()
	l.status.LastFailure = l.now()
	l.status.ConsecutiveFailures = failures
	l.status.Cycles++
	l.status.LastCycleOK = false
	l.mu.Unlock()

	l.logger.Warn("store failed, backing off",
		zap.Int("consecutive_failures", failures),
		zap.Duration("cooldown", cooldown))
	if escalate {
		l.escalate(ctx, failures)
	}
	return cooldown
}

var _ ports.StatusSource = (*IngestLoop)(nil)
