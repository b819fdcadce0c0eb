package pumpmon

import (
	"context"
	"sync"

	"github.com/marcus-v-rodrigues/pump-monitoring/internal/domain"
	"github.com/marcus-v-rodrigues/pump-monitoring/internal/ports"
)

// StoreFunc persists a single sample.
type StoreFunc func(ctx context.Context, s Sample) error

// NewCallbackStore adapts fn into a SampleStore so callers can route samples
// anywhere without defining a type. A nil fn rejects every sample.
func NewCallbackStore(name string, fn StoreFunc) SampleStore {
	if name == "" {
		name = "callback"
	}
	return &callbackStore{name: name, fn: fn}
}

// NewChannelStore exposes samples on a channel. It returns the store, the
// read side and a close function the caller should invoke on shutdown.
// Store blocks until the sample is received, the context ends or the store
// is closed; a closed store rejects every sample.
func NewChannelStore(name string, buffer int) (SampleStore, <-chan Sample, func()) {
	if name == "" {
		name = "channel"
	}
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan Sample, buffer)
	s := &channelStore{
		name:   name,
		ch:     ch,
		closed: make(chan struct{}),
	}
	return s, ch, func() { s.close() }
}

type callbackStore struct {
	name string
	fn   StoreFunc
}

func (s *callbackStore) Store(ctx context.Context, sample domain.Sample) bool {
	if s.fn == nil {
		return false
	}
	return s.fn(ctx, sample) == nil
}

func (s *callbackStore) Name() string { return s.name }

type channelStore struct {
	name   string
	ch     chan Sample
	closed chan struct{}
	once   sync.Once
	mu     sync.RWMutex
}

func (s *channelStore) Store(ctx context.Context, sample domain.Sample) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	select {
	case <-s.closed:
		return false
	default:
	}

	select {
	case <-s.closed:
		return false
	case <-ctx.Done():
		return false
	case s.ch <- sample:
		return true
	}
}

func (s *channelStore) Name() string { return s.name }

func (s *channelStore) close() {
	s.once.Do(func() {
		close(s.closed)
		s.mu.Lock()
		close(s.ch)
		s.mu.Unlock()
	})
}

// meteredStore gives stores supplied through WithStore the same metric
// updates the TimescaleDB gateway performs itself.
type meteredStore struct {
	inner   SampleStore
	metrics ports.Metrics
}

func newMeteredStore(inner SampleStore, metrics ports.Metrics) *meteredStore {
	return &meteredStore{inner: inner, metrics: metrics}
}

func (m *meteredStore) Store(ctx context.Context, sample domain.Sample) bool {
	if !m.inner.Store(ctx, sample) {
		m.metrics.IncOperation(ports.OutcomeFailure)
		return false
	}
	m.metrics.RecordSample(sample)
	m.metrics.IncOperation(ports.OutcomeSuccess)
	return true
}

func (m *meteredStore) Name() string { return m.inner.Name() }
