package timescale

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/marcus-v-rodrigues/pump-monitoring/internal/domain"
	"github.com/marcus-v-rodrigues/pump-monitoring/internal/ports"
)

var errRefused = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")

// scriptedOpener fails the first failures calls, then hands out sqlmock
// handles prepared by setup.
type scriptedOpener struct {
	t        *testing.T
	failures int
	setup    func(mock sqlmock.Sqlmock)

	calls int
	mocks []sqlmock.Sqlmock
}

func (o *scriptedOpener) open(ctx context.Context) (*sql.DB, error) {
	o.calls++
	if o.calls <= o.failures {
		return nil, errRefused
	}
	db, mock, err := sqlmock.New()
	if err != nil {
		o.t.Fatalf("sqlmock: %v", err)
	}
	o.setup(mock)
	o.mocks = append(o.mocks, mock)
	return db, nil
}

func (o *scriptedOpener) verify() {
	o.t.Helper()
	for i, mock := range o.mocks {
		if err := mock.ExpectationsWereMet(); err != nil {
			o.t.Fatalf("handle %d: unmet expectations: %v", i, err)
		}
	}
}

type recordingSleep struct {
	delays []time.Duration
	allow  bool
}

func newRecordingSleep() *recordingSleep { return &recordingSleep{allow: true} }

func (r *recordingSleep) sleep(_ context.Context, d time.Duration) bool {
	r.delays = append(r.delays, d)
	return r.allow
}

type countingMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
	samples  []domain.Sample
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{outcomes: make(map[string]int)}
}

func (m *countingMetrics) RecordSample(s domain.Sample) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples = append(m.samples, s)
}

func (m *countingMetrics) IncOperation(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[outcome]++
}

func (m *countingMetrics) count(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomes[outcome]
}

func (m *countingMetrics) ObserveCycle(float64)             {}
func (m *countingMetrics) SetSystemUsage(ports.SystemUsage) {}
func (m *countingMetrics) SystemUsage() ports.SystemUsage   { return ports.SystemUsage{} }
