package observability

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marcus-v-rodrigues/pump-monitoring/internal/domain"
	"github.com/marcus-v-rodrigues/pump-monitoring/internal/ports"
)

// PromMetrics owns its registry, so building it twice never trips duplicate
// registration.
type PromMetrics struct {
	registry *prometheus.Registry

	readings   *prometheus.GaugeVec
	operations *prometheus.CounterVec
	cycle      prometheus.Histogram
	cpu        prometheus.Gauge
	memory     prometheus.Gauge
	disk       prometheus.Gauge

	mu    sync.RWMutex
	usage ports.SystemUsage
}

func NewPromMetrics() *PromMetrics {
	readings := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pump_metrics",
		Help: "Latest persisted pump reading per measurement field.",
	}, []string{"metric_type"})
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pump_operations_total",
		Help: "Store operations by outcome.",
	}, []string{"outcome"})
	cycle := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pump_cycle_duration_seconds",
		Help:    "Duration of one generate and persist cycle.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 16),
	})
	cpu := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pump_system_cpu_usage_percent",
		Help: "Host CPU utilisation.",
	})
	memory := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pump_system_memory_usage_percent",
		Help: "Host memory utilisation.",
	})
	disk := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pump_system_disk_usage_percent",
		Help: "Host disk utilisation.",
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		readings, operations, cycle, cpu, memory, disk,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Pre-create outcome series so scrapes show zeroes before the first cycle.
	for _, outcome := range []string{ports.OutcomeSuccess, ports.OutcomeFailure, ports.OutcomeError, ports.OutcomeTotal} {
		operations.WithLabelValues(outcome)
	}

	return &PromMetrics{
		registry:   reg,
		readings:   readings,
		operations: operations,
		cycle:      cycle,
		cpu:        cpu,
		memory:     memory,
		disk:       disk,
	}
}

// Registry exposes the underlying registry for scraping and tests.
func (p *PromMetrics) Registry() *prometheus.Registry { return p.registry }

// Handler serves the registry in the Prometheus exposition format.
func (p *PromMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

func (p *PromMetrics) RecordSample(s domain.Sample) {
	for name, v := range s.Fields() {
		p.readings.WithLabelValues(name).Set(v)
	}
}

func (p *PromMetrics) IncOperation(outcome string) {
	p.operations.WithLabelValues(outcome).Inc()
}

func (p *PromMetrics) ObserveCycle(seconds float64) {
	p.cycle.Observe(seconds)
}

func (p *PromMetrics) SetSystemUsage(u ports.SystemUsage) {
	p.cpu.Set(u.CPUPercent)
	p.memory.Set(u.MemoryPercent)
	p.disk.Set(u.DiskPercent)

	p.mu.Lock()
	p.usage = u
	p.mu.Unlock()
}

func (p *PromMetrics) SystemUsage() ports.SystemUsage {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.usage
}

var _ ports.Metrics = (*PromMetrics)(nil)
