package pumpmonitoring

import (
	base "github.com/marcus-v-rodrigues/pump-monitoring/pkg/pumpmon"
)

// Type aliases so consumers can import the module root directly.
type (
	Config             = base.Config
	DatabaseConfig     = base.DatabaseConfig
	PumpConfig         = base.PumpConfig
	DataConfig         = base.DataConfig
	LoggingConfig      = base.LoggingConfig
	MonitoringConfig   = base.MonitoringConfig
	IngestConfig       = base.IngestConfig
	RetryConfig        = base.RetryConfig
	SysmonConfig       = base.SysmonConfig
	Runtime            = base.Runtime
	RuntimeOption      = base.RuntimeOption
	Sample             = base.Sample
	Generator          = base.Generator
	SampleStore        = base.SampleStore
	SchemaBootstrapper = base.SchemaBootstrapper
	ResourceProbe      = base.ResourceProbe
	SummarySource      = base.SummarySource
	Escalation         = base.Escalation
	StoreFunc          = base.StoreFunc
	SystemUsage        = base.SystemUsage
	WindowStats        = base.WindowStats
	IngestionStatus    = base.IngestionStatus
	PromMetrics        = base.PromMetrics
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

// Runtime and options.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	return base.NewRuntime(cfg, opts...)
}

func WithGenerator(g Generator) RuntimeOption {
	return base.WithGenerator(g)
}

func WithStore(s SampleStore) RuntimeOption {
	return base.WithStore(s)
}

func WithBootstrapper(b SchemaBootstrapper) RuntimeOption {
	return base.WithBootstrapper(b)
}

func WithSummary(s SummarySource) RuntimeOption {
	return base.WithSummary(s)
}

func WithMetrics(m *PromMetrics) RuntimeOption {
	return base.WithMetrics(m)
}

func WithProbe(p ResourceProbe) RuntimeOption {
	return base.WithProbe(p)
}

func WithEscalation(fn Escalation) RuntimeOption {
	return base.WithEscalation(fn)
}

func WithListenAddrs(metricsAddr, apiAddr string) RuntimeOption {
	return base.WithListenAddrs(metricsAddr, apiAddr)
}

func NewPromMetrics() *PromMetrics {
	return base.NewPromMetrics()
}

// Store adapters.
func NewCallbackStore(name string, fn StoreFunc) SampleStore {
	return base.NewCallbackStore(name, fn)
}

func NewChannelStore(name string, buffer int) (SampleStore, <-chan Sample, func()) {
	return base.NewChannelStore(name, buffer)
}
