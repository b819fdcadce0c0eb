package pumpmon

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/marcus-v-rodrigues/pump-monitoring/internal/adapters/generator"
	"github.com/marcus-v-rodrigues/pump-monitoring/internal/adapters/httpapi"
	"github.com/marcus-v-rodrigues/pump-monitoring/internal/adapters/observability"
	"github.com/marcus-v-rodrigues/pump-monitoring/internal/adapters/sysmon"
	"github.com/marcus-v-rodrigues/pump-monitoring/internal/adapters/timescale"
	"github.com/marcus-v-rodrigues/pump-monitoring/internal/app/pipeline"
)

// RuntimeOption customizes the dependencies used by Runtime.
type RuntimeOption func(*runtimeOverrides)

type runtimeOverrides struct {
	generator    Generator
	store        SampleStore
	bootstrapper SchemaBootstrapper
	summary      SummarySource
	metrics      *PromMetrics
	logger       *zap.Logger
	probe        ResourceProbe
	escalation   Escalation
	metricsAddr  string
	apiAddr      string
}

// WithGenerator replaces the random reading generator.
func WithGenerator(g Generator) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.generator = g
	}
}

// WithStore routes samples to a custom store. The runtime records the
// per-field gauges and success or failure counters around each call. Unless
// WithBootstrapper or WithSummary are also given, no schema is bootstrapped
// and the summary endpoint reports an error.
func WithStore(s SampleStore) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.store = s
	}
}

func WithBootstrapper(b SchemaBootstrapper) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.bootstrapper = b
	}
}

func WithSummary(s SummarySource) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.summary = s
	}
}

// WithMetrics shares an existing metrics instance, e.g. to inspect it.
func WithMetrics(m *PromMetrics) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.metrics = m
	}
}

func WithLogger(l *zap.Logger) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.logger = l
	}
}

// WithProbe replaces the gopsutil host probe.
func WithProbe(p ResourceProbe) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.probe = p
	}
}

// WithEscalation replaces the default log-and-reset threshold action.
func WithEscalation(fn Escalation) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.escalation = fn
	}
}

// WithListenAddrs overrides the listen addresses derived from the config.
func WithListenAddrs(metricsAddr, apiAddr string) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.metricsAddr = metricsAddr
		o.apiAddr = apiAddr
	}
}

// Runtime wires generator -> store ingestion, host sampling, the metrics
// endpoint and the HTTP API.
type Runtime struct {
	cfg          *Config
	logger       *zap.Logger
	ownLogger    bool
	metrics      *PromMetrics
	bootstrapper SchemaBootstrapper
	store        SampleStore
	loop         *pipeline.IngestLoop
	sampler      *sysmon.Sampler
	api          *httpapi.Server
	metricsAddr  string
	apiAddr      string
}

// NewRuntime builds the default adapters (random generator, TimescaleDB
// gateway and bootstrapper, Prometheus metrics, gopsutil probe). Options
// override any of them.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var overrides runtimeOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	rt := &Runtime{
		cfg:         cfg,
		logger:      overrides.logger,
		metrics:     overrides.metrics,
		metricsAddr: cfg.MetricsAddr(),
		apiAddr:     cfg.HTTPAddr(),
	}
	if overrides.metricsAddr != "" {
		rt.metricsAddr = overrides.metricsAddr
	}
	if overrides.apiAddr != "" {
		rt.apiAddr = overrides.apiAddr
	}

	if rt.logger == nil {
		logger, err := observability.NewLogger(cfg.Logging.Format, cfg.Logging.Level, cfg.Monitoring.Debug)
		if err != nil {
			return nil, err
		}
		rt.logger = logger
		rt.ownLogger = true
	}

	if rt.metrics == nil {
		rt.metrics = observability.NewPromMetrics()
	}

	gen := overrides.generator
	if gen == nil {
		gen = generator.NewRandom(cfg.Pump.ID)
	}

	rt.bootstrapper = overrides.bootstrapper
	summary := overrides.summary
	if overrides.store != nil {
		rt.store = newMeteredStore(overrides.store, rt.metrics)
	} else {
		open := timescale.DSNOpener(cfg.Database.Driver, cfg.DSN())
		rt.store = timescale.NewGateway(open, cfg.Database.Table, cfg.StorePolicy(), rt.metrics, rt.logger)
		if rt.bootstrapper == nil {
			rt.bootstrapper = timescale.NewBootstrapper(open, cfg.Database.Table, cfg.Data.RetentionDays, cfg.BootstrapPolicy(), rt.logger)
		}
		if summary == nil {
			summary = timescale.NewSummaryReader(open, cfg.Database.Table)
		}
	}

	probe := overrides.probe
	if probe == nil {
		probe = sysmon.NewHostProbe(cfg.Sysmon.DiskPath)
	}

	var loopOpts []pipeline.LoopOption
	if overrides.escalation != nil {
		loopOpts = append(loopOpts, pipeline.WithEscalation(overrides.escalation))
	}
	rt.loop = pipeline.NewIngestLoop(gen, rt.store, rt.metrics, cfg.BackoffPolicy(), rt.logger, loopOpts...)
	rt.sampler = sysmon.NewSampler(probe, rt.metrics, cfg.Sysmon.RefreshInterval, cfg.Sysmon.PollInterval, rt.logger)
	rt.api = httpapi.NewServer(cfg.Pump.ID, summary, rt.metrics, rt.loop, rt.logger)

	return rt, nil
}

// Run bootstraps the schema, then runs every unit until ctx is cancelled or
// one of the listeners fails. A bootstrap failure is returned before anything
// else starts.
func (r *Runtime) Run(ctx context.Context) error {
	if r == nil {
		return fmt.Errorf("runtime is nil")
	}
	if r.ownLogger {
		defer func() { _ = r.logger.Sync() }()
	}

	if r.bootstrapper != nil {
		if err := r.bootstrapper.EnsureSchema(ctx); err != nil {
			r.logger.Error("schema bootstrap failed", zap.Error(err))
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}

	r.logger.Info("pump producer starting",
		zap.String("store", r.store.Name()),
		zap.String("metrics_addr", r.metricsAddr),
		zap.String("api_addr", r.apiAddr))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpapi.ListenAndServe(gctx, r.metricsAddr, r.metrics.Handler(), r.logger.Named("metrics"))
	})
	g.Go(func() error {
		return httpapi.ListenAndServe(gctx, r.apiAddr, r.api, r.logger.Named("api"))
	})
	g.Go(func() error {
		r.sampler.Run(gctx)
		return nil
	})
	g.Go(func() error {
		r.loop.Run(gctx)
		return nil
	})

	err := g.Wait()
	r.logger.Info("pump producer stopped")
	return err
}

// Status reports the ingestion loop state.
func (r *Runtime) Status() IngestionStatus { return r.loop.Status() }

// Metrics returns the metrics instance served on /metrics.
func (r *Runtime) Metrics() *PromMetrics { return r.metrics }

// APIHandler returns the /health and /metrics/summary router for embedding.
func (r *Runtime) APIHandler() http.Handler { return r.api }
