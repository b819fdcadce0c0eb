package pumpmon

import (
	"github.com/marcus-v-rodrigues/pump-monitoring/internal/adapters/observability"
	"github.com/marcus-v-rodrigues/pump-monitoring/internal/domain"
	"github.com/marcus-v-rodrigues/pump-monitoring/internal/ports"
)

// Sample is one reading of the pump's five measurements.
type Sample = domain.Sample

// Generator produces the next sample on every ingestion cycle.
type Generator = ports.Generator

// SampleStore persists one sample per call and reports success as a bool.
type SampleStore = ports.SampleStore

// SchemaBootstrapper prepares the store before ingestion starts.
type SchemaBootstrapper = ports.SchemaBootstrapper

// ResourceProbe reads host CPU, memory and disk utilisation.
type ResourceProbe = ports.ResourceProbe

// SummarySource answers /metrics/summary.
type SummarySource = ports.SummarySource

// Escalation runs when consecutive store failures reach the threshold.
type Escalation = ports.Escalation

type (
	SystemUsage     = ports.SystemUsage
	WindowStats     = ports.WindowStats
	IngestionStatus = ports.IngestionStatus
)

// PromMetrics is the Prometheus-backed metrics state served on /metrics.
type PromMetrics = observability.PromMetrics

// NewPromMetrics creates metrics on a private registry.
func NewPromMetrics() *PromMetrics {
	return observability.NewPromMetrics()
}
