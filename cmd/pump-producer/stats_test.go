package main

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/marcus-v-rodrigues/pump-monitoring/internal/adapters/observability"
	"github.com/marcus-v-rodrigues/pump-monitoring/internal/domain"
	"github.com/marcus-v-rodrigues/pump-monitoring/internal/ports"
)

const scrape = `# HELP pump_operations_total Store operations by outcome.
# TYPE pump_operations_total counter
pump_operations_total{outcome="success"} 12
pump_operations_total{outcome="failure"} 3
pump_operations_total{outcome="error"} 1
# HELP pump_metrics Latest persisted pump reading per measurement field.
# TYPE pump_metrics gauge
pump_metrics{metric_type="pressure"} 3.25
pump_metrics{metric_type="temperature"} 41.5
# TYPE pump_cycle_duration_seconds histogram
pump_cycle_duration_seconds_bucket{le="0.5"} 4
pump_cycle_duration_seconds_bucket{le="+Inf"} 4
pump_cycle_duration_seconds_sum 0.2
pump_cycle_duration_seconds_count 4
# TYPE pump_system_cpu_usage_percent gauge
pump_system_cpu_usage_percent 17.5
`

func TestParseSnapshot(t *testing.T) {
	snap, err := parseSnapshot(strings.NewReader(scrape))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if snap.Operations["success"] != 12 || snap.Operations["failure"] != 3 {
		t.Fatalf("unexpected operations %v", snap.Operations)
	}
	if snap.Readings["pressure"] != 3.25 {
		t.Fatalf("unexpected readings %v", snap.Readings)
	}
	if snap.Cycles != 4 || snap.CycleSum != 0.2 {
		t.Fatalf("unexpected histogram %d/%f", snap.Cycles, snap.CycleSum)
	}
	if snap.CPU != 17.5 || snap.Memory != 0 {
		t.Fatalf("unexpected usage cpu=%f mem=%f", snap.CPU, snap.Memory)
	}
	if !strings.Contains(snap.String(), "stored=12 failed=3 errors=1") {
		t.Fatalf("unexpected rendering %s", snap)
	}
}

func TestParseSnapshotRejectsGarbage(t *testing.T) {
	if _, err := parseSnapshot(strings.NewReader("pump_metrics{ 1\n")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestFetchSnapshotFromLiveRegistry(t *testing.T) {
	metrics := observability.NewPromMetrics()
	metrics.RecordSample(domain.Sample{Pressure: 2.5, Temperature: 30})
	metrics.IncOperation(ports.OutcomeSuccess)
	metrics.SetSystemUsage(ports.SystemUsage{CPUPercent: 5, MemoryPercent: 6, DiskPercent: 7})

	srv := httptest.NewServer(metrics.Handler())
	defer srv.Close()

	snap, err := fetchSnapshot(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if snap.Operations["success"] != 1 || snap.Readings["pressure"] != 2.5 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.Disk != 7 {
		t.Fatalf("expected disk 7, got %f", snap.Disk)
	}
}
