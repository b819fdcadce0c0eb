package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

type snapshot struct {
	Operations map[string]float64
	Readings   map[string]float64
	Cycles     uint64
	CycleSum   float64
	CPU        float64
	Memory     float64
	Disk       float64
}

func (s snapshot) String() string {
	avg := 0.0
	if s.Cycles > 0 {
		avg = s.CycleSum / float64(s.Cycles)
	}
	return fmt.Sprintf("stored=%.0f failed=%.0f errors=%.0f pressure=%.2f temperature=%.2f cycle_avg=%.4fs cpu=%.1f%% mem=%.1f%% disk=%.1f%%",
		s.Operations["success"], s.Operations["failure"], s.Operations["error"],
		s.Readings["pressure"], s.Readings["temperature"],
		avg, s.CPU, s.Memory, s.Disk)
}

func fetchSnapshot(ctx context.Context, url string) (snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return snapshot{}, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return snapshot{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return snapshot{}, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return parseSnapshot(resp.Body)
}

func parseSnapshot(r io.Reader) (snapshot, error) {
	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(r)
	if err != nil {
		return snapshot{}, fmt.Errorf("parse metrics: %w", err)
	}

	snap := snapshot{
		Operations: labelled(families["pump_operations_total"], "outcome"),
		Readings:   labelled(families["pump_metrics"], "metric_type"),
		CPU:        single(families["pump_system_cpu_usage_percent"]),
		Memory:     single(families["pump_system_memory_usage_percent"]),
		Disk:       single(families["pump_system_disk_usage_percent"]),
	}
	if mf := families["pump_cycle_duration_seconds"]; mf != nil && len(mf.GetMetric()) > 0 {
		h := mf.GetMetric()[0].GetHistogram()
		snap.Cycles = h.GetSampleCount()
		snap.CycleSum = h.GetSampleSum()
	}
	return snap, nil
}

func labelled(mf *dto.MetricFamily, label string) map[string]float64 {
	out := make(map[string]float64)
	if mf == nil {
		return out
	}
	for _, m := range mf.GetMetric() {
		for _, lp := range m.GetLabel() {
			if strings.EqualFold(lp.GetName(), label) {
				out[lp.GetValue()] = value(m)
			}
		}
	}
	return out
}

func single(mf *dto.MetricFamily) float64 {
	if mf == nil || len(mf.GetMetric()) == 0 {
		return 0
	}
	return value(mf.GetMetric()[0])
}

func value(m *dto.Metric) float64 {
	switch {
	case m.GetGauge() != nil:
		return m.GetGauge().GetValue()
	case m.GetCounter() != nil:
		return m.GetCounter().GetValue()
	case m.GetUntyped() != nil:
		return m.GetUntyped().GetValue()
	}
	return 0
}
