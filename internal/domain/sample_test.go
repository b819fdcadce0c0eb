package domain

import "testing"

func TestSampleFieldsCoversEveryMeasurement(t *testing.T) {
	s := Sample{Pressure: 3, FlowRate: 150, Temperature: 40, Vibration: 0.5, PowerConsumption: 80}

	fields := s.Fields()
	if len(fields) != len(MeasurementFields) {
		t.Fatalf("expected %d fields, got %d", len(MeasurementFields), len(fields))
	}
	for _, name := range MeasurementFields {
		if _, ok := fields[name]; !ok {
			t.Fatalf("missing field %s", name)
		}
	}
	if fields[FieldFlowRate] != 150 {
		t.Fatalf("expected flow_rate 150, got %f", fields[FieldFlowRate])
	}
}

func TestSampleString(t *testing.T) {
	s := Sample{Pressure: 2.5, FlowRate: 120, Temperature: 38.25, Vibration: 0.51234, PowerConsumption: 79.9}

	want := "pressure: 2.50 PSI, flow: 120.00 L/min, temperature: 38.25°C, vibration: 0.5123 mm/s, power: 79.90 kW"
	if got := s.String(); got != want {
		t.Fatalf("unexpected log line:\n got %q\nwant %q", got, want)
	}
}
