package domain

import (
	"fmt"
	"time"
)

// Measurement field names, used as the metric_type label and column names.
const (
	FieldPressure         = "pressure"
	FieldFlowRate         = "flow_rate"
	FieldTemperature      = "temperature"
	FieldVibration        = "vibration"
	FieldPowerConsumption = "power_consumption"
)

// MeasurementFields lists the sample fields in column order.
var MeasurementFields = []string{
	FieldPressure,
	FieldFlowRate,
	FieldTemperature,
	FieldVibration,
	FieldPowerConsumption,
}

// Sample is one synthetic measurement of the pump. Timestamp stays zero until
// the store assigns the write time.
type Sample struct {
	PumpID           string    `json:"pump_id"`
	Timestamp        time.Time `json:"time"`
	Pressure         float64   `json:"pressure"`
	FlowRate         float64   `json:"flow_rate"`
	Temperature      float64   `json:"temperature"`
	Vibration        float64   `json:"vibration"`
	PowerConsumption float64   `json:"power_consumption"`
}

// Fields returns the measurement values keyed by field name.
func (s Sample) Fields() map[string]float64 {
	return map[string]float64{
		FieldPressure:         s.Pressure,
		FieldFlowRate:         s.FlowRate,
		FieldTemperature:      s.Temperature,
		FieldVibration:        s.Vibration,
		FieldPowerConsumption: s.PowerConsumption,
	}
}

// String renders the reading with engineering units for log lines.
func (s Sample) String() string {
	return fmt.Sprintf("pressure: %.2f PSI, flow: %.2f L/min, temperature: %.2f°C, vibration: %.4f mm/s, power: %.2f kW",
		s.Pressure, s.FlowRate, s.Temperature, s.Vibration, s.PowerConsumption)
}
