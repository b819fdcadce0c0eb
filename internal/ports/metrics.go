package ports

import "github.com/marcus-v-rodrigues/pump-monitoring/internal/domain"

// Operation outcomes recorded by the operations counter.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeError   = "error"
	OutcomeTotal   = "total"
)

// Metrics is the process-wide metrics state shared by every component.
// Implementations must be safe for concurrent use.
type Metrics interface {
	RecordSample(s domain.Sample)
	IncOperation(outcome string)
	ObserveCycle(seconds float64)
	SetSystemUsage(u SystemUsage)
	SystemUsage() SystemUsage
}

// SystemUsage holds host resource utilisation in percent.
type SystemUsage struct {
	CPUPercent    float64
	MemoryPercent float64
	DiskPercent   float64
}
