package ports

import "time"

// IngestionStatus is a point-in-time view of the ingestion loop.
type IngestionStatus struct {
	LastSuccess         time.Time
	LastFailure         time.Time
	ConsecutiveFailures int
	Cycles              uint64
	LastCycleOK         bool
}

// Healthy reports whether the most recent cycle stored its sample. A loop
// that has not completed a cycle yet counts as healthy.
func (s IngestionStatus) Healthy() bool {
	return s.Cycles == 0 || s.LastCycleOK
}

// StatusSource exposes the ingestion status to read-only consumers.
type StatusSource interface {
	Status() IngestionStatus
}
