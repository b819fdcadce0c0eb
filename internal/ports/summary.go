package ports

import (
	"context"
	"time"
)

// WindowStats aggregates the samples stored inside a trailing window.
// Averages are nil when the window is empty.
type WindowStats struct {
	TotalRecords       int64
	AveragePressure    *float64
	AverageTemperature *float64
	AverageVibration   *float64
}

// SummarySource answers aggregate queries over recently stored samples.
type SummarySource interface {
	Window(ctx context.Context, window time.Duration) (WindowStats, error)
}
