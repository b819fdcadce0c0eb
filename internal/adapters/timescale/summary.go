package timescale

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/marcus-v-rodrigues/pump-monitoring/internal/ports"
)

// SummaryReader answers read-only aggregate queries. Like the gateway it
// opens and closes a connection per call.
type SummaryReader struct {
	open     Opener
	querySQL string
}

var _ ports.SummarySource = (*SummaryReader)(nil)

func NewSummaryReader(open Opener, table string) *SummaryReader {
	table = tableOrDefault(table)
	return &SummaryReader{
		open:     open,
		querySQL: fmt.Sprintf(
			"SELECT COUNT(*), AVG(pressure), AVG(temperature), AVG(vibration) FROM %s WHERE time > NOW() - make_interval(secs => $1)",
			pq.QuoteIdentifier(table)),
	}
}

// Window returns the aggregates over the trailing window.
func (r *SummaryReader) Window(ctx context.Context, window time.Duration) (ports.WindowStats, error) {
	db, err := r.open(ctx)
	if err != nil {
		return ports.WindowStats{}, storageErr("connect", err)
	}
	defer db.Close()

	var (
		stats                   ports.WindowStats
		pressure, temp, vibrate sql.NullFloat64
	)
	row := db.QueryRowContext(ctx, r.querySQL, window.Seconds())
	if err := row.Scan(&stats.TotalRecords, &pressure, &temp, &vibrate); err != nil {
		return ports.WindowStats{}, storageErr("query", err)
	}
	stats.AveragePressure = nullable(pressure)
	stats.AverageTemperature = nullable(temp)
	stats.AverageVibration = nullable(vibrate)
	return stats, nil
}

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
