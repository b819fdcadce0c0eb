package timescale

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

// Supported database/sql driver names.
const (
	DriverPQ  = "postgres"
	DriverPGX = "pgx"
)

// Opener returns a fresh, verified handle for a single attempt. Callers own
// the handle and must close it; handles are never shared between attempts.
type Opener func(ctx context.Context) (*sql.DB, error)

// DSNOpener opens a single-connection handle per call and pings it.
func DSNOpener(driver, dsn string) Opener {
	return func(ctx context.Context) (*sql.DB, error) {
		db, err := sql.Open(driver, dsn)
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)

		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}
}
