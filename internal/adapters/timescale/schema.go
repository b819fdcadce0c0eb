package timescale

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/marcus-v-rodrigues/pump-monitoring/internal/ports"
)

// Bootstrapper reconciles the hypertable, index and retention policy. Every
// statement is idempotent, so it runs on each start.
type Bootstrapper struct {
	open          Opener
	table         string
	retentionDays int
	policy        ports.RetryPolicy
	logger        *zap.Logger
	settings      settings
}

func NewBootstrapper(open Opener, table string, retentionDays int, policy ports.RetryPolicy, logger *zap.Logger, opts ...Option) *Bootstrapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bootstrapper{
		open:          open,
		table:         tableOrDefault(table),
		retentionDays: retentionDays,
		policy:        policy,
		logger:        logger.Named("bootstrap"),
		settings:      applyOptions(opts),
	}
}

type statement struct {
	name      string
	query     string
	args      []any
	retention bool // run together in one transaction
}

func (b *Bootstrapper) statements() []statement {
	table := pq.QuoteIdentifier(b.table)
	index := pq.QuoteIdentifier("idx_" + b.table + "_pump_id")
	name := pq.QuoteLiteral(b.table)

	return []statement{
		{name: "create_extension", query: "CREATE EXTENSION IF NOT EXISTS timescaledb CASCADE"},
		{name: "create_table", query: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	time TIMESTAMPTZ NOT NULL,
	pump_id TEXT,
	pressure DOUBLE PRECISION,
	flow_rate DOUBLE PRECISION,
	temperature DOUBLE PRECISION,
	vibration DOUBLE PRECISION,
	power_consumption DOUBLE PRECISION
)`, table)},
		{name: "create_index", query: fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (pump_id, time DESC)", index, table)},
		{name: "create_hypertable", query: fmt.Sprintf("SELECT create_hypertable(%s, 'time', if_not_exists => TRUE, migrate_data => TRUE)", name)},
		// Dropping first lets a changed retention window take effect on restart.
		{name: "remove_retention_policy", query: fmt.Sprintf("SELECT remove_retention_policy(%s, if_exists => TRUE)", name), retention: true},
		{name: "add_retention_policy", query: fmt.Sprintf("SELECT add_retention_policy(%s, make_interval(days => $1), if_not_exists => TRUE)", name), args: []any{b.retentionDays}, retention: true},
	}
}

// EnsureSchema applies the schema, retrying storage errors with a fixed
// delay. Any other error aborts at once.
func (b *Bootstrapper) EnsureSchema(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= b.policy.MaxAttempts; attempt++ {
		err := b.apply(ctx)
		if err == nil {
			b.logger.Info("database schema ready",
				zap.String("table", b.table),
				zap.Int("retention_days", b.retentionDays),
				zap.Int("attempt", attempt))
			return nil
		}
		if !IsRetryable(err) {
			b.logger.Error("unexpected error configuring database", zap.Error(err))
			return err
		}

		lastErr = err
		b.logger.Error("schema attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", b.policy.MaxAttempts),
			zap.String("sqlstate", sqlStateOf(err)),
			zap.Error(err))

		if attempt < b.policy.MaxAttempts {
			b.logger.Info("retrying schema setup", zap.Duration("delay", b.policy.Delay))
			if !b.settings.sleep(ctx, b.policy.Delay) {
				return fmt.Errorf("%w: schema setup interrupted: %v", ErrUnexpected, ctx.Err())
			}
		}
	}

	err := &ExhaustedRetriesError{Attempts: b.policy.MaxAttempts, Err: lastErr}
	b.logger.Error("database setup failed", zap.Error(err))
	return err
}

func (b *Bootstrapper) apply(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpected, err)
	}

	db, err := b.open(ctx)
	if err != nil {
		return storageErr("connect", err)
	}
	defer db.Close()

	var retention []statement
	for _, st := range b.statements() {
		if st.retention {
			retention = append(retention, st)
			continue
		}
		if _, err := db.ExecContext(ctx, st.query, st.args...); err != nil {
			return storageErr(st.name, err)
		}
		b.logger.Debug("schema statement applied", zap.String("statement", st.name))
	}
	return b.applyRetention(ctx, db, retention)
}

// applyRetention swaps the retention policy atomically, so a failed add never
// leaves the table without one.
func (b *Bootstrapper) applyRetention(ctx context.Context, db *sql.DB, stmts []statement) error {
	if len(stmts) == 0 {
		return nil
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin", err)
	}
	for _, st := range stmts {
		if _, err := tx.ExecContext(ctx, st.query, st.args...); err != nil {
			_ = tx.Rollback()
			return storageErr(st.name, err)
		}
		b.logger.Debug("schema statement applied", zap.String("statement", st.name))
	}
	if err := tx.Commit(); err != nil {
		return storageErr("commit", err)
	}
	return nil
}

var _ ports.SchemaBootstrapper = (*Bootstrapper)(nil)
