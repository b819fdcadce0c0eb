package timescale

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/marcus-v-rodrigues/pump-monitoring/internal/domain"
	"github.com/marcus-v-rodrigues/pump-monitoring/internal/ports"
)

// Gateway writes one sample per call. Each attempt opens, inserts, commits
// and closes its own connection.
type Gateway struct {
	open      Opener
	tableName string
	insertSQL string
	policy    ports.RetryPolicy
	metrics   ports.Metrics
	logger    *zap.Logger
	settings  settings
}

func NewGateway(open Opener, table string, policy ports.RetryPolicy, metrics ports.Metrics, logger *zap.Logger, opts ...Option) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	table = tableOrDefault(table)
	return &Gateway{
		open:      open,
		tableName: table,
		insertSQL: fmt.Sprintf(
			"INSERT INTO %s (time, pump_id, pressure, flow_rate, temperature, vibration, power_consumption) VALUES (NOW(), $1, $2, $3, $4, $5, $6)",
			pq.QuoteIdentifier(table)),
		policy:   policy,
		metrics:  metrics,
		logger:   logger.Named("gateway"),
		settings: applyOptions(opts),
	}
}

func (g *Gateway) Name() string { return "timescaledb" }

// Store persists s, retrying storage errors up to the policy limit. It
// returns false once attempts are exhausted or on an unexpected error.
func (g *Gateway) Store(ctx context.Context, s domain.Sample) bool {
	for attempt := 1; attempt <= g.policy.MaxAttempts; attempt++ {
		err := g.insert(ctx, s)
		if err == nil {
			g.metrics.RecordSample(s)
			g.metrics.IncOperation(ports.OutcomeSuccess)
			if attempt > 1 {
				g.logger.Debug("store succeeded after retry", zap.Int("attempt", attempt))
			}
			return true
		}

		if !IsRetryable(err) {
			g.metrics.IncOperation(ports.OutcomeError)
			g.logger.Error("unexpected error storing sample", zap.Int("attempt", attempt), zap.Error(err))
			return false
		}

		g.metrics.IncOperation(ports.OutcomeFailure)
		g.logger.Error("store attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", g.policy.MaxAttempts),
			zap.String("sqlstate", sqlStateOf(err)),
			zap.Error(err))

		if attempt < g.policy.MaxAttempts && !g.settings.sleep(ctx, g.policy.Delay) {
			g.logger.Warn("store abandoned on shutdown", zap.Int("attempt", attempt))
			return false
		}
	}

	g.logger.Error("failed to store sample after retries",
		zap.String("table", g.tableName),
		zap.Int("attempts", g.policy.MaxAttempts))
	return false
}

func (g *Gateway) insert(ctx context.Context, s domain.Sample) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpected, err)
	}

	db, err := g.open(ctx)
	if err != nil {
		return storageErr("connect", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin", err)
	}
	if _, err := tx.ExecContext(ctx, g.insertSQL,
		s.PumpID,
		s.Pressure,
		s.FlowRate,
		s.Temperature,
		s.Vibration,
		s.PowerConsumption,
	); err != nil {
		_ = tx.Rollback()
		return storageErr("exec", err)
	}
	if err := tx.Commit(); err != nil {
		return storageErr("commit", err)
	}
	return nil
}

var _ ports.SampleStore = (*Gateway)(nil)
