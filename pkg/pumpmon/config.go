package pumpmon

import (
	"github.com/marcus-v-rodrigues/pump-monitoring/internal/app/config"
)

// Config re-exports the root configuration struct so embedding services can
// construct or modify it programmatically.
type Config = config.Config

type (
	// DatabaseConfig describes the TimescaleDB connection.
	DatabaseConfig = config.DatabaseConfig
	// PumpConfig identifies the simulated pump.
	PumpConfig = config.PumpConfig
	// DataConfig controls retention.
	DataConfig = config.DataConfig
	// LoggingConfig selects the log encoder and level.
	LoggingConfig = config.LoggingConfig
	// MonitoringConfig configures the metrics and API listeners.
	MonitoringConfig = config.MonitoringConfig
	// IngestConfig tunes store retries and loop backoff.
	IngestConfig = config.IngestConfig
	// RetryConfig bounds schema bootstrap attempts.
	RetryConfig = config.RetryConfig
	// SysmonConfig tunes host resource sampling.
	SysmonConfig = config.SysmonConfig
)

// LoadConfig resolves defaults, the optional YAML file, .env and the
// environment.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}
