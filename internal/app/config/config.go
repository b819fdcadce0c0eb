package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"

	"github.com/marcus-v-rodrigues/pump-monitoring/internal/ports"
)

// DefaultEnvFile is read before resolving the environment, if present.
const DefaultEnvFile = ".env"

type Config struct {
	Database   DatabaseConfig   `mapstructure:"database" yaml:"database"`
	Pump       PumpConfig       `mapstructure:"pump" yaml:"pump"`
	Data       DataConfig       `mapstructure:"data" yaml:"data"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
	Monitoring MonitoringConfig `mapstructure:"monitoring" yaml:"monitoring"`
	Ingest     IngestConfig     `mapstructure:"ingest" yaml:"ingest"`
	Bootstrap  RetryConfig      `mapstructure:"bootstrap" yaml:"bootstrap"`
	Sysmon     SysmonConfig     `mapstructure:"sysmon" yaml:"sysmon"`
}

type DatabaseConfig struct {
	Name     string `mapstructure:"name" yaml:"name"`
	User     string `mapstructure:"user" yaml:"user"`
	Password string `mapstructure:"password" yaml:"password"`
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	SSLMode  string `mapstructure:"sslmode" yaml:"sslmode"`
	Driver   string `mapstructure:"driver" yaml:"driver"`
	Table    string `mapstructure:"table" yaml:"table"`
}

type PumpConfig struct {
	ID string `mapstructure:"id" yaml:"id"`
}

type DataConfig struct {
	RetentionDays int `mapstructure:"retention_days" yaml:"retention_days"`
}

type LoggingConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
	Level  string `mapstructure:"level" yaml:"level"`
}

type MonitoringConfig struct {
	PrometheusPort int  `mapstructure:"prometheus_port" yaml:"prometheus_port"`
	HTTPPort       int  `mapstructure:"http_port" yaml:"http_port"`
	Debug          bool `mapstructure:"debug" yaml:"debug"`
}

type IngestConfig struct {
	MaxRetries       int           `mapstructure:"max_retries" yaml:"max_retries"`
	RetryDelay       time.Duration `mapstructure:"retry_delay" yaml:"retry_delay"`
	BaseDelay        time.Duration `mapstructure:"base_delay" yaml:"base_delay"`
	MaxDelay         time.Duration `mapstructure:"max_delay" yaml:"max_delay"`
	FailureThreshold int           `mapstructure:"failure_threshold" yaml:"failure_threshold"`
	ErrorPause       time.Duration `mapstructure:"error_pause" yaml:"error_pause"`
}

type RetryConfig struct {
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay" yaml:"retry_delay"`
}

type SysmonConfig struct {
	RefreshInterval time.Duration `mapstructure:"refresh_interval" yaml:"refresh_interval"`
	PollInterval    time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	DiskPath        string        `mapstructure:"disk_path" yaml:"disk_path"`
}

var defaults = map[string]any{
	"database.name":     "postgres",
	"database.user":     "postgres",
	"database.password": "postgres",
	"database.host":     "pump-monitoring-timescaledb",
	"database.port":     5432,
	"database.sslmode":  "disable",
	"database.driver":   "postgres",
	"database.table":    "pump_metrics",

	"pump.id":             "pump1",
	"data.retention_days": 30,

	"logging.format": "json",
	"logging.level":  "info",

	"monitoring.prometheus_port": 8000,
	"monitoring.http_port":       8080,
	"monitoring.debug":           false,

	"ingest.max_retries":       5,
	"ingest.retry_delay":       "5s",
	"ingest.base_delay":        "1s",
	"ingest.max_delay":         "30s",
	"ingest.failure_threshold": 3,
	"ingest.error_pause":       "5s",

	"bootstrap.max_retries": 5,
	"bootstrap.retry_delay": "5s",

	"sysmon.refresh_interval": "15s",
	"sysmon.poll_interval":    "1s",
	"sysmon.disk_path":        "/",
}

// legacyEnv maps environment names used by earlier deployments onto their
// current key. The current name wins when both are set.
var legacyEnv = map[string]string{
	"MONITORING__FLASK_PORT": "monitoring.http_port",
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "__"))
}

// Load resolves configuration from, in increasing precedence: built-in
// defaults, the optional YAML file at path, the .env file and the process
// environment. Environment keys use "__" for nesting, e.g. DATABASE__HOST.
func Load(path string) (*Config, error) {
	return load(path, DefaultEnvFile)
}

func load(path, envFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	for name, key := range legacyEnv {
		if err := v.BindEnv(key, envName(key), name); err != nil {
			return nil, fmt.Errorf("bind %s: %w", name, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := applyEnvFile(v, envFile); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnvFile layers .env entries below real environment variables without
// mutating the process environment.
func applyEnvFile(v *viper.Viper, envFile string) error {
	if envFile == "" {
		return nil
	}
	if _, err := os.Stat(envFile); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	env, err := gotenv.Read(envFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", envFile, err)
	}
	for name, val := range env {
		key, legacy := legacyEnv[name]
		if !legacy {
			key = strings.ToLower(strings.ReplaceAll(name, "__", "."))
		}
		if envSet(key) {
			continue
		}
		if _, current := env[envName(key)]; legacy && current {
			continue
		}
		v.Set(key, val)
	}
	return nil
}

// envSet reports whether the process environment sets key under its current
// or legacy name.
func envSet(key string) bool {
	if _, ok := os.LookupEnv(envName(key)); ok {
		return true
	}
	for name, k := range legacyEnv {
		if k != key {
			continue
		}
		if _, ok := os.LookupEnv(name); ok {
			return true
		}
	}
	return false
}

// ApplyDefaults fills zero values, so programmatic configs behave like
// loaded ones.
func (c *Config) ApplyDefaults() {
	if c.Database.Name == "" {
		c.Database.Name = "postgres"
	}
	if c.Database.User == "" {
		c.Database.User = "postgres"
	}
	if c.Database.Host == "" {
		c.Database.Host = "pump-monitoring-timescaledb"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Database.Table == "" {
		c.Database.Table = "pump_metrics"
	}
	if c.Pump.ID == "" {
		c.Pump.ID = "pump1"
	}
	if c.Data.RetentionDays == 0 {
		c.Data.RetentionDays = 30
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 8000
	}
	if c.Monitoring.HTTPPort == 0 {
		c.Monitoring.HTTPPort = 8080
	}
	if c.Ingest.MaxRetries == 0 {
		c.Ingest.MaxRetries = 5
	}
	if c.Ingest.RetryDelay == 0 {
		c.Ingest.RetryDelay = 5 * time.Second
	}
	if c.Ingest.BaseDelay == 0 {
		c.Ingest.BaseDelay = time.Second
	}
	if c.Ingest.MaxDelay == 0 {
		c.Ingest.MaxDelay = 30 * time.Second
	}
	if c.Ingest.FailureThreshold == 0 {
		c.Ingest.FailureThreshold = 3
	}
	if c.Ingest.ErrorPause == 0 {
		c.Ingest.ErrorPause = 5 * time.Second
	}
	if c.Bootstrap.MaxRetries == 0 {
		c.Bootstrap.MaxRetries = 5
	}
	if c.Bootstrap.RetryDelay == 0 {
		c.Bootstrap.RetryDelay = 5 * time.Second
	}
	if c.Sysmon.RefreshInterval == 0 {
		c.Sysmon.RefreshInterval = 15 * time.Second
	}
	if c.Sysmon.PollInterval == 0 {
		c.Sysmon.PollInterval = time.Second
	}
	if c.Sysmon.DiskPath == "" {
		c.Sysmon.DiskPath = "/"
	}
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "pgx":
	default:
		return fmt.Errorf("database.driver must be postgres or pgx, got %q", c.Database.Driver)
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("database.port out of range: %d", c.Database.Port)
	}
	if c.Data.RetentionDays < 1 {
		return fmt.Errorf("data.retention_days must be >= 1")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be json or text, got %q", c.Logging.Format)
	}
	if err := validPort("monitoring.prometheus_port", c.Monitoring.PrometheusPort); err != nil {
		return err
	}
	if err := validPort("monitoring.http_port", c.Monitoring.HTTPPort); err != nil {
		return err
	}
	if c.Monitoring.PrometheusPort == c.Monitoring.HTTPPort {
		return fmt.Errorf("monitoring.prometheus_port and monitoring.http_port must differ")
	}
	if c.Ingest.MaxRetries < 1 || c.Bootstrap.MaxRetries < 1 {
		return fmt.Errorf("max_retries must be >= 1")
	}
	if c.Ingest.FailureThreshold < 1 {
		return fmt.Errorf("ingest.failure_threshold must be >= 1")
	}
	if c.Ingest.BaseDelay <= 0 || c.Ingest.MaxDelay <= 0 {
		return fmt.Errorf("ingest.base_delay and ingest.max_delay must be > 0")
	}
	if c.Ingest.BaseDelay > c.Ingest.MaxDelay {
		return fmt.Errorf("ingest.base_delay %s exceeds ingest.max_delay %s", c.Ingest.BaseDelay, c.Ingest.MaxDelay)
	}
	if c.Ingest.RetryDelay < 0 || c.Ingest.ErrorPause < 0 || c.Bootstrap.RetryDelay < 0 {
		return fmt.Errorf("delays must not be negative")
	}
	return nil
}

func validPort(name string, port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("%s out of range: %d", name, port)
	}
	return nil
}

// DSN renders a postgres:// URL understood by both lib/pq and pgx.
func (c *Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     net.JoinHostPort(c.Database.Host, strconv.Itoa(c.Database.Port)),
		Path:     "/" + c.Database.Name,
		RawQuery: url.Values{"sslmode": []string{c.Database.SSLMode}}.Encode(),
	}
	return u.String()
}

func (c *Config) MetricsAddr() string { return fmt.Sprintf(":%d", c.Monitoring.PrometheusPort) }

func (c *Config) HTTPAddr() string { return fmt.Sprintf(":%d", c.Monitoring.HTTPPort) }

func (c *Config) StorePolicy() ports.RetryPolicy {
	return ports.RetryPolicy{MaxAttempts: c.Ingest.MaxRetries, Delay: c.Ingest.RetryDelay}
}

func (c *Config) BootstrapPolicy() ports.RetryPolicy {
	return ports.RetryPolicy{MaxAttempts: c.Bootstrap.MaxRetries, Delay: c.Bootstrap.RetryDelay}
}

func (c *Config) BackoffPolicy() ports.BackoffPolicy {
	return ports.BackoffPolicy{
		BaseDelay:        c.Ingest.BaseDelay,
		MaxDelay:         c.Ingest.MaxDelay,
		FailureThreshold: c.Ingest.FailureThreshold,
		ErrorPause:       c.Ingest.ErrorPause,
	}
}

// YAML renders the effective configuration with the password redacted.
func (c *Config) YAML() ([]byte, error) {
	redacted := *c
	if redacted.Database.Password != "" {
		redacted.Database.Password = "********"
	}
	return yaml.Marshal(&redacted)
}
