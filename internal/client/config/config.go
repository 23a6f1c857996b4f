package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds runtime settings for the field agent client.
//
// Fields:
//   - ServerBaseURL: base URL of the enrollment backend REST API.
//   - DatabasePath: SQLite file holding the local durable store.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - AutoSyncInterval: period of background sync passes (0 disables the timer;
//     passes still run on offline → online transitions).
//   - RequestTimeout: upper bound for a single backend call.
//   - LogLevel, LogFormat: slog level (debug/info/warn/error) and handler (text/json).
//   - MetricsAddr: listen address for the Prometheus endpoint; empty disables it.
type Config struct {
	ServerBaseURL       string
	DatabasePath        string
	OnlineCheckInterval time.Duration
	AutoSyncInterval    time.Duration
	RequestTimeout      time.Duration
	LogLevel            string
	LogFormat           string
	MetricsAddr         string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080/api"
	c.DatabasePath = "fieldsync.db"
	c.OnlineCheckInterval = 5 * time.Second
	c.AutoSyncInterval = 15 * time.Minute
	c.RequestTimeout = 30 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.MetricsAddr = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment (and an optional dotenv file) and
// command-line flags. Later sources take precedence over earlier ones.
// Panics when the merged settings fail Validate.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}

// ErrInvalidConfig is wrapped by Validate errors.
var ErrInvalidConfig = errors.New("invalid config")

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("%w: online check interval must be positive, got %s", ErrInvalidConfig, c.OnlineCheckInterval)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive, got %s", ErrInvalidConfig, c.RequestTimeout)
	}
	if c.AutoSyncInterval < 0 {
		return fmt.Errorf("%w: auto sync interval must not be negative, got %s", ErrInvalidConfig, c.AutoSyncInterval)
	}
	return nil
}
