// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers a YAML file and the environment on top of the defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Storage drivers understood by the repository package.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// DefaultInstruction is the system instruction used when a caller sends none.
const DefaultInstruction = "You are a english professor. Answer to the point. No need to explain the word."

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// DBDriver selects the storage engine: sqlite3 or postgres.
	DBDriver string `koanf:"db_driver"`

	// DBDSN is the driver specific data source name.
	DBDSN string `koanf:"db_dsn"`

	// DBMaxOpenConns caps the connection pool. Ignored for sqlite3.
	DBMaxOpenConns int `koanf:"db_max_open_conns"`

	// GeminiAPIKey authenticates the generative model client.
	GeminiAPIKey string `koanf:"gemini_api_key"`

	// GeminiModel names the model used for answers.
	GeminiModel string `koanf:"gemini_model"`

	// AITimeoutMS bounds a single model call.
	AITimeoutMS int `koanf:"ai_timeout_ms"`

	// DefaultInstruction replaces an empty instruction on AI requests.
	DefaultInstruction string `koanf:"default_instruction"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":8000",
		DBDriver:           DriverSQLite,
		DBDSN:              "data/wordboard.db",
		DBMaxOpenConns:     10,
		GeminiModel:        "gemini-2.5-flash-lite",
		AITimeoutMS:        30_000,
		DefaultInstruction: DefaultInstruction,
	}
}

// AITimeout returns AITimeoutMS as a duration.
func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AITimeoutMS) * time.Millisecond
}

// Validate checks the fields the service cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("%w: unsupported db_driver %q", ErrInvalidConfig, c.DBDriver)
	}
	if strings.TrimSpace(c.DBDSN) == "" {
		return fmt.Errorf("%w: db_dsn must not be empty", ErrInvalidConfig)
	}
	if c.AITimeoutMS <= 0 {
		return fmt.Errorf("%w: ai_timeout_ms must be positive", ErrInvalidConfig)
	}
	return nil
}
