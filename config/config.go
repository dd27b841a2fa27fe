// Package config loads connection settings from a YAML file with
// environment overrides.
//
// Precedence, lowest first: built-in defaults, the YAML file, environment
// variables. Command-line flags are applied by the caller on top.
//
//	engine: postgres
//	dsn: postgres://app@localhost/app
//	quote_identifiers: true
//	slow_query_threshold: 250ms
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/bawdo/quarry/visitors"
)

// ErrInvalid reports a configuration value that fails validation.
var ErrInvalid = errors.New("invalid configuration")

// Environment variables read by ApplyEnv.
const (
	EnvEngine           = "QUARRY_ENGINE"
	EnvDSN              = "DATABASE_URL"
	EnvLogLevel         = "QUARRY_LOG_LEVEL"
	EnvQuoteIdentifiers = "QUARRY_QUOTE_IDENTIFIERS"
	EnvSlowQuery        = "QUARRY_SLOW_QUERY_THRESHOLD"
)

// Config holds the settings needed to open a connection and render SQL.
type Config struct {
	Engine             string        `yaml:"engine"`
	DSN                string        `yaml:"dsn"`
	QuoteIdentifiers   bool          `yaml:"quote_identifiers"`
	AllowEmptyIn       bool          `yaml:"allow_empty_in"`
	LogQueries         bool          `yaml:"log_queries"`
	LogLevel           string        `yaml:"log_level"`
	SlowQueryThreshold time.Duration `yaml:"slow_query_threshold"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		QuoteIdentifiers:   true,
		LogLevel:           "info",
		SlowQueryThreshold: 500 * time.Millisecond,
	}
}

// Load reads path over the defaults and applies the process environment.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		//nolint:gosec // G304: path is supplied by the operator.
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := cfg.Parse(data); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse overlays a YAML document onto cfg. Keys absent from the document
// keep their current values.
func (c *Config) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from the environment. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvEngine); ok && v != "" {
		c.Engine = v
	}
	if v, ok := lookup(EnvDSN); ok && v != "" {
		c.DSN = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvQuoteIdentifiers); ok && v != "" {
		b, err := cast.ToBoolE(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, EnvQuoteIdentifiers, err)
		}
		c.QuoteIdentifiers = b
	}
	if v, ok := lookup(EnvSlowQuery); ok && v != "" {
		d, err := cast.ToDurationE(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, EnvSlowQuery, err)
		}
		c.SlowQueryThreshold = d
	}
	return nil
}

// Validate normalizes the engine name and checks every field.
func (c *Config) Validate() error {
	if c.Engine == "" {
		return fmt.Errorf("%w: engine is required", ErrInvalid)
	}
	engine := visitors.Normalize(c.Engine)
	switch engine {
	case visitors.Postgres, visitors.MySQL, visitors.SQLite, visitors.SQLServer:
		c.Engine = engine
	default:
		return fmt.Errorf("%w: unknown engine %q", ErrInvalid, c.Engine)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.SlowQueryThreshold < 0 {
		return fmt.Errorf("%w: slow_query_threshold must not be negative", ErrInvalid)
	}
	if c.MaxOpenConns < 0 {
		return fmt.Errorf("%w: max_open_conns must not be negative", ErrInvalid)
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%w: log_level: %v", ErrInvalid, err)
	}
	return lvl, nil
}

// VisitorOptions returns the rendering options implied by the config.
func (c *Config) VisitorOptions() []visitors.Option {
	opts := []visitors.Option{visitors.WithQuoting(c.QuoteIdentifiers)}
	if c.AllowEmptyIn {
		opts = append(opts, visitors.WithAllowEmptyIn())
	}
	return opts
}
