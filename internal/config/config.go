// Package config loads storebridge settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the CLI configuration loaded from environment variables.
type Config struct {
	// Logging
	LogLevel  string `env:"STOREBRIDGE_LOG_LEVEL" envDefault:"info"` // debug, info, warn, error
	LogFormat string `env:"STOREBRIDGE_LOG_FORMAT" envDefault:"console"`

	// Accessor
	SnapshotTimeout time.Duration `env:"STOREBRIDGE_SNAPSHOT_TIMEOUT" envDefault:"0s"`

	// Reference host
	StateDB   string `env:"STOREBRIDGE_STATE_DB"`
	SearchDB  string `env:"STOREBRIDGE_SEARCH_DB" envDefault:":memory:"`
	JWTSecret string `env:"STOREBRIDGE_JWT_SECRET"`
	DemoToken string `env:"STOREBRIDGE_DEMO_TOKEN"`

	// AG-UI server
	AGUIAddr string `env:"STOREBRIDGE_AGUI_ADDR" envDefault:":8000"`

	// MCP server
	MCPName    string `env:"STOREBRIDGE_MCP_NAME" envDefault:"storebridge"`
	MCPVersion string `env:"STOREBRIDGE_MCP_VERSION" envDefault:"0.1.0"`
}

// Load reads a .env file if present, parses the environment and validates
// the result.
func Load(files ...string) (*Config, error) {
	_ = godotenv.Load(files...) // a missing .env is fine

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("STOREBRIDGE_LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("STOREBRIDGE_LOG_FORMAT must be json or console, got %q", c.LogFormat))
	}
	if c.SnapshotTimeout < 0 {
		errs = append(errs, fmt.Errorf("STOREBRIDGE_SNAPSHOT_TIMEOUT must not be negative"))
	}
	if c.SearchDB == "" {
		errs = append(errs, fmt.Errorf("STOREBRIDGE_SEARCH_DB is required"))
	}
	if c.AGUIAddr == "" {
		errs = append(errs, fmt.Errorf("STOREBRIDGE_AGUI_ADDR is required"))
	}
	if c.MCPName == "" {
		errs = append(errs, fmt.Errorf("STOREBRIDGE_MCP_NAME is required"))
	}
	return errors.Join(errs...)
}

// Secret returns the JWT secret as bytes. An unset secret yields a fixed
// development key, so the demo works without configuration.
func (c *Config) Secret() []byte {
	if c.JWTSecret == "" {
		return []byte("storebridge-dev-secret")
	}
	return []byte(c.JWTSecret)
}
