// Package config defines process configuration and its layered loading.
//
// Conventions:
// - New() returns a Config with defaults; Load layers file and env on top.
// - Errors returned from Load wrap this package's sentinels.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/contextbench/leaderboard/internal/domain/view"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// LogFile redirects logs to a file. The TUI defaults it so output does
	// not corrupt the terminal.
	LogFile string `koanf:"log_file"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatasetPath points at a results JSON file. Empty serves the bundled dataset.
	DatasetPath string `koanf:"dataset_path"`

	// AgentPrefix is prepended to model names in agent mode.
	AgentPrefix string `koanf:"agent_prefix"`

	// DefaultSystem is the initial system type: backbone or agent.
	DefaultSystem string `koanf:"default_system"`

	// DefaultMetric is the initial primary metric of the leaderboard.
	DefaultMetric string `koanf:"default_metric"`

	// ExportDir is where the export command writes its artifacts.
	ExportDir string `koanf:"export_dir"`

	// HTTP server timeouts in milliseconds.
	ReadTimeoutMS     int `koanf:"read_timeout_ms"`
	WriteTimeoutMS    int `koanf:"write_timeout_ms"`
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		AgentPrefix:       view.DefaultAgentPrefix,
		DefaultSystem:     string(view.Backbone),
		DefaultMetric:     view.ColPassAt1,
		ExportDir:         "dist",
		ReadTimeoutMS:     5_000,
		WriteTimeoutMS:    10_000,
		ShutdownTimeoutMS: 5_000,
	}
}

// Validate checks field values. Errors wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	if _, err := view.ParseSystem(c.DefaultSystem); err != nil {
		return fmt.Errorf("%w: default_system: %w", ErrInvalidConfig, err)
	}
	if _, err := view.ParseMetric(c.DefaultMetric); err != nil {
		return fmt.Errorf("%w: default_metric: %w", ErrInvalidConfig, err)
	}
	if c.ReadTimeoutMS <= 0 || c.WriteTimeoutMS <= 0 || c.ShutdownTimeoutMS <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	}
	return nil
}

// ReadTimeout returns the HTTP read timeout.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMS) * time.Millisecond
}

// WriteTimeout returns the HTTP write timeout.
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutMS) * time.Millisecond
}

// ShutdownTimeout bounds graceful shutdown.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}
