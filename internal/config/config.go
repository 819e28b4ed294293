// Package config loads the sparqlparam CLI configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/kyleconroy/sparqlparam/params"
)

// Config holds all CLI configuration.
type Config struct {
	// Output settings
	Output OutputConfig `yaml:"output"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Call limits
	Limits LimitsConfig `yaml:"limits"`

	// Default values for LIMIT/OFFSET placeholders, keyed by identifier.
	// Flags passed to the bind command take precedence.
	Pagination params.Pagination `yaml:"pagination"`
}

// OutputConfig configures how results are written.
type OutputConfig struct {
	Format string `yaml:"format"` // json, text
	Indent int    `yaml:"indent"` // spaces per level for JSON output, 0 for compact
}

// LoggingConfig configures diagnostics.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// LimitsConfig bounds a single engine call.
type LimitsConfig struct {
	Timeout string `yaml:"timeout"`
}

// ValidFormats lists the supported output formats.
var ValidFormats = []string{"text", "json"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format: "text",
			Indent: 0,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
		Limits: LimitsConfig{
			Timeout: "30s",
		},
	}
}

// Load loads configuration from a YAML file. An empty path or a missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if format := os.Getenv("SPARQLPARAM_FORMAT"); format != "" {
		c.Output.Format = format
	}
	if level := os.Getenv("SPARQLPARAM_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if timeout := os.Getenv("SPARQLPARAM_TIMEOUT"); timeout != "" {
		c.Limits.Timeout = timeout
	}
}

// GetTimeout returns the per-call timeout. Zero means no timeout.
func (c *Config) GetTimeout() time.Duration {
	if c.Limits.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Limits.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetLogLevel returns the configured log level.
func (c *Config) GetLogLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return zapcore.WarnLevel
	}
	return level
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validFormat := false
	for _, f := range ValidFormats {
		if c.Output.Format == f {
			validFormat = true
			break
		}
	}
	if !validFormat {
		return fmt.Errorf("invalid output format: %s (valid: %v)", c.Output.Format, ValidFormats)
	}

	if c.Output.Indent < 0 {
		return fmt.Errorf("invalid output indent: %d", c.Output.Indent)
	}

	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Limits.Timeout != "" {
		if _, err := time.ParseDuration(c.Limits.Timeout); err != nil {
			return fmt.Errorf("invalid timeout: %s", c.Limits.Timeout)
		}
	}

	return nil
}
