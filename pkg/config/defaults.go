package config

import (
	"os"
	"time"

	"github.com/ccollicutt/locdist/pkg/columns"
)

// Default values for configuration.
const (
	DefaultSeparator      = columns.Tab
	DefaultQuote          = "'"
	DefaultExtension      = ".txt"
	DefaultOutputFormat   = OutputFormatText
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvSeparator = "LOCDIST_SEPARATOR"
	EnvOutput    = "LOCDIST_OUTPUT"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Separator: DefaultSeparator,
			Quote:     DefaultQuote,
			Extension: DefaultExtension,
		},
		Output: OutputConfig{
			Format: DefaultOutputFormat,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if sep := os.Getenv(EnvSeparator); sep != "" {
		c.Input.Separator = sep
	}
	if format := os.Getenv(EnvOutput); format != "" {
		c.Output.Format = OutputFormat(format)
	}
}
