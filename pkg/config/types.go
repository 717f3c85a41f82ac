// Package config provides configuration loading and validation for locdist.
package config

import (
	"time"
	"unicode/utf8"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	Input    InputConfig     `yaml:"input"`
	Output   OutputConfig    `yaml:"output"`
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// InputConfig defines how input files are parsed.
type InputConfig struct {
	// Separator splits the two fields of a row. "whitespace" splits on runs
	// of blanks and "auto" detects the separator from the file contents.
	Separator string `yaml:"separator"`

	// Quote is a single character stripped from around field values.
	// Empty disables quote stripping.
	Quote string `yaml:"quote"`

	// Extension selects which files are read when the input is a directory.
	Extension string `yaml:"extension"`
}

// QuoteRune returns the quote character, or 0 when quoting is disabled.
func (i *InputConfig) QuoteRune() rune {
	if i.Quote == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(i.Quote)
	return r
}

// OutputFormat selects the report renderer.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

// OutputConfig controls how the result is reported.
type OutputConfig struct {
	Format  OutputFormat `yaml:"format"`
	Verbose bool         `yaml:"verbose,omitempty"`
	Quiet   bool         `yaml:"quiet,omitempty"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnNonzero fires only when the summed distance is non-zero (default).
	WebhookTriggerOnNonzero WebhookTrigger = "on_nonzero"
	// WebhookTriggerAlways fires after every run.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending results.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_nonzero" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// DisplayName returns Name, falling back to the URL.
func (w *WebhookConfig) DisplayName() string {
	if w.Name != "" {
		return w.Name
	}
	return w.URL
}
