package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/locdist/pkg/columns"
)

// Load reads and validates a configuration file. An empty path yields the
// default configuration with environment overrides applied.
func Load(_ context.Context, path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors and fills in defaults.
// Every problem found is reported, not just the first.
func Validate(cfg *Config) error {
	var merr *multierror.Error

	if err := validateInput(&cfg.Input); err != nil {
		merr = multierror.Append(merr, fmt.Errorf("input: %w", err))
	}

	for _, err := range validateOutput(&cfg.Output) {
		merr = multierror.Append(merr, fmt.Errorf("output: %w", err))
	}

	// Webhooks are optional, but validate if present
	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			merr = multierror.Append(merr,
				fmt.Errorf("webhooks[%d] (%s): %w", i, cfg.Webhooks[i].DisplayName(), err))
		}
	}

	return merr.ErrorOrNil()
}

func validateInput(in *InputConfig) error {
	if in.Separator == "" {
		in.Separator = DefaultSeparator
	}

	if utf8.RuneCountInString(in.Quote) > 1 {
		return fmt.Errorf("quote must be a single character, got %q", in.Quote)
	}

	if in.Quote != "" && !isSeparatorKeyword(in.Separator) && strings.Contains(in.Separator, in.Quote) {
		return fmt.Errorf("quote %q must not appear in separator %q", in.Quote, in.Separator)
	}

	if in.Extension == "" {
		in.Extension = DefaultExtension
	}

	return nil
}

// isSeparatorKeyword reports whether sep names a splitting mode rather than
// the literal separator text.
func isSeparatorKeyword(sep string) bool {
	return sep == columns.Whitespace || sep == columns.Auto
}

func validateOutput(out *OutputConfig) []error {
	var errs []error

	if out.Format == "" {
		out.Format = DefaultOutputFormat
	}

	switch out.Format {
	case OutputFormatText, OutputFormatJSON:
	default:
		errs = append(errs, fmt.Errorf("invalid format %q (must be text or json)", out.Format))
	}

	if out.Verbose && out.Quiet {
		errs = append(errs, errors.New("verbose and quiet are mutually exclusive"))
	}

	return errs
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	wh.Token = expandEnvVar(wh.Token)

	if wh.Trigger != "" {
		switch wh.Trigger {
		case WebhookTriggerOnNonzero, WebhookTriggerAlways, WebhookTriggerNever:
		default:
			return fmt.Errorf("invalid trigger %q (must be on_nonzero, always, or never)", wh.Trigger)
		}
	} else {
		wh.Trigger = WebhookTriggerOnNonzero
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}

	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		return os.Getenv(s[1:])
	}

	return s
}
