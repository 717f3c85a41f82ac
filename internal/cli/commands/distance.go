package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ccollicutt/locdist/internal/logging"
	"github.com/ccollicutt/locdist/pkg/columns"
	"github.com/ccollicutt/locdist/pkg/config"
	"github.com/ccollicutt/locdist/pkg/detector"
	"github.com/ccollicutt/locdist/pkg/distance"
	"github.com/ccollicutt/locdist/pkg/output"
	"github.com/ccollicutt/locdist/pkg/pathcheck"
	"github.com/ccollicutt/locdist/pkg/webhook"
)

// ErrSeparatorNotDetected is returned when --separator auto finds no
// separator that splits the input into two integer columns.
var ErrSeparatorNotDetected = errors.New("could not detect a field separator")

// DistanceOptions holds command-line options for a distance run.
type DistanceOptions struct {
	ConfigPath string
	Separator  string
	Quote      string
	Output     string
	Verbose    bool
	Quiet      bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// BindDistanceFlags registers the distance run flags on fs.
func BindDistanceFlags(fs *pflag.FlagSet, opts *DistanceOptions) {
	fs.StringVarP(&opts.ConfigPath, "config", "c", "", "YAML configuration file")
	fs.StringVarP(&opts.Separator, "separator", "s", config.DefaultSeparator,
		`Field separator (any string, "whitespace" or "auto")`)
	fs.StringVar(&opts.Quote, "quote", config.DefaultQuote, "Quote character stripped from fields (empty disables)")
	fs.StringVarP(&opts.Output, "output", "o", string(config.DefaultOutputFormat), "Output format (text|json)")
	fs.BoolVarP(&opts.Verbose, "verbose", "v", false, "Print the per-pair breakdown")
	fs.BoolVarP(&opts.Quiet, "quiet", "q", false, "Print only the summed distance")

	fs.StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	fs.StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	fs.StringVar(&opts.WebhookTrigger, "webhook-trigger", string(config.WebhookTriggerOnNonzero),
		"When to fire webhook (on_nonzero|always|never)")
}

// RunDistance validates input, reads both columns, sums their distance
// and writes the report.
func RunDistance(cmd *cobra.Command, input string, opts *DistanceOptions) error {
	started := time.Now()
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	cfg, err := loadRunConfig(ctx, cmd.Flags(), opts)
	if err != nil {
		return err
	}

	files, err := pathcheck.ResolveInputs(input, cfg.Input.Extension)
	if err != nil {
		return err
	}
	logger.DebugContext(ctx, "resolved inputs", "input", input, "files", len(files))

	sep, err := resolveSeparator(ctx, cfg, files[0])
	if err != nil {
		return err
	}

	reader := columns.NewReader(
		columns.WithSeparator(sep),
		columns.WithQuote(cfg.Input.QuoteRune()),
	)
	pair, err := reader.ReadAll(ctx, files)
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}

	total, err := distance.Sum(pair.Left, pair.Right)
	if err != nil {
		return err
	}

	report := output.NewReport(input, sep, pair, total, started)
	if cfg.Output.Verbose {
		// Lengths already matched in Sum.
		report.Pairs, _ = distance.Pairs(pair.Left, pair.Right)
	}
	logger.InfoContext(ctx, "computed distance",
		"distance", total, "pairs", report.Summary.Pairs, "run_id", report.Metadata.RunID)

	formatter, err := createFormatter(cfg.Output)
	if err != nil {
		return usageError(err)
	}
	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	sendWebhooks(ctx, cfg, report, cmd.ErrOrStderr())

	return nil
}

// loadRunConfig loads the configuration file, then applies every flag the
// user set explicitly on top of it.
func loadRunConfig(ctx context.Context, fs *pflag.FlagSet, opts *DistanceOptions) (*config.Config, error) {
	cfg, err := config.Load(ctx, opts.ConfigPath)
	if err != nil {
		return nil, usageError(fmt.Errorf("loading config: %w", err))
	}

	if fs.Changed("separator") {
		cfg.Input.Separator = opts.Separator
	}
	if fs.Changed("quote") {
		cfg.Input.Quote = opts.Quote
	}
	if fs.Changed("output") {
		cfg.Output.Format = config.OutputFormat(opts.Output)
	}
	if fs.Changed("verbose") {
		cfg.Output.Verbose = opts.Verbose
	}
	if fs.Changed("quiet") {
		cfg.Output.Quiet = opts.Quiet
	}
	cfg.Webhooks = collectWebhooks(cfg, opts)

	if err := config.Validate(cfg); err != nil {
		return nil, usageError(fmt.Errorf("invalid options: %w", err))
	}

	return cfg, nil
}

// resolveSeparator returns the configured separator, detecting it from the
// first input file when it is "auto".
func resolveSeparator(ctx context.Context, cfg *config.Config, path string) (string, error) {
	if cfg.Input.Separator != columns.Auto {
		return cfg.Input.Separator, nil
	}

	result, err := detector.New(detector.WithQuote(cfg.Input.QuoteRune())).DetectFromFile(ctx, path)
	if err != nil {
		return "", fmt.Errorf("detecting separator: %w", err)
	}

	best := result.BestMatch()
	if best == nil {
		return "", fmt.Errorf("%w in %s", ErrSeparatorNotDetected, path)
	}

	logging.FromContext(ctx).InfoContext(ctx, "detected separator",
		"separator", best.Separator.Name, "confidence", best.Confidence)
	return best.Separator.Value, nil
}

func createFormatter(out config.OutputConfig) (output.Formatter, error) {
	formatOpts := output.FormatOptions{
		Verbose: out.Verbose,
		Quiet:   out.Quiet,
	}

	switch out.Format {
	case config.OutputFormatText:
		return output.NewTextFormatter(formatOpts), nil
	case config.OutputFormatJSON:
		return output.NewJSONFormatter(formatOpts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", out.Format)
	}
}

// sendWebhooks sends the report to every webhook whose trigger matches.
// Failures are reported on w but never fail the run.
func sendWebhooks(ctx context.Context, cfg *config.Config, report *output.Report, w io.Writer) {
	var targets []webhook.Target
	for _, wh := range cfg.Webhooks {
		if !shouldFireWebhook(wh.Trigger, report.NonZero()) {
			continue
		}
		targets = append(targets, webhook.Target{
			Name:    wh.DisplayName(),
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})
	}

	if len(targets) == 0 {
		return
	}

	client := webhook.NewClient(webhook.WithLogger(logging.FromContext(ctx)))
	for _, resp := range client.Dispatch(ctx, report, targets) {
		if resp.Success() {
			fmt.Fprintf(w, "Webhook %s: sent (%d, %s)\n", resp.Target, resp.StatusCode, resp.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(w, "Webhook %s: failed (%v)\n", resp.Target, resp.Error)
		}
	}
}

// collectWebhooks merges config file webhooks with the command-line webhook.
func collectWebhooks(cfg *config.Config, opts *DistanceOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: config.WebhookTrigger(opts.WebhookTrigger),
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}

// shouldFireWebhook reports whether a webhook with the given trigger fires
// for a run whose distance is (or is not) non-zero.
func shouldFireWebhook(trigger config.WebhookTrigger, nonZero bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	default:
		return nonZero
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
