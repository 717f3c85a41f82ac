package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/locdist/pkg/columns"
	"github.com/ccollicutt/locdist/pkg/config"
	"github.com/ccollicutt/locdist/pkg/detector"
	"github.com/ccollicutt/locdist/pkg/pathcheck"
)

// ErrDiagnosticsFailed is returned by diagnose when at least one check fails.
var ErrDiagnosticsFailed = errors.New("diagnostics found errors")

// maxProblemDetails caps the malformed rows listed per file.
const maxProblemDetails = 10

// Diagnostic statuses.
const (
	StatusOK      = "ok"
	StatusWarning = "warning"
	StatusError   = "error"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	ConfigPath string
	Separator  string
	Quote      string
	Verbose    bool

	quoteSet bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <input_file>",
		Short: "Report every problem in an input file",
		Long: `Diagnose an input file or directory without computing a distance.

Unlike a normal run, which stops at the first bad row, diagnose reads every
row and reports:
- Input path existence and emptiness
- Configuration file problems (with --config)
- Whether the configured separator matches the file contents
- Every row with a missing, non-integer or extra field
- Webhook configuration (and reachability with -v)

Example:
  locdist diagnose input.txt
  locdist diagnose -c locdist.yaml -v inputs/`,
		Args: UsageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.quoteSet = cmd.Flags().Changed("quote")
			return runDiagnose(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML configuration file")
	cmd.Flags().StringVarP(&opts.Separator, "separator", "s", "", "Field separator (overrides config)")
	cmd.Flags().StringVar(&opts.Quote, "quote", config.DefaultQuote, "Quote character stripped from fields")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(cmd *cobra.Command, input string, opts *DiagnoseOptions) error {
	ctx := commandContext(cmd)
	w := cmd.OutOrStdout()
	results := []DiagnosticResult{}

	finish := func() error {
		if printDiagnostics(w, results, opts) > 0 {
			return ErrDiagnosticsFailed
		}
		return nil
	}

	cfg, result := checkConfig(ctx, opts)
	results = append(results, result)
	if result.Status == StatusError {
		return finish()
	}

	files, result := checkInputPath(input, cfg.Input.Extension)
	results = append(results, result)
	if result.Status == StatusError {
		return finish()
	}

	sep, result := checkSeparator(ctx, cfg, files[0])
	results = append(results, result)
	if result.Status == StatusError {
		return finish()
	}

	reader := columns.NewReader(
		columns.WithSeparator(sep),
		columns.WithQuote(cfg.Input.QuoteRune()),
	)
	rowResults, validRows := checkRows(ctx, reader, files)
	results = append(results, rowResults...)
	results = append(results, checkPairs(validRows))
	results = append(results, checkWebhooks(cfg, opts)...)

	return finish()
}

func checkConfig(ctx context.Context, opts *DiagnoseOptions) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{Check: "Config"}

	cfg, err := config.Load(ctx, opts.ConfigPath)
	if err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Failed to load config: %v", err)
		if strings.Contains(err.Error(), "yaml") {
			result.Suggests = []string{
				"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			}
		}
		return nil, result
	}

	if opts.Separator != "" {
		cfg.Input.Separator = opts.Separator
	}
	if opts.quoteSet {
		cfg.Input.Quote = opts.Quote
	}
	if err := config.Validate(cfg); err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Invalid options: %v", err)
		return nil, result
	}

	result.Status = StatusOK
	if opts.ConfigPath == "" {
		result.Message = "Using defaults (no config file)"
	} else {
		result.Message = fmt.Sprintf("Loaded %s", opts.ConfigPath)
	}
	result.Details = []string{
		fmt.Sprintf("Separator: %s", strconv.Quote(cfg.Input.Separator)),
		fmt.Sprintf("Quote: %s", strconv.Quote(cfg.Input.Quote)),
		fmt.Sprintf("Extension: %s", cfg.Input.Extension),
	}
	return cfg, result
}

func checkInputPath(input, ext string) ([]string, DiagnosticResult) {
	result := DiagnosticResult{Check: "Input Path"}

	files, err := pathcheck.ResolveInputs(input, ext)
	if err != nil {
		result.Status = StatusError
		result.Message = err.Error()
		switch {
		case errors.Is(err, pathcheck.ErrNotFound):
			result.Suggests = []string{"Check the file path is correct"}
		case errors.Is(err, pathcheck.ErrEmptyFile):
			result.Suggests = []string{"The input needs at least one row of two integers"}
		case errors.Is(err, pathcheck.ErrNoInputs):
			result.Suggests = []string{
				fmt.Sprintf("Only *%s files are read from directories", ext),
				"Set input.extension in the config file to read other files",
			}
		}
		return nil, result
	}

	result.Status = StatusOK
	result.Message = fmt.Sprintf("%d file(s) to read", len(files))
	result.Details = files
	return files, result
}

// checkSeparator compares the configured separator with the one detected
// from the file and returns the separator to read with.
func checkSeparator(ctx context.Context, cfg *config.Config, path string) (string, DiagnosticResult) {
	result := DiagnosticResult{Check: "Separator"}
	configured := cfg.Input.Separator

	detection, err := detector.New(detector.WithQuote(cfg.Input.QuoteRune())).DetectFromFile(ctx, path)
	if err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Cannot sample %s: %v", path, err)
		return "", result
	}

	best := detection.BestMatch()
	switch {
	case best == nil && configured == columns.Auto:
		result.Status = StatusError
		result.Message = "No separator detected and separator is \"auto\""
		result.Suggests = []string{"Every row needs exactly two integer fields"}
		return "", result
	case best == nil:
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("No separator matched the sample; reading with %s", strconv.Quote(configured))
		return configured, result
	case configured == columns.Auto:
		result.Status = StatusOK
		result.Message = fmt.Sprintf("Detected %s (%.0f%% of sampled lines)", best.Separator.Name, best.Confidence*100)
		return best.Separator.Value, result
	case best.Separator.Value != configured:
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("Configured %s but the file looks %s-separated",
			strconv.Quote(configured), strings.ToLower(best.Separator.Name))
		result.Suggests = []string{
			fmt.Sprintf("Try --separator %s", strconv.Quote(best.Separator.Value)),
			"Or use --separator auto",
		}
		return configured, result
	}

	result.Status = StatusOK
	result.Message = fmt.Sprintf("%s matches the file (%.0f%% of sampled lines)", best.Separator.Name, best.Confidence*100)
	if detection.Note != "" {
		result.Details = []string{detection.Note}
	}
	return configured, result
}

func checkRows(ctx context.Context, reader *columns.Reader, files []string) ([]DiagnosticResult, int) {
	results := make([]DiagnosticResult, 0, len(files))
	validRows := 0

	for _, path := range files {
		result := DiagnosticResult{Check: fmt.Sprintf("Rows: %s", path)}

		ins, err := reader.Inspect(ctx, path)
		if err != nil {
			result.Status = StatusError
			result.Message = fmt.Sprintf("Cannot read file: %v", err)
			results = append(results, result)
			continue
		}
		validRows += ins.ValidRows

		if len(ins.Problems) == 0 {
			result.Status = StatusOK
			result.Message = fmt.Sprintf("%d rows parsed", ins.Rows)
			results = append(results, result)
			continue
		}

		result.Status = StatusError
		result.Message = fmt.Sprintf("%d of %d rows malformed", len(ins.Problems), ins.Rows)
		for i, p := range ins.Problems {
			if i == maxProblemDetails {
				result.Details = append(result.Details,
					fmt.Sprintf("... and %d more", len(ins.Problems)-maxProblemDetails))
				break
			}
			result.Details = append(result.Details, p.Error())
		}
		if hasTooManyFields(ins.Problems) {
			result.Suggests = append(result.Suggests, "Rows with extra fields may mean the separator is wrong")
		}
		results = append(results, result)
	}

	return results, validRows
}

func hasTooManyFields(problems []*columns.ParseError) bool {
	for _, p := range problems {
		if errors.Is(p, columns.ErrTooManyFields) {
			return true
		}
	}
	return false
}

func checkPairs(validRows int) DiagnosticResult {
	if validRows == 0 {
		return DiagnosticResult{
			Check:   "Pairs",
			Status:  StatusError,
			Message: columns.ErrNoData.Error(),
		}
	}
	return DiagnosticResult{
		Check:   "Pairs",
		Status:  StatusOK,
		Message: fmt.Sprintf("%d pairs available", validRows),
	}
}

func checkWebhooks(cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	if len(cfg.Webhooks) == 0 {
		if opts.Verbose {
			results = append(results, DiagnosticResult{
				Check:   "Webhooks",
				Status:  StatusOK,
				Message: "No webhooks configured (optional)",
			})
		}
		return results
	}

	for _, wh := range cfg.Webhooks {
		result := DiagnosticResult{
			Check:   fmt.Sprintf("Webhook: %s", wh.DisplayName()),
			Status:  StatusOK,
			Message: fmt.Sprintf("Trigger: %s", wh.Trigger),
		}

		result.Details = []string{
			fmt.Sprintf("URL: %s", wh.URL),
			fmt.Sprintf("Timeout: %s", wh.Timeout),
		}
		if wh.Token != "" {
			result.Details = append(result.Details, "Token: configured")
		}
		if wh.Trigger == config.WebhookTriggerNever {
			result.Status = StatusWarning
			result.Message = "Trigger is never; this webhook will not fire"
		}
		results = append(results, result)

		if opts.Verbose {
			conn := checkWebhookConnectivity(wh)
			conn.Check = fmt.Sprintf("Webhook Connectivity: %s", wh.DisplayName())
			results = append(results, conn)
		}
	}

	return results
}

func checkWebhookConnectivity(wh config.WebhookConfig) DiagnosticResult {
	result := DiagnosticResult{}

	client := &http.Client{Timeout: 5 * time.Second}

	req, err := http.NewRequest(http.MethodHead, wh.URL, nil)
	if err != nil {
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("Cannot create request: %v", err)
		return result
	}
	if wh.Token != "" {
		req.Header.Set("Authorization", "Bearer "+wh.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("Cannot connect: %v", err)
		result.Suggests = []string{
			"Check if the webhook URL is correct",
			"Verify network connectivity",
		}
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.Status = StatusOK
		result.Message = fmt.Sprintf("Reachable (status %d)", resp.StatusCode)
	} else {
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("Reachable but returned status %d", resp.StatusCode)
		result.Suggests = []string{
			"The endpoint may only accept POST (it will still work for real sends)",
			"Check authentication if using a token",
		}
	}

	return result
}

// printDiagnostics writes every result followed by a summary and returns
// the number of failed checks.
func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) int {
	fmt.Fprintln(w, "=== locdist Input Diagnostics ===")
	fmt.Fprintln(w)

	okCount, warnCount, errCount := 0, 0, 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case StatusOK:
			icon = "PASS"
			okCount++
		case StatusWarning:
			icon = "WARN"
			warnCount++
		case StatusError:
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != StatusOK {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	switch {
	case errCount > 0:
		fmt.Fprintln(w, "\nFix the errors above before computing a distance.")
	case warnCount > 0:
		fmt.Fprintln(w, "\nInput is usable but has warnings.")
	default:
		fmt.Fprintln(w, "\nInput looks good!")
	}

	return errCount
}
