package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/locdist/pkg/config"
	"github.com/ccollicutt/locdist/pkg/detector"
	"github.com/ccollicutt/locdist/pkg/pathcheck"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	Quote       string
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <input_file>",
		Short: "Detect the field separator of an input file",
		Long: `Analyze an input file to detect the separator between its two columns.

Samples lines from the file and tries each known separator, scoring it by the
fraction of lines that split into exactly two integers.

Optionally generates a starter config file with --write-config.

Supports:
  - Tab
  - Comma, semicolon and pipe
  - Runs of spaces ("whitespace")

Example:
  locdist detect input.txt
  locdist detect --sample 500 input.txt
  locdist detect --write-config locdist.yaml input.txt`,
		Args: UsageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 100, "Number of lines to sample")
	cmd.Flags().StringVar(&opts.Quote, "quote", config.DefaultQuote, "Quote character stripped from fields")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show every matching separator, not just the best")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	inputFile := args[0]
	ctx := commandContext(cmd)
	w := cmd.OutOrStdout()

	if opts.Output != "text" && opts.Output != "json" {
		return usageErrorf("unknown output format %q (use text or json)", opts.Output)
	}

	if utf8.RuneCountInString(opts.Quote) > 1 {
		return usageErrorf("quote must be a single character, got %q", opts.Quote)
	}
	quote := config.InputConfig{Quote: opts.Quote}

	validated, err := pathcheck.Validate(inputFile)
	if err != nil {
		return err
	}
	if pathcheck.IsDir(validated) {
		return usageErrorf("detect needs a file, got directory %s", inputFile)
	}

	d := detector.New(
		detector.WithSampleSize(opts.SampleSize),
		detector.WithQuote(quote.QuoteRune()),
	)

	result, err := d.DetectFromFile(ctx, inputFile)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	if opts.WriteConfig != "" {
		if err := writeStarterConfig(w, result, opts); err != nil {
			return err
		}
	}

	if opts.Output == "json" {
		return outputDetectJSON(w, result, inputFile, opts)
	}
	return outputDetectText(w, result, inputFile, opts)
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, inputFile string, opts *DetectOptions) error {
	fmt.Fprintln(w, "=== Separator Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", inputFile)
	fmt.Fprintf(w, "Lines sampled: %d\n", result.SampledLines)
	fmt.Fprintf(w, "Lines parsed: %d\n", result.ParsedLines)
	fmt.Fprintln(w)

	if !result.HasMatch() {
		fmt.Fprintln(w, "No separator detected.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: every row needs exactly two integer fields.")
		fmt.Fprintln(w, "Run 'locdist diagnose' on the file to see which rows fail.")
		return nil
	}

	best := result.BestMatch()
	fmt.Fprintf(w, "Detected Separator: %s\n", best.Separator.Name)
	fmt.Fprintf(w, "Confidence: %.1f%% (%d/%d lines matched)\n",
		best.Confidence*100, best.MatchCount, result.SampledLines)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sample match:\n  %s\n", strconv.Quote(best.SampleLine))
	fmt.Fprintf(w, "Parsed as: %d, %d\n", best.Left, best.Right)
	fmt.Fprintln(w)

	if result.Note != "" {
		fmt.Fprintf(w, "Note: %s\n", result.Note)
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "--- Configuration snippet (copy to your config file) ---")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "input:")
	fmt.Fprintf(w, "  separator: %s\n", strconv.Quote(best.Separator.Value))
	fmt.Fprintln(w)

	if opts.ShowAll && len(result.Matches) > 1 {
		fmt.Fprintln(w, "--- Alternative separators detected ---")
		for i, m := range result.Matches[1:] {
			fmt.Fprintf(w, "%d. %s (%.1f%% confidence)\n", i+2, m.Separator.Name, m.Confidence*100)
		}
		fmt.Fprintln(w)
	}

	return nil
}

// JSONMatch represents a separator match in JSON output.
type JSONMatch struct {
	Name       string  `json:"name"`
	Separator  string  `json:"separator"`
	Confidence float64 `json:"confidence"`
	MatchCount int     `json:"match_count"`
	SampleLine string  `json:"sample_line"`
}

// JSONOutput represents the full JSON output of detect.
type JSONOutput struct {
	File         string      `json:"file"`
	Matches      []JSONMatch `json:"matches"`
	SampledLines int         `json:"sampled_lines"`
	ParsedLines  int         `json:"parsed_lines"`
	Note         string      `json:"note,omitempty"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, inputFile string, opts *DetectOptions) error {
	out := JSONOutput{
		File:         inputFile,
		SampledLines: result.SampledLines,
		ParsedLines:  result.ParsedLines,
		Note:         result.Note,
		Matches:      make([]JSONMatch, 0),
	}

	matches := result.Matches
	if !opts.ShowAll && len(matches) > 1 {
		matches = matches[:1]
	}

	for _, m := range matches {
		out.Matches = append(out.Matches, JSONMatch{
			Name:       m.Separator.Name,
			Separator:  m.Separator.Value,
			Confidence: m.Confidence,
			MatchCount: m.MatchCount,
			SampleLine: m.SampleLine,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// writeStarterConfig writes a config file using the detected separator.
// An existing file is never overwritten.
func writeStarterConfig(w io.Writer, result *detector.DetectionResult, opts *DetectOptions) error {
	if _, err := os.Stat(opts.WriteConfig); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", opts.WriteConfig)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking config file: %w", err)
	}

	if !result.HasMatch() {
		return errors.New("cannot generate config: no separator detected")
	}

	data, err := generateStarterConfig(result.BestMatch(), opts.Quote)
	if err != nil {
		return err
	}

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(opts.WriteConfig, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(w, "Wrote starter config to: %s\n\n", opts.WriteConfig)
	return nil
}

func generateStarterConfig(match *detector.SeparatorMatch, quote string) ([]byte, error) {
	cfg := config.DefaultConfig()
	cfg.Input.Separator = match.Separator.Value
	cfg.Input.Quote = quote

	body, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}

	header := fmt.Sprintf(`# locdist configuration
# Generated by: locdist detect
# Detected separator: %s (%.0f%% confidence)
#
# Webhooks can be added under "webhooks:", for example:
# webhooks:
#   - name: results
#     url: https://example.com/hook
#     token: ${LOCDIST_TOKEN}
#     trigger: on_nonzero

`, match.Separator.Name, match.Confidence*100)

	return append([]byte(header), body...), nil
}
