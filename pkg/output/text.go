package output

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
)

// ResultPrefix starts the result line of the text format.
const ResultPrefix = "The summed distance is: "

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		_, err := fmt.Fprintf(w, "%d\n", report.Summary.Distance)
		return err
	}

	if f.opts.Verbose {
		if err := f.formatPairs(report, w); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%s%d\n", ResultPrefix, report.Summary.Distance)
	return err
}

func (f *TextFormatter) formatPairs(report *Report, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "LEFT\tRIGHT\tDISTANCE\t")
	for _, p := range report.Pairs {
		fmt.Fprintf(tw, "%d\t%d\t%d\t\n", p.Left, p.Right, p.Distance)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Files: %d, pairs: %d, duration: %s\n",
		report.Summary.Files,
		report.Summary.Pairs,
		report.Metadata.Duration.Round(1e6))
	return nil
}
