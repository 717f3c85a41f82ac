// Package detector provides automatic field separator detection for input files.
package detector

import (
	"bufio"
	"context"
	"os"
	"sort"
	"strings"

	"github.com/ccollicutt/locdist/pkg/columns"
)

// DetectionResult holds the result of analyzing an input file.
type DetectionResult struct {
	Matches      []SeparatorMatch // Separators that matched, sorted by confidence descending
	SampledLines int              // Number of lines sampled
	ParsedLines  int              // Number of lines the best separator parsed
	Note         string           // Warning when the best match is partial
}

// SeparatorMatch represents a separator that matched with its confidence score.
type SeparatorMatch struct {
	Separator  *Separator
	Confidence float64 // 0.0 to 1.0 (fraction of lines parsed)
	MatchCount int
	SampleLine string
	Left       int // Left value parsed from the sample line
	Right      int // Right value parsed from the sample line
	rank       int
}

// Detector analyzes input files to identify their field separator.
type Detector struct {
	separators []*Separator
	quote      rune
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// WithQuote sets the quote character stripped from fields.
func WithQuote(q rune) Option {
	return func(d *Detector) {
		d.quote = q
	}
}

// New creates a new Detector with default separators.
func New(opts ...Option) *Detector {
	d := &Detector{
		separators: DefaultSeparators(),
		quote:      columns.DefaultQuote,
		sampleSize: 100,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile analyzes an input file and returns detected separators.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	lines, err := d.sampleFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines analyzes a slice of input lines.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{}

	var data []string
	for _, line := range lines {
		if !columns.IsBlank(line) {
			data = append(data, strings.TrimRight(line, "\r"))
		}
	}
	result.SampledLines = len(data)

	if len(data) == 0 {
		return result
	}

	for rank, sep := range d.separators {
		match := SeparatorMatch{Separator: sep, rank: rank}

		for _, line := range data {
			left, right, ok := d.parseRow(line, sep.Value)
			if !ok {
				continue
			}
			if match.MatchCount == 0 {
				match.SampleLine = line
				match.Left = left
				match.Right = right
			}
			match.MatchCount++
		}

		if match.MatchCount > 0 {
			match.Confidence = float64(match.MatchCount) / float64(len(data))
			result.Matches = append(result.Matches, match)
		}
	}

	// Sort by confidence descending, then by specificity
	sort.Slice(result.Matches, func(i, j int) bool {
		if result.Matches[i].Confidence != result.Matches[j].Confidence {
			return result.Matches[i].Confidence > result.Matches[j].Confidence
		}
		return result.Matches[i].rank < result.Matches[j].rank
	})

	if best := result.BestMatch(); best != nil {
		result.ParsedLines = best.MatchCount
		if best.Confidence < 1.0 {
			result.Note = "Not every sampled line parsed with this separator. " +
				"Run 'locdist diagnose' to list the rows that fail."
		}
	}

	return result
}

func (d *Detector) parseRow(line, sep string) (int, int, bool) {
	fields := columns.SplitRow(line, sep)
	if len(fields) != 2 {
		return 0, 0, false
	}
	left, ok := columns.ParseField(fields[0], d.quote)
	if !ok {
		return 0, 0, false
	}
	right, ok := columns.ParseField(fields[1], d.quote)
	if !ok {
		return 0, 0, false
	}
	return left, right, true
}

// sampleFile reads up to sampleSize non-blank lines from a file.
func (d *Detector) sampleFile(_ context.Context, path string) ([]string, error) {
	// #nosec G304 - path is provided by user via CLI
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)

	for scanner.Scan() && len(lines) < d.sampleSize {
		line := scanner.Text()
		if !columns.IsBlank(line) {
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// BestMatch returns the highest confidence match, or nil if none found.
func (r *DetectionResult) BestMatch() *SeparatorMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one separator matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}
