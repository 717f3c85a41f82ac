// Package output provides formatting for distance results.
package output

import (
	"time"

	"github.com/google/uuid"

	"github.com/ccollicutt/locdist/pkg/columns"
	"github.com/ccollicutt/locdist/pkg/distance"
)

// Report is the complete output of a run.
type Report struct {
	Summary Summary `json:"summary"`

	// Pairs holds the per-position breakdown. Only populated in verbose mode.
	Pairs []distance.Pair `json:"pairs,omitempty"`

	Metadata Metadata `json:"metadata"`
}

// Summary holds the computed result.
type Summary struct {
	// Distance is the summed distance between the sorted columns.
	Distance int `json:"distance"`

	// Pairs is the number of left/right pairs compared.
	Pairs int `json:"pairs"`

	// Files is the number of input files read.
	Files int `json:"files"`
}

// Metadata provides context about the run.
type Metadata struct {
	// RunID uniquely identifies this run, so webhook receivers can deduplicate.
	RunID string `json:"run_id"`

	// Input is the path given on the command line.
	Input string `json:"input"`

	// Separator is the field separator used for parsing.
	Separator string `json:"separator"`

	// Sources lists the files that were read.
	Sources []string `json:"sources"`

	// AnalyzedAt is when the run finished.
	AnalyzedAt time.Time `json:"analyzed_at"`

	// Duration is how long the run took.
	Duration time.Duration `json:"duration"`
}

// NewReport creates a Report for the given columns and summed distance.
func NewReport(input, separator string, pair *columns.Pair, total int, started time.Time) *Report {
	now := time.Now()
	return &Report{
		Summary: Summary{
			Distance: total,
			Pairs:    len(pair.Left),
			Files:    len(pair.Sources),
		},
		Metadata: Metadata{
			RunID:      uuid.NewString(),
			Input:      input,
			Separator:  separator,
			Sources:    pair.Sources,
			AnalyzedAt: now,
			Duration:   now.Sub(started),
		},
	}
}

// NonZero returns true if the summed distance is greater than zero.
func (r *Report) NonZero() bool {
	return r.Summary.Distance > 0
}
