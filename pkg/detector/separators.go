package detector

import "github.com/ccollicutt/locdist/pkg/columns"

// Separator is a field separator the detector knows how to recognize.
type Separator struct {
	Name     string   // Human-readable name
	Value    string   // Value for the separator config key
	Examples []string // Example rows
}

// DefaultSeparators returns the built-in separators to try.
// More specific separators come first so they win ties.
func DefaultSeparators() []*Separator {
	return []*Separator{
		{
			Name:     "Tab",
			Value:    columns.Tab,
			Examples: []string{"3\t4"},
		},
		{
			Name:     "Comma",
			Value:    ",",
			Examples: []string{"3,4"},
		},
		{
			Name:     "Semicolon",
			Value:    ";",
			Examples: []string{"3;4"},
		},
		{
			Name:     "Pipe",
			Value:    "|",
			Examples: []string{"3|4"},
		},
		{
			Name:     "Whitespace",
			Value:    columns.Whitespace,
			Examples: []string{"3   4", "3 4"},
		},
	}
}
