// Package columns reads two-column files of location IDs.
package columns

import (
	"errors"
	"fmt"
)

// Separators with special meaning.
const (
	// Tab is the default field separator.
	Tab = "\t"

	// Whitespace splits rows on any run of spaces or tabs.
	Whitespace = "whitespace"

	// Auto asks the caller to detect the separator before reading.
	Auto = "auto"

	// DefaultQuote is the quote character stripped from fields.
	DefaultQuote = '\''
)

var (
	// ErrInvalidValue marks a missing or non-integer field.
	ErrInvalidValue = errors.New("integer column has NA values")

	// ErrTooManyFields marks a row with more than two fields.
	ErrTooManyFields = errors.New("too many fields in row")

	// ErrNoData is returned when a file holds nothing but blank lines.
	ErrNoData = errors.New("no columns to parse from file")
)

// Pair holds the left and right columns of one or more input files.
type Pair struct {
	// Left holds the left column, sorted ascending.
	Left []int

	// Right holds the right column, sorted ascending.
	Right []int

	// Rows is the number of data rows read.
	Rows int

	// Sources lists the files the columns were read from.
	Sources []string
}

// Row is a single parsed data row.
type Row struct {
	Left  int
	Right int

	// Source is the file path this row came from.
	Source string

	// LineNum is the 1-based line number in the source file.
	LineNum int
}

// ParseError describes a row that could not be parsed.
type ParseError struct {
	Source  string
	LineNum int

	// Column is the 0-based column index (0 = left, 1 = right) of the
	// offending value. It is -1 when the row as a whole is malformed.
	Column int

	// Value is the raw field text, empty when the field is missing.
	Value string

	// Fields is the number of fields found in the row.
	Fields int

	Err error
}

func (e *ParseError) Error() string {
	var msg string
	switch {
	case errors.Is(e.Err, ErrTooManyFields):
		msg = fmt.Sprintf("%v: got %d, want 2", e.Err, e.Fields)
	default:
		msg = fmt.Sprintf("%v in column %d", e.Err, e.Column)
	}

	if e.Source == "" {
		return msg
	}
	return fmt.Sprintf("%s:%d: %s", e.Source, e.LineNum, msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
