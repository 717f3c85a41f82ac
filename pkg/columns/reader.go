package columns

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/hashicorp/go-multierror"
)

// Reader parses separator-delimited two-column files.
type Reader struct {
	sep   string
	quote rune
}

// Option configures a Reader.
type Option func(*Reader)

// WithSeparator sets the field separator (default tab).
func WithSeparator(sep string) Option {
	return func(r *Reader) {
		if sep != "" {
			r.sep = sep
		}
	}
}

// WithQuote sets the quote character stripped from fields (default ').
func WithQuote(q rune) Option {
	return func(r *Reader) {
		r.quote = q
	}
}

// NewReader creates a Reader.
func NewReader(opts ...Option) *Reader {
	r := &Reader{
		sep:   Tab,
		quote: DefaultQuote,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Separator returns the configured field separator.
func (r *Reader) Separator() string {
	return r.sep
}

// Read parses path and returns both columns sorted ascending.
// The first malformed row aborts the read with a *ParseError.
func (r *Reader) Read(ctx context.Context, path string) (*Pair, error) {
	if r.sep == Auto {
		return nil, fmt.Errorf("separator %q must be resolved before reading %s", Auto, path)
	}

	src := NewFileSource(path, r.sep, r.quote)
	defer src.Close()

	pair := &Pair{Sources: []string{path}}
	for {
		row, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		pair.Left = append(pair.Left, row.Left)
		pair.Right = append(pair.Right, row.Right)
		pair.Rows++
	}

	if pair.Rows == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, path)
	}

	slices.Sort(pair.Left)
	slices.Sort(pair.Right)

	slog.DebugContext(ctx, "read columns", "path", path, "rows", pair.Rows)
	return pair, nil
}

// ReadAll reads every path and merges the sorted columns into one Pair.
func (r *Reader) ReadAll(ctx context.Context, paths []string) (*Pair, error) {
	if len(paths) == 1 {
		return r.Read(ctx, paths[0])
	}

	lefts := make([][]int, 0, len(paths))
	rights := make([][]int, 0, len(paths))
	merged := &Pair{Sources: make([]string, 0, len(paths))}

	for _, path := range paths {
		p, err := r.Read(ctx, path)
		if err != nil {
			return nil, err
		}
		lefts = append(lefts, p.Left)
		rights = append(rights, p.Right)
		merged.Rows += p.Rows
		merged.Sources = append(merged.Sources, path)
	}

	merged.Left = MergeSorted(lefts...)
	merged.Right = MergeSorted(rights...)
	return merged, nil
}

// Inspection is the outcome of scanning a file for every malformed row.
type Inspection struct {
	Path string

	// Rows is the number of non-blank rows seen.
	Rows int

	// ValidRows is the number of rows that parsed cleanly.
	ValidRows int

	// Problems holds one *ParseError per malformed row.
	Problems []*ParseError
}

// Err returns the problems as a single error, or nil.
func (i *Inspection) Err() error {
	var merr *multierror.Error
	for _, p := range i.Problems {
		merr = multierror.Append(merr, p)
	}
	return merr.ErrorOrNil()
}

// Inspect scans the whole of path without stopping at the first malformed
// row. Only I/O failures are returned as errors.
func (r *Reader) Inspect(ctx context.Context, path string) (*Inspection, error) {
	if r.sep == Auto {
		return nil, fmt.Errorf("separator %q must be resolved before reading %s", Auto, path)
	}

	src := NewFileSource(path, r.sep, r.quote)
	defer src.Close()

	ins := &Inspection{Path: path}
	for {
		_, err := src.Next(ctx)
		if err == io.EOF {
			break
		}

		var perr *ParseError
		switch {
		case err == nil:
			ins.Rows++
			ins.ValidRows++
		case errors.As(err, &perr):
			ins.Rows++
			ins.Problems = append(ins.Problems, perr)
		default:
			return nil, err
		}
	}

	return ins, nil
}
