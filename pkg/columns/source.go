package columns

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// FileSource iterates over the data rows of a single file.
// It is safe for sequential use only.
type FileSource struct {
	path  string
	sep   string
	quote rune

	file    *os.File
	scanner *bufio.Scanner
	lineNum int
}

// NewFileSource creates a FileSource. The file is opened on the first call
// to Next.
func NewFileSource(path, sep string, quote rune) *FileSource {
	return &FileSource{
		path:  path,
		sep:   sep,
		quote: quote,
	}
}

// Next returns the next data row, skipping blank lines.
// A malformed row yields a *ParseError; iteration may continue past it.
// Returns io.EOF when the file is exhausted.
func (s *FileSource) Next(ctx context.Context) (*Row, error) {
	if s.scanner == nil {
		if err := s.open(); err != nil {
			return nil, err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return nil, fmt.Errorf("reading %s: %w", s.path, err)
			}
			return nil, io.EOF
		}
		s.lineNum++

		line := strings.TrimRight(s.scanner.Text(), "\r")
		if IsBlank(line) {
			continue
		}

		return s.parse(line)
	}
}

func (s *FileSource) parse(line string) (*Row, error) {
	fields := SplitRow(line, s.sep)
	if len(fields) > 2 {
		return nil, &ParseError{
			Source:  s.path,
			LineNum: s.lineNum,
			Column:  -1,
			Fields:  len(fields),
			Err:     ErrTooManyFields,
		}
	}

	var values [2]int
	for col := range values {
		var raw string
		if col < len(fields) {
			raw = fields[col]
		}
		n, ok := ParseField(raw, s.quote)
		if !ok {
			return nil, &ParseError{
				Source:  s.path,
				LineNum: s.lineNum,
				Column:  col,
				Value:   raw,
				Fields:  len(fields),
				Err:     ErrInvalidValue,
			}
		}
		values[col] = n
	}

	return &Row{
		Left:    values[0],
		Right:   values[1],
		Source:  s.path,
		LineNum: s.lineNum,
	}, nil
}

// Close releases the underlying file.
func (s *FileSource) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

func (s *FileSource) open() error {
	f, err := os.Open(s.path) // #nosec G304 -- user-provided input path is expected
	if err != nil {
		return fmt.Errorf("opening input file %s: %w", s.path, err)
	}

	s.file = f
	s.scanner = bufio.NewScanner(f)
	s.scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	s.lineNum = 0
	return nil
}
