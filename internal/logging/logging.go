// Package logging builds the slog logger used by the CLI and carries it
// through a context.Context.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

// Log formats accepted by New.
const (
	FormatAuto   = "auto"
	FormatText   = "text"
	FormatLogfmt = "logfmt"
	FormatJSON   = "json"
)

var (
	ErrInvalidLevel  = errors.New("invalid log level")
	ErrInvalidFormat = errors.New("invalid log format")
)

// New creates a logger writing to w at the given level and format.
// FormatAuto picks text on a terminal and logfmt otherwise.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidLevel, level, err)
	}

	formatter, err := parseFormat(w, format)
	if err != nil {
		return nil, err
	}

	h := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Formatter:       formatter,
		ReportTimestamp: formatter != log.TextFormatter,
		Prefix:          "locdist",
	})

	return slog.New(h), nil
}

func parseFormat(w io.Writer, format string) (log.Formatter, error) {
	switch strings.ToLower(format) {
	case FormatAuto, "":
		if isTerminal(w) {
			return log.TextFormatter, nil
		}
		return log.LogfmtFormatter, nil
	case FormatText:
		return log.TextFormatter, nil
	case FormatLogfmt:
		return log.LogfmtFormatter, nil
	case FormatJSON:
		return log.JSONFormatter, nil
	default:
		return 0, fmt.Errorf("%w %q (must be auto, text, logfmt, or json)", ErrInvalidFormat, format)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type key struct{}

var loggerKey = key{}

// WithLogger returns a new context with the provided logger embedded.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from a context, falling back to
// slog.Default when none was set.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
