package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// Exit codes returned by the CLI.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// UsageError marks a failure caused by bad flags, arguments or
// configuration rather than by the input data.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

func usageError(err error) error {
	if err == nil {
		return nil
	}
	return &UsageError{Err: err}
}

func usageErrorf(format string, args ...any) error {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// ExitCodeFor maps an error returned by a command to a process exit code.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	var uerr *UsageError
	if errors.As(err, &uerr) {
		return ExitUsage
	}
	return ExitError
}

// UsageArgs wraps a cobra argument validator so its failures are
// reported as usage errors.
func UsageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return usageError(fn(cmd, args))
	}
}

// FlagError is a cobra flag error func reporting flag parse failures as
// usage errors.
func FlagError(_ *cobra.Command, err error) error {
	return usageError(err)
}
