// Package cli provides the command-line interface for locdist.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/locdist/internal/cli/commands"
	"github.com/ccollicutt/locdist/internal/cli/plugins"
	"github.com/ccollicutt/locdist/internal/logging"
	"github.com/ccollicutt/locdist/pkg/pathcheck"
)

// ErrLogHandlerFailed is returned when the log flags cannot build a logger.
var ErrLogHandlerFailed = errors.New("log handler failed")

// Execute runs the root command with the process arguments and returns the
// exit code.
func Execute() int {
	return Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes the root command with args, writing results to stdout and
// errors and logs to stderr, and returns the exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if args == nil {
		// cobra falls back to os.Args on nil.
		args = []string{}
	}

	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	plugin := pluginCandidate(rootCmd, args)
	if plugin != "" {
		if pluginPath, err := plugins.DefaultFinder().Find(plugin); err == nil {
			return plugins.Execute(ctx, pluginPath, args[1:], plugins.IO{In: os.Stdin, Out: stdout, Err: stderr})
		}
	}

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		// SilenceErrors leaves printing to us.
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		if plugin != "" && errors.Is(err, pathcheck.ErrNotFound) {
			_, _ = fmt.Fprintln(stderr, plugins.FormatNotFoundHint(plugin))
		}
	}
	return commands.ExitCodeFor(err)
}

// pluginCandidate returns the first argument when it could name a plugin:
// a bare word that is neither a built-in command nor an existing path.
func pluginCandidate(rootCmd *cobra.Command, args []string) string {
	if len(args) == 0 || !plugins.IsCandidate(args[0]) {
		return ""
	}
	name := args[0]
	if isBuiltinCommand(rootCmd, name) {
		return ""
	}
	if _, err := os.Stat(name); err == nil {
		return ""
	}
	return name
}

// isBuiltinCommand checks if a command name is a built-in cobra command.
func isBuiltinCommand(rootCmd *cobra.Command, name string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return true
		}
	}
	return name == "help" || name == "completion"
}

// NewRootCommand creates the root cobra command. Run without a subcommand it
// computes the summed distance of the given input.
func NewRootCommand() *cobra.Command {
	opts := &commands.DistanceOptions{}
	var logLevel, logFormat string

	rootCmd := &cobra.Command{
		Use:   "locdist [flags] <input_file>",
		Short: "Sum the distances between two sorted integer columns",
		Long: `locdist reads a file of two integer columns, sorts each column, pairs the
values by position and prints the sum of their absolute differences.

  locdist input.txt
  The summed distance is: 11

The input may be a directory, in which case every matching file below it is
read and the columns are merged.

Exit codes:
  0 - Distance computed
  1 - Input, parse or computation error
  2 - Configuration or usage error`,
		Args:          commands.UsageArgs(cobra.ExactArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       commands.Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunDistance(cmd, args[0], opts)
		},
	}

	commands.BindDistanceFlags(rootCmd.Flags(), opts)

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Set the log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", logging.FormatAuto,
		"Set the log format (auto, text, logfmt, json)")

	rootCmd.SetFlagErrorFunc(commands.FlagError)

	rootCmd.PersistentPreRunE = func(cc *cobra.Command, _ []string) error {
		var merr error

		flags := cc.Flags()
		level, err := flags.GetString("log-level")
		if err != nil {
			merr = multierror.Append(merr, err)
		}
		format, err := flags.GetString("log-format")
		if err != nil {
			merr = multierror.Append(merr, err)
		}
		if merr != nil {
			return &commands.UsageError{Err: merr}
		}

		logger, err := logging.New(cc.ErrOrStderr(), level, format)
		if err != nil {
			return &commands.UsageError{Err: fmt.Errorf("%w: %w", ErrLogHandlerFailed, err)}
		}

		slog.SetDefault(logger)
		cc.SetContext(logging.WithLogger(cc.Context(), logger))

		logger.Debug("ready to go", "command", cc.Name())
		return nil
	}

	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
