// Package plugins runs external locdist-<command> binaries, the way kubectl
// and git run their plugins.
package plugins

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Prefix is prepended to a command name to form the plugin binary name.
const Prefix = "locdist-"

// ErrPluginNotFound is returned when no plugin binary can be located.
var ErrPluginNotFound = errors.New("plugin not found")

// Finder locates plugin binaries.
type Finder struct {
	// Dirs are searched in order before PATH.
	Dirs []string

	// SearchPath enables the final lookup in PATH.
	SearchPath bool
}

// DefaultFinder searches, in order:
//  1. The directory holding the locdist binary
//  2. ~/.locdist/plugins/
//  3. PATH
func DefaultFinder() *Finder {
	f := &Finder{SearchPath: true}
	if execPath, err := os.Executable(); err == nil {
		f.Dirs = append(f.Dirs, filepath.Dir(execPath))
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		f.Dirs = append(f.Dirs, filepath.Join(homeDir, ".locdist", "plugins"))
	}
	return f
}

// Find returns the full path of the plugin for command.
func (f *Finder) Find(command string) (string, error) {
	if !IsCandidate(command) {
		return "", ErrPluginNotFound
	}
	name := Prefix + command

	for _, dir := range f.Dirs {
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	if f.SearchPath {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}

	return "", ErrPluginNotFound
}

// IsCandidate reports whether arg could name a plugin: a bare word that
// is neither a flag nor a path.
func IsCandidate(arg string) bool {
	if arg == "" || strings.HasPrefix(arg, "-") {
		return false
	}
	return !strings.ContainsAny(arg, `./\`)
}

// IO connects a plugin process to the caller's streams.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Execute runs a plugin with args and returns its exit code.
func Execute(ctx context.Context, pluginPath string, args []string, stdio IO) int {
	cmd := exec.CommandContext(ctx, pluginPath, args...)
	cmd.Stdin = stdio.In
	cmd.Stdout = stdio.Out
	cmd.Stderr = stdio.Err
	cmd.Env = append(os.Environ(), "LOCDIST_PLUGIN="+filepath.Base(pluginPath))

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		fmt.Fprintf(stdio.Err, "Error executing plugin: %v\n", err)
		return 1
	}

	return 0
}

// FormatNotFoundHint explains where a plugin for command would be found.
func FormatNotFoundHint(command string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "If %q is a plugin, install the binary as one of:\n", command)
	fmt.Fprintf(&sb, "  - %s%s in the same directory as locdist\n", Prefix, command)
	fmt.Fprintf(&sb, "  - ~/.locdist/plugins/%s%s\n", Prefix, command)
	fmt.Fprintf(&sb, "  - %s%s anywhere in your PATH\n", Prefix, command)
	sb.WriteString("\nRun 'locdist --help' for usage.")

	return sb.String()
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode()&0111 != 0
}
