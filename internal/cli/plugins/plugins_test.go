package plugins

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePlugin(t *testing.T, dir, command, script string) string {
	t.Helper()
	path := filepath.Join(dir, Prefix+command)
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestFinder_Find_NotFound(t *testing.T) {
	t.Parallel()

	f := &Finder{Dirs: []string{t.TempDir()}}
	_, err := f.Find("nonexistent-plugin-xyz")
	assert.ErrorIs(t, err, ErrPluginNotFound)
}

func TestFinder_Find_SearchOrder(t *testing.T) {
	t.Parallel()

	first := t.TempDir()
	second := t.TempDir()

	writePlugin(t, second, "report", "#!/bin/sh\necho second")
	want := writePlugin(t, first, "report", "#!/bin/sh\necho first")

	f := &Finder{Dirs: []string{first, second}}
	found, err := f.Find("report")
	require.NoError(t, err)
	assert.Equal(t, want, found)
}

func TestFinder_Find_SkipsNonExecutable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, Prefix+"plain"), []byte("x"), 0o644))

	f := &Finder{Dirs: []string{dir}}
	_, err := f.Find("plain")
	assert.ErrorIs(t, err, ErrPluginNotFound)
}

func TestFinder_Find_RejectsPaths(t *testing.T) {
	t.Parallel()

	f := &Finder{Dirs: []string{t.TempDir()}, SearchPath: true}
	for _, arg := range []string{"input.txt", "./data", "-v", ""} {
		_, err := f.Find(arg)
		assert.ErrorIs(t, err, ErrPluginNotFound, "Find(%q)", arg)
	}
}

func TestIsCandidate(t *testing.T) {
	t.Parallel()

	tcs := map[string]bool{
		"watch":      true,
		"plot-pairs": true,
		"input.txt":  false,
		"data/":      false,
		"--verbose":  false,
		"":           false,
	}

	for arg, want := range tcs {
		assert.Equal(t, want, IsCandidate(arg), "IsCandidate(%q)", arg)
	}
}

func TestExecute(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writePlugin(t, dir, "echo", "#!/bin/sh\necho \"$LOCDIST_PLUGIN $1\"\nexit 3\n")

	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), path, []string{"hello"}, IO{Out: &stdout, Err: &stderr})

	assert.Equal(t, 3, code)
	assert.Equal(t, "locdist-echo hello", strings.TrimSpace(stdout.String()))
}

func TestFormatNotFoundHint(t *testing.T) {
	t.Parallel()

	hint := FormatNotFoundHint("watch")

	assert.Contains(t, hint, `"watch"`)
	assert.Contains(t, hint, "locdist-watch")
	assert.Contains(t, hint, "~/.locdist/plugins/")
}

func TestIsExecutable(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	nonExec := filepath.Join(tmpDir, "nonexec")
	require.NoError(t, os.WriteFile(nonExec, []byte("test"), 0o644))
	assert.False(t, isExecutable(nonExec), "non-executable file")

	execFile := filepath.Join(tmpDir, "exec")
	require.NoError(t, os.WriteFile(execFile, []byte("test"), 0o755))
	assert.True(t, isExecutable(execFile), "executable file")

	assert.False(t, isExecutable(filepath.Join(tmpDir, "nonexistent")), "missing file")
	assert.False(t, isExecutable(tmpDir), "directory")
}
