// Package pathcheck validates input paths before they are read.
package pathcheck

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a path is neither an existing file nor an
	// existing directory.
	ErrNotFound = errors.New("no such file or directory")

	// ErrEmptyFile is returned when a path names a zero-byte file.
	ErrEmptyFile = errors.New("file is empty")

	// ErrNoInputs is returned when a directory holds no files with the
	// requested extension.
	ErrNoInputs = errors.New("no input files found")
)

// Validate checks that path names an existing directory or a non-empty file.
// Directories are returned with a trailing separator; files are returned
// unchanged.
func Validate(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	if info.IsDir() {
		if !strings.HasSuffix(path, string(filepath.Separator)) {
			path += string(filepath.Separator)
		}
		return path, nil
	}

	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s is not a regular file", ErrNotFound, path)
	}

	if info.Size() == 0 {
		return "", fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	return path, nil
}

// ResolveInputs validates path and expands it into the list of files to read.
// A file resolves to itself. A directory resolves to every regular file below
// it whose name ends in ext, sorted for deterministic ordering; each of those
// files must pass Validate as well.
func ResolveInputs(path, ext string) ([]string, error) {
	validated, err := Validate(path)
	if err != nil {
		return nil, err
	}

	if !IsDir(validated) {
		return []string{validated}, nil
	}

	var files []string
	err = filepath.WalkDir(validated, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if ext != "" && !strings.HasSuffix(d.Name(), ext) {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", validated, err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no *%s files in %s", ErrNoInputs, ext, validated)
	}

	sort.Strings(files)

	for _, f := range files {
		if _, err := Validate(f); err != nil {
			return nil, err
		}
	}

	return files, nil
}

// IsDir reports whether a validated path refers to a directory.
func IsDir(validated string) bool {
	return strings.HasSuffix(validated, string(filepath.Separator))
}
