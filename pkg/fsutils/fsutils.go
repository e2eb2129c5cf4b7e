// Package fsutils locates the npm package a command operates on.
package fsutils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestFile marks the root of an npm package.
const ManifestFile = "package.json"

// ErrNoProjectRoot is returned when no package.json exists at or above the
// start directory.
var ErrNoProjectRoot = errors.New("no " + ManifestFile + " found in this or any parent directory")

// TruePath returns the absolute path with all symlinks resolved.
func TruePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	resolvedPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve symlinks: %w", err)
	}

	return resolvedPath, nil
}

// ProjectRoot walks up from start until it finds a directory holding a
// package.json and returns that directory's true path.
func ProjectRoot(start string) (string, error) {
	dir, err := TruePath(start)
	if err != nil {
		return "", err
	}

	for {
		if Exists(filepath.Join(dir, ManifestFile)) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w (from %s)", ErrNoProjectRoot, start)
		}
		dir = parent
	}
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
