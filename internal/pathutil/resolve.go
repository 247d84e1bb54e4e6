// Package pathutil resolves import paths against the directory of the
// importing document and computes canonical identities for cycle checks.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Resolve turns an import path into an absolute path. A leading "~" expands
// to the user's home directory, relative paths resolve against baseDir, and
// absolute paths pass through. The result is cleaned but symlinks are not
// followed; see Canonical for that.
func Resolve(path, baseDir string) (string, error) {
	if path == "" {
		return "", ErrPathRequired
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", &HomeDirError{Cause: err}
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Clean(filepath.Join(home, path[2:])), nil
	}

	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}

	return filepath.Clean(filepath.Join(baseDir, path)), nil
}

// Canonical returns the fully symlink-resolved absolute form of a path.
// Two paths that name the same file through different symlinks map to the
// same canonical path; this is the identity used by the cycle guard.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &CanonicalError{Path: path, Cause: err}
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", &CanonicalError{Path: abs, Cause: err}
	}
	return resolved, nil
}
