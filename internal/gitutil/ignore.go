// Package gitutil provides gitignore-aware filtering for glob imports.
// Rules are collected by walking from a starting directory upward until a
// VCS root (a directory containing .git) or the filesystem root is found.
package gitutil

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// defaultIgnores are always active regardless of .gitignore contents.
var defaultIgnores = []string{
	".git",
	"node_modules",
	".DS_Store",
	"*.log",
}

// fileSystem defines the minimal filesystem interface needed to collect patterns.
type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
	ReadFile(path string) ([]byte, error)
}

// IgnoreMatcher matches paths against the collected gitignore rules.
type IgnoreMatcher struct {
	root    string
	matcher gitignore.Matcher
}

// NewIgnoreMatcher walks from startDir upward, loading .gitignore files
// until a directory containing .git is reached (that directory's .gitignore
// is still included). Patterns from outer directories are parsed with their
// directory as the domain so they apply to the right subtrees.
func NewIgnoreMatcher(startDir string, fs fileSystem) (*IgnoreMatcher, error) {
	root := findVCSRoot(startDir, fs)

	var patterns []gitignore.Pattern
	for _, p := range defaultIgnores {
		patterns = append(patterns, gitignore.ParsePattern(p, nil))
	}

	// Collect outermost-first so inner rules take precedence, matching git.
	dirs := []string{}
	for dir := startDir; ; dir = filepath.Dir(dir) {
		dirs = append([]string{dir}, dirs...)
		if dir == root || dir == filepath.Dir(dir) {
			break
		}
	}

	for _, dir := range dirs {
		ignorePath := filepath.Join(dir, ".gitignore")
		if _, err := fs.Stat(ignorePath); err != nil {
			continue
		}
		content, err := fs.ReadFile(ignorePath)
		if err != nil {
			return nil, &IgnoreReadError{Path: ignorePath, Cause: err}
		}

		domain := splitPath(strings.TrimPrefix(dir, root))
		for _, line := range strings.Split(string(content), "\n") {
			line = strings.TrimRight(line, "\r")
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			patterns = append(patterns, gitignore.ParsePattern(line, domain))
		}
	}

	return &IgnoreMatcher{
		root:    root,
		matcher: gitignore.NewMatcher(patterns),
	}, nil
}

// Root returns the directory the matcher treats as the VCS root. Relative
// paths passed to ShouldIgnore are interpreted against it.
func (m *IgnoreMatcher) Root() string { return m.root }

// ShouldIgnore checks if a path (relative to Root) matches any collected pattern.
func (m *IgnoreMatcher) ShouldIgnore(relativePath string, isDir bool) bool {
	segments := splitPath(relativePath)
	if len(segments) == 0 {
		return false
	}
	return m.matcher.Match(segments, isDir)
}

// findVCSRoot walks upward from startDir looking for a .git entry.
// If none is found the filesystem root bounds the walk.
func findVCSRoot(startDir string, fs fileSystem) string {
	dir := startDir
	for {
		if _, err := fs.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return startDir
		}
		dir = parent
	}
}

// splitPath splits a path into segments for gitignore matching.
// It normalizes path separators and filters out empty and "." segments.
func splitPath(path string) []string {
	if path == "" {
		return nil
	}

	normalized := filepath.ToSlash(path)

	parts := strings.Split(normalized, "/")
	var segments []string
	for _, part := range parts {
		if part != "" && part != "." {
			segments = append(segments, part)
		}
	}

	return segments
}
