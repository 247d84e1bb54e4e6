package resolve

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gosimple/slug"

	"mdweave/internal/action"
	"mdweave/internal/fsutil"
	"mdweave/internal/gitutil"
	"mdweave/internal/pathutil"
	"mdweave/internal/token"
)

// resolveGlob expands a glob import into a concatenation of tagged file
// sections. Matches are filtered through gitignore rules, binary files are
// skipped with a warning, and the combined content is checked against the
// context window budget.
func (r *Resolver) resolveGlob(act action.Glob, baseDir string, rctx *Context) (string, error) {
	pattern, err := pathutil.Resolve(act.Pattern, baseDir)
	if err != nil {
		return "", err
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return "", &GlobPatternError{Pattern: act.Pattern, Cause: err}
	}

	matches = r.filterIgnored(matches, baseDir)
	sort.Strings(matches)

	if len(matches) == 0 {
		return "", &ImportNotFoundError{Path: act.Pattern}
	}

	var sections []string
	for _, match := range matches {
		if r.detector.IsBinaryPath(match) {
			r.log.Warn("skipping binary file in glob", "path", match)
			continue
		}

		info, err := os.Stat(match)
		if err != nil {
			return "", err
		}
		if info.Size() > r.cfg.MaxImportFileSize {
			// Only text matches count against the size ceiling.
			if r.sampleIsBinary(match) {
				r.log.Warn("skipping binary file in glob", "path", match)
				continue
			}
			return "", &FileTooLargeError{Path: match, Size: info.Size(), Limit: r.cfg.MaxImportFileSize}
		}

		content, err := os.ReadFile(match)
		if err != nil {
			return "", err
		}
		if r.detector.IsBinaryContent(content) {
			r.log.Warn("skipping binary file in glob", "path", match)
			continue
		}

		rctx.Recorder.RecordFile(match)
		sections = append(sections, formatSection(match, baseDir, string(content)))
	}

	combined := strings.Join(sections, "\n\n")
	if err := r.checkBudget(act.Pattern, combined, rctx); err != nil {
		return "", err
	}
	return combined, nil
}

// sampleIsBinary sniffs the leading bytes of a file too large to read in
// full. An unreadable file reports as text so the caller surfaces the
// size failure instead.
func (r *Resolver) sampleIsBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	sample := make([]byte, r.cfg.BinaryDetectionSampleSize)
	n, err := io.ReadFull(f, sample)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return false
	}
	return r.detector.IsBinaryContent(sample[:n])
}

// filterIgnored drops matches that gitignore rules exclude. When no VCS
// context is discoverable the matches pass through unchanged.
func (r *Resolver) filterIgnored(matches []string, baseDir string) []string {
	matcher, err := gitutil.NewIgnoreMatcher(baseDir, fsutil.NewOSFileSystem())
	if err != nil {
		r.log.Debug("gitignore rules unavailable", "dir", baseDir, "error", err)
		return matches
	}

	kept := matches[:0]
	for _, match := range matches {
		rel, err := filepath.Rel(matcher.Root(), match)
		if err != nil || strings.HasPrefix(rel, "..") {
			kept = append(kept, match)
			continue
		}
		if !matcher.ShouldIgnore(rel, false) {
			kept = append(kept, match)
		}
	}
	return kept
}

// formatSection wraps one file's content in a named tag so the consuming
// model can tell the files apart.
func formatSection(path, baseDir, content string) string {
	display := path
	if rel, err := filepath.Rel(baseDir, path); err == nil && !strings.HasPrefix(rel, "..") {
		display = rel
	}

	name := slug.Make(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if name == "" {
		name = "file"
	}

	return fmt.Sprintf("<%s path=%q>\n%s\n</%s>", name, display, strings.TrimRight(content, "\n"), name)
}

// checkBudget estimates the token footprint of the combined content and
// upgrades to a precise count near the limit. Overruns fail unless the
// invocation opted out, in which case they warn.
func (r *Resolver) checkBudget(pattern, combined string, rctx *Context) error {
	budget := r.cfg.ContextWindowTokens
	if budget <= 0 {
		return nil
	}

	tokens := token.Estimate(combined)
	if tokens*10 >= budget*7 {
		if precise, err := token.Count(combined); err == nil {
			tokens = precise
		} else {
			r.log.Debug("precise token count unavailable", "error", err)
		}
	}

	if tokens > budget {
		if rctx.IgnoreContextBudget {
			r.log.Warn("glob exceeds context budget", "pattern", pattern, "tokens", tokens, "budget", budget)
			return nil
		}
		return &ContextBudgetExceededError{Pattern: pattern, Tokens: tokens, Budget: budget}
	}
	if tokens*2 > budget {
		r.log.Warn("glob uses over half the context budget", "pattern", pattern, "tokens", tokens, "budget", budget)
	}
	return nil
}
