package resolve

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"mdweave/internal/action"
	"mdweave/internal/config"
)

func globAction(pattern string) action.Glob {
	return action.Glob{Span: action.Span{OriginalText: "@" + pattern, Index: 0}, Pattern: pattern}
}

func TestResolveGlob(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "alpha.md", "alpha content\n")
	writeFile(t, dir, "beta.md", "beta content\n")

	r := newTestResolver(nil)
	got, err := r.Resolve(context.Background(), globAction("*.md"), dir, NewStack(""), &Context{})
	if err != nil {
		t.Fatal(err)
	}

	alphaIdx := strings.Index(got, "alpha content")
	betaIdx := strings.Index(got, "beta content")
	if alphaIdx < 0 || betaIdx < 0 {
		t.Fatalf("expected both files in output, got %q", got)
	}
	if alphaIdx > betaIdx {
		t.Error("expected files in sorted path order")
	}
	if !strings.Contains(got, `<alpha path="alpha.md">`) {
		t.Errorf("expected tagged section, got %q", got)
	}
	if !strings.Contains(got, "</alpha>") {
		t.Errorf("expected closing tag, got %q", got)
	}
}

func TestResolveGlobRecursive(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "docs", "deep")
	if err := os.MkdirAll(sub, 0o700); err != nil {
		t.Fatal(err)
	}
	writeFile(t, sub, "nested.md", "nested\n")
	writeFile(t, dir, "top.md", "top\n")

	r := newTestResolver(nil)
	got, err := r.Resolve(context.Background(), globAction("**/*.md"), dir, NewStack(""), &Context{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "nested") || !strings.Contains(got, "top") {
		t.Errorf("expected recursive matches, got %q", got)
	}
}

func TestResolveGlobNoMatches(t *testing.T) {
	r := newTestResolver(nil)
	_, err := r.Resolve(context.Background(), globAction("*.nothing"), t.TempDir(), NewStack(""), &Context{})
	var nf *ImportNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected ImportNotFoundError, got %v", err)
	}
	if nf.Path != "*.nothing" {
		t.Errorf("expected pattern in error, got %q", nf.Path)
	}
}

func TestResolveGlobSkipsBinary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.md", "text\n")
	writeFile(t, dir, "skip.md", "bin\x00ary\n")

	r := newTestResolver(nil)
	got, err := r.Resolve(context.Background(), globAction("*.md"), dir, NewStack(""), &Context{})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got, "ary") {
		t.Errorf("binary file should be skipped, got %q", got)
	}
	if !strings.Contains(got, "text") {
		t.Errorf("text file should survive, got %q", got)
	}
}

func TestResolveGlobSkipsOversizedBinary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.md", "text\n")
	writeFile(t, dir, "huge.png", strings.Repeat("x", 100))

	cfg := config.DefaultConfig().Expand
	cfg.MaxImportFileSize = 10
	r := New(cfg, log.New(io.Discard), nil, &passthroughExpander{})

	got, err := r.Resolve(context.Background(), globAction("*"), dir, NewStack(""), &Context{})
	if err != nil {
		t.Fatalf("oversized binary match should be skipped, got %v", err)
	}
	if !strings.Contains(got, "text") {
		t.Errorf("text file should survive, got %q", got)
	}
}

func TestResolveGlobSniffsOversizedContent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.md", "text\n")
	writeFile(t, dir, "dump.md", "bin\x00"+strings.Repeat("x", 100))

	cfg := config.DefaultConfig().Expand
	cfg.MaxImportFileSize = 10
	r := New(cfg, log.New(io.Discard), nil, &passthroughExpander{})

	got, err := r.Resolve(context.Background(), globAction("*.md"), dir, NewStack(""), &Context{})
	if err != nil {
		t.Fatalf("oversized binary content should be skipped, got %v", err)
	}
	if !strings.Contains(got, "text") {
		t.Errorf("text file should survive, got %q", got)
	}
}

func TestResolveGlobSizeFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "big.md", strings.Repeat("x", 100))

	cfg := config.DefaultConfig().Expand
	cfg.MaxImportFileSize = 10
	r := New(cfg, log.New(io.Discard), nil, &passthroughExpander{})

	_, err := r.Resolve(context.Background(), globAction("*.md"), dir, NewStack(""), &Context{})
	var tooLarge *FileTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("oversized match must fail the glob, got %v", err)
	}
}

func TestResolveGlobBudgetExceeded(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "doc.md", strings.Repeat("word ", 200))

	cfg := config.DefaultConfig().Expand
	cfg.ContextWindowTokens = 10
	r := New(cfg, log.New(io.Discard), nil, &passthroughExpander{})

	_, err := r.Resolve(context.Background(), globAction("*.md"), dir, NewStack(""), &Context{})
	var budget *ContextBudgetExceededError
	if !errors.As(err, &budget) {
		t.Fatalf("expected ContextBudgetExceededError, got %v", err)
	}
	if budget.Budget != 10 {
		t.Errorf("unexpected budget %d", budget.Budget)
	}
}

func TestResolveGlobBudgetOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "doc.md", strings.Repeat("word ", 200))

	cfg := config.DefaultConfig().Expand
	cfg.ContextWindowTokens = 10
	r := New(cfg, log.New(io.Discard), nil, &passthroughExpander{})

	got, err := r.Resolve(context.Background(), globAction("*.md"), dir, NewStack(""), &Context{IgnoreContextBudget: true})
	if err != nil {
		t.Fatalf("override should downgrade budget overrun, got %v", err)
	}
	if !strings.Contains(got, "word") {
		t.Errorf("expected content despite overrun, got %q", got)
	}
}

func TestResolveGlobRespectsGitignore(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o700); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, ".gitignore", "ignored.md\n")
	writeFile(t, dir, "ignored.md", "secret\n")
	writeFile(t, dir, "kept.md", "public\n")

	r := newTestResolver(nil)
	got, err := r.Resolve(context.Background(), globAction("*.md"), dir, NewStack(""), &Context{})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got, "secret") {
		t.Errorf("gitignored file must be excluded, got %q", got)
	}
	if !strings.Contains(got, "public") {
		t.Errorf("expected kept file, got %q", got)
	}
}
