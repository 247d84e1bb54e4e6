// Package pipeline orchestrates a document expansion: scan, parse, resolve
// concurrently, inject. It exposes the phase entry points the CLI composes
// into the full three-phase run, with variable substitution happening
// between content and command expansion.
package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"mdweave/internal/action"
	"mdweave/internal/config"
	"mdweave/internal/inject"
	"mdweave/internal/pathutil"
	"mdweave/internal/resolve"
	"mdweave/internal/scan"
	"mdweave/internal/urlcache"
)

// Pipeline expands documents. One Pipeline serves any number of concurrent
// expansions; per-invocation state travels in resolve.Context.
type Pipeline struct {
	cfg      config.ExpandConfig
	log      *log.Logger
	resolver *resolve.Resolver
}

// New creates a Pipeline. cache may be nil to disable remote caching.
func New(cfg config.ExpandConfig, logger *log.Logger, cache *urlcache.Cache) *Pipeline {
	p := &Pipeline{cfg: cfg, log: logger}
	if cache != nil {
		p.resolver = resolve.New(cfg, logger, cache, p)
	} else {
		p.resolver = resolve.New(cfg, logger, nil, p)
	}
	return p
}

// Expand runs every directive in the document. docPath anchors relative
// imports and seeds the cycle chain; empty means an anonymous document
// rooted at the working directory.
func (p *Pipeline) Expand(ctx context.Context, doc, docPath string, rctx *resolve.Context) (string, error) {
	baseDir, stack := p.anchor(docPath, rctx)
	filter := anyAction
	if rctx.ContentOnly {
		filter = contentAction
	}
	return p.expand(ctx, doc, baseDir, stack, rctx, filter)
}

// ExpandContent runs only the content directives, in this document and
// every nested one. Commands and fences are left in place untouched. The
// caller's context is not written to; the flag travels on a copy.
func (p *Pipeline) ExpandContent(ctx context.Context, doc, docPath string, rctx *resolve.Context) (string, error) {
	scoped := *rctx
	scoped.ContentOnly = true
	return p.Expand(ctx, doc, docPath, &scoped)
}

// ExpandCommands runs only commands and executable fences. Content
// directives are left in place, which lets a template stage run between
// the two phases.
func (p *Pipeline) ExpandCommands(ctx context.Context, doc, docPath string, rctx *resolve.Context) (string, error) {
	baseDir, stack := p.anchor(docPath, rctx)
	return p.expand(ctx, doc, baseDir, stack, rctx, commandAction)
}

// ExpandNested expands a document reached through a file import. The
// resolver calls back into the pipeline here, carrying the extended cycle
// chain and the imported file's directory as the new anchor.
func (p *Pipeline) ExpandNested(ctx context.Context, doc, baseDir string, stack resolve.Stack, rctx *resolve.Context) (string, error) {
	filter := anyAction
	if rctx.ContentOnly {
		filter = contentAction
	}
	return p.expand(ctx, doc, baseDir, stack, rctx, filter)
}

// expand is the single scan-parse-resolve-inject cycle every entry point
// shares. Resolutions run concurrently under the configured limit; the
// first error cancels the rest and fails the expansion.
func (p *Pipeline) expand(ctx context.Context, doc, baseDir string, stack resolve.Stack, rctx *resolve.Context, filter func(action.Action) bool) (string, error) {
	actions := action.Parse(doc, scan.Scan(doc))

	selected := actions[:0]
	for _, a := range actions {
		if filter(a) {
			selected = append(selected, a)
		}
	}
	if len(selected) == 0 {
		return doc, nil
	}

	limit := p.cfg.MaxConcurrentResolves
	if limit < 1 {
		limit = 1
	}

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)

	resolved := make([]inject.Resolved, len(selected))
	for i, a := range selected {
		eg.Go(func() error {
			content, err := p.resolver.Resolve(egctx, a, baseDir, stack, rctx)
			if err != nil {
				return err
			}
			resolved[i] = inject.Resolved{Action: a, Content: content}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return "", err
	}

	return inject.Apply(doc, resolved), nil
}

// anchor derives the base directory and cycle-chain root from the document
// path. A document without a real path anchors at the working directory and
// starts an empty chain; a DocDir override replaces the base directory but
// keeps the chain rooted at the document.
func (p *Pipeline) anchor(docPath string, rctx *resolve.Context) (string, resolve.Stack) {
	baseDir, stack := p.docAnchor(docPath)
	if rctx.DocDir != "" {
		baseDir = rctx.DocDir
	}
	return baseDir, stack
}

func (p *Pipeline) docAnchor(docPath string) (string, resolve.Stack) {
	if docPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			wd = "."
		}
		return wd, resolve.NewStack("")
	}

	canonical, err := pathutil.Canonical(docPath)
	if err != nil {
		p.log.Debug("document path not canonicalisable", "path", docPath, "error", err)
		abs, absErr := filepath.Abs(docPath)
		if absErr != nil {
			abs = docPath
		}
		return filepath.Dir(abs), resolve.NewStack("")
	}
	return filepath.Dir(canonical), resolve.NewStack(canonical)
}

func anyAction(action.Action) bool { return true }

func contentAction(a action.Action) bool {
	switch a.(type) {
	case action.File, action.Glob, action.URL:
		return true
	}
	return false
}

func commandAction(a action.Action) bool {
	switch a.(type) {
	case action.Command, action.CodeFence:
		return true
	}
	return false
}
