// Package resolve turns parsed actions into the content that replaces them.
// Each action kind has its own strategy; all of them share the guards for
// size, binary content and execution timeouts.
package resolve

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"mdweave/internal/action"
	"mdweave/internal/config"
	"mdweave/internal/fsutil"
	"mdweave/internal/shellutil"
	"mdweave/internal/urlcache"
)

// expander recursively expands a nested document. The pipeline implements
// it; the indirection keeps this package free of an import cycle.
type expander interface {
	ExpandNested(ctx context.Context, doc, baseDir string, stack Stack, rctx *Context) (string, error)
}

// urlCache is the slice of the cache the URL strategy needs. A nil cache
// disables caching entirely.
type urlCache interface {
	Lookup(url string) urlcache.Entry
	Store(url, content, etag, lastModified string) error
	Touch(url string) error
}

// Resolver resolves one action at a time. It is safe for concurrent use;
// all mutable per-invocation state lives in Context and Stack.
type Resolver struct {
	cfg      config.ExpandConfig
	log      *log.Logger
	detector *fsutil.SystemBinaryDetector
	executor *shellutil.Executor
	client   *http.Client
	cache    urlCache
	expander expander
}

// New creates a Resolver. cache may be nil to disable remote caching.
func New(cfg config.ExpandConfig, logger *log.Logger, cache urlCache, exp expander) *Resolver {
	return &Resolver{
		cfg:      cfg,
		log:      logger,
		detector: fsutil.NewSystemBinaryDetector(cfg.BinaryDetectionSampleSize),
		executor: shellutil.NewExecutor(),
		client: &http.Client{
			Timeout: time.Duration(cfg.URLFetchTimeoutSeconds) * time.Second,
		},
		cache:    cache,
		expander: exp,
	}
}

// Resolve dispatches the action to its strategy and returns the replacement
// content. baseDir anchors relative paths, stack carries the cycle chain,
// and rctx is shared across the whole invocation.
func (r *Resolver) Resolve(ctx context.Context, a action.Action, baseDir string, stack Stack, rctx *Context) (string, error) {
	switch act := a.(type) {
	case action.File:
		return r.resolveFile(ctx, act, baseDir, stack, rctx)
	case action.Glob:
		return r.resolveGlob(act, baseDir, rctx)
	case action.URL:
		return r.resolveURL(ctx, act)
	case action.Command:
		return r.resolveCommand(ctx, act, baseDir, rctx)
	case action.CodeFence:
		return r.resolveFence(ctx, act, baseDir, rctx)
	default:
		return "", fmt.Errorf("unknown action type %T", a)
	}
}

func (r *Resolver) commandOptions(dir string, env []string) shellutil.Options {
	return shellutil.Options{
		Dir:              dir,
		Env:              env,
		Timeout:          time.Duration(r.cfg.CommandTimeoutSeconds) * time.Second,
		MaxOutputBytes:   int(r.cfg.MaxCommandOutputSize),
		BinarySampleSize: r.cfg.CommandBinarySampleSize,
		GracefulShutdown: time.Duration(r.cfg.GracefulShutdownMs) * time.Millisecond,
	}
}
