package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"mdweave/internal/config"
	"mdweave/internal/docschema"
	"mdweave/internal/pathutil"
	"mdweave/internal/pipeline"
	"mdweave/internal/resolve"
	"mdweave/internal/template"
	"mdweave/internal/urlcache"
)

type rootOptions struct {
	vars         []string
	out          string
	timeout      int
	dryRun       bool
	contentOnly  bool
	commandsOnly bool
	noCache      bool
	ignoreBudget bool
	render       bool
	verbose      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "mdweave [file]",
		Short: "Expand markdown import directives, commands and executable fences",
		Long: `mdweave reads a markdown document and expands it in place:

  @path/to/file.md        inlines another document, recursively
  @src/**/*.go            inlines every matching text file
  @src/types.ts#Name      inlines one declaration from a source file
  @src/main.go:10-25      inlines a line range
  @https://host/doc.md    inlines a remote document
  !` + "`command`" + `              inlines the command's output
  fenced blocks whose first line is a shebang run as scripts

Reads from stdin when no file is given or the file is "-".`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			file := ""
			if len(args) == 1 && args[0] != "-" {
				file = args[0]
			}
			return runExpand(cmd.OutOrStdout(), cmd.InOrStdin(), file, opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.vars, "var", nil, "set a substitution variable as key=value (repeatable)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write the result to a file instead of stdout")
	cmd.Flags().IntVar(&opts.timeout, "timeout", 0, "override the command timeout in seconds")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "show what would run without executing anything")
	cmd.Flags().BoolVar(&opts.contentOnly, "content-only", false, "expand only file, glob and URL imports")
	cmd.Flags().BoolVar(&opts.commandsOnly, "commands-only", false, "expand only commands and executable fences")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the remote document cache")
	cmd.Flags().BoolVar(&opts.ignoreBudget, "ignore-budget", false, "warn instead of failing when a glob exceeds the context budget")
	cmd.Flags().BoolVar(&opts.render, "render", false, "render the result for the terminal")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log resolution details")
	cmd.MarkFlagsMutuallyExclusive("content-only", "commands-only")

	return cmd
}

func runExpand(stdout io.Writer, stdin io.Reader, file string, opts *rootOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.timeout > 0 {
		cfg.Expand.CommandTimeoutSeconds = opts.timeout
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "mdweave"})
	if opts.verbose {
		logger.SetLevel(log.DebugLevel)
	}

	doc, err := readDocument(stdin, file)
	if err != nil {
		return err
	}

	meta, body, err := docschema.Parse(doc)
	if err != nil {
		return err
	}

	vars, err := parseVars(opts.vars)
	if err != nil {
		return err
	}
	for k, v := range meta.Vars {
		if _, set := vars[k]; !set {
			vars[k] = v
		}
	}

	rctx := &resolve.Context{
		Variables:           vars,
		InvocationName:      invocationName(),
		DryRun:              opts.dryRun,
		IgnoreContextBudget: opts.ignoreBudget,
		Recorder:            &resolve.Recorder{},
	}
	if err := applyMetaDirs(rctx, meta, file); err != nil {
		return err
	}

	cache, err := openCache(cfg, opts, logger)
	if err != nil {
		return err
	}

	p := pipeline.New(cfg.Expand, logger, cache)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := expandPhases(ctx, p, body, file, rctx, opts, vars)
	if err != nil {
		return err
	}

	if opts.dryRun {
		for _, cmd := range rctx.Recorder.Commands() {
			logger.Info("would run", "command", cmd)
		}
	}

	if opts.render {
		result, err = renderMarkdown(result)
		if err != nil {
			return err
		}
	}

	if opts.out != "" {
		return os.WriteFile(opts.out, []byte(result), 0o644)
	}
	_, err = io.WriteString(stdout, result)
	return err
}

// expandPhases composes the run. The full run is three phases: content
// imports, variable substitution, then commands. The single-phase flags
// expose the outer stages for an external template engine to sit between.
func expandPhases(ctx context.Context, p *pipeline.Pipeline, doc, file string, rctx *resolve.Context, opts *rootOptions, vars map[string]string) (string, error) {
	switch {
	case opts.contentOnly:
		return p.ExpandContent(ctx, doc, file, rctx)
	case opts.commandsOnly:
		out, err := p.ExpandCommands(ctx, doc, file, rctx)
		if err != nil {
			return "", err
		}
		return template.StripLiteralMarkers(out), nil
	default:
		out, err := p.ExpandContent(ctx, doc, file, rctx)
		if err != nil {
			return "", err
		}
		out = template.Substitute(out, vars)
		out, err = p.ExpandCommands(ctx, out, file, rctx)
		if err != nil {
			return "", err
		}
		return template.StripLiteralMarkers(out), nil
	}
}

func readDocument(stdin io.Reader, file string) (string, error) {
	if file == "" {
		doc, err := io.ReadAll(stdin)
		if err != nil {
			return "", err
		}
		return string(doc), nil
	}
	doc, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	return string(doc), nil
}

// applyMetaDirs resolves the frontmatter dir and workdir overrides against
// the document's own directory.
func applyMetaDirs(rctx *resolve.Context, meta docschema.DocMeta, file string) error {
	base := "."
	if file != "" {
		abs, err := filepath.Abs(file)
		if err != nil {
			return err
		}
		base = filepath.Dir(abs)
	}

	if meta.Dir != "" {
		dir, err := pathutil.Resolve(meta.Dir, base)
		if err != nil {
			return err
		}
		rctx.DocDir = dir
	}
	if meta.Workdir != "" {
		dir, err := pathutil.Resolve(meta.Workdir, base)
		if err != nil {
			return err
		}
		rctx.InvokeDir = dir
	}
	return nil
}

func parseVars(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --var %q, expected key=value", pair)
		}
		vars[key] = value
	}
	return vars, nil
}

func openCache(cfg *config.Config, opts *rootOptions, logger *log.Logger) (*urlcache.Cache, error) {
	if opts.noCache {
		return nil, nil
	}
	dir, err := urlcache.DefaultDir()
	if err != nil {
		logger.Debug("remote cache unavailable", "error", err)
		return nil, nil
	}
	ttl := time.Duration(cfg.Expand.RemoteCacheTTLSeconds) * time.Second
	return urlcache.New(dir, ttl), nil
}

func invocationName() string {
	if len(os.Args) == 0 || os.Args[0] == "" {
		return "mdweave"
	}
	return filepath.Base(os.Args[0])
}

func renderMarkdown(text string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(text)
}
