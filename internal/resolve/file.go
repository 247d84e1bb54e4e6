package resolve

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"mdweave/internal/action"
	"mdweave/internal/pathutil"
)

// resolveFile reads a file import. Plain imports recurse through the
// expander with the file's own directory as the new base; line-range and
// symbol imports return a verbatim slice and never recurse, so they are
// exempt from the cycle check.
func (r *Resolver) resolveFile(ctx context.Context, act action.File, baseDir string, stack Stack, rctx *Context) (string, error) {
	abs, err := pathutil.Resolve(act.Path, baseDir)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &ImportNotFoundError{Path: act.Path}
		}
		return "", err
	}
	if info.IsDir() {
		return "", &ImportNotFoundError{Path: act.Path}
	}
	if info.Size() > r.cfg.MaxImportFileSize {
		return "", &FileTooLargeError{Path: act.Path, Size: info.Size(), Limit: r.cfg.MaxImportFileSize}
	}
	if r.detector.IsBinaryPath(abs) {
		return "", &BinaryImportError{Path: act.Path}
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		return "", err
	}
	if r.detector.IsBinaryContent(content) {
		return "", &BinaryImportError{Path: act.Path}
	}

	text := string(content)

	if act.Range != nil {
		return sliceLines(text, *act.Range), nil
	}
	if act.Symbol != "" {
		return extractSymbol(text, act.Symbol, act.Path)
	}

	canonical, err := pathutil.Canonical(abs)
	if err != nil {
		return "", err
	}
	if stack.Contains(canonical) {
		return "", &CircularImportError{Chain: append(stack.Chain(), canonical)}
	}
	rctx.Recorder.RecordFile(canonical)

	return r.expander.ExpandNested(ctx, text, filepath.Dir(abs), stack.Push(canonical), rctx)
}
