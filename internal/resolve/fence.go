package resolve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/x/ansi"

	"mdweave/internal/action"
	"mdweave/internal/shellutil"
	"mdweave/internal/template"
)

// resolveFence stages the fence body as a temporary executable script and
// runs it through its shebang. The whole fence, delimiters included, is
// replaced by the script's output.
func (r *Resolver) resolveFence(ctx context.Context, act action.CodeFence, baseDir string, rctx *Context) (string, error) {
	rctx.Recorder.RecordCommand(act.Interpreter)

	if rctx.DryRun {
		return fmt.Sprintf("[dry-run: %s script]", act.Interpreter), nil
	}

	script, err := stageScript(act)
	if err != nil {
		return "", &CodeFenceError{Interpreter: act.Interpreter, Cause: err}
	}
	defer os.Remove(script)

	dir := rctx.InvokeDir
	if dir == "" {
		dir = baseDir
	}
	env := append(os.Environ(), rctx.Env...)

	result, err := r.executor.Run(ctx, []string{script}, r.commandOptions(dir, env))
	if err != nil {
		if errors.Is(err, shellutil.ErrTimeout) {
			return "", &CommandTimeoutError{
				Command: act.Interpreter,
				Timeout: time.Duration(r.cfg.CommandTimeoutSeconds) * time.Second,
			}
		}
		return "", &CodeFenceError{Interpreter: act.Interpreter, Cause: err}
	}
	if result.Binary {
		return "", &BinaryCommandOutputError{Command: act.Interpreter}
	}

	stdout := ansi.Strip(result.Stdout)
	stderr := ansi.Strip(result.Stderr)

	if result.ExitCode != 0 {
		return "", &CodeFenceError{
			Interpreter: act.Interpreter,
			ExitCode:    result.ExitCode,
			Stderr:      stderr,
		}
	}

	output, cut := capOutput(combineOutput(stdout, stderr), r.cfg.MaxCommandOutputSize)
	if result.Truncated || cut {
		output += "\n[output truncated]"
	}
	return template.WrapLiteral(output), nil
}

// stageScript writes the shebang and body to an executable temp file.
func stageScript(act action.CodeFence) (string, error) {
	f, err := os.CreateTemp("", "mdweave-fence-*")
	if err != nil {
		return "", err
	}

	content := act.Interpreter + "\n" + act.Code
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	if err := os.Chmod(f.Name(), 0o700); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
