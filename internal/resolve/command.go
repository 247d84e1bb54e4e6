package resolve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"

	"mdweave/internal/action"
	"mdweave/internal/shellutil"
	"mdweave/internal/template"
)

// resolveCommand runs an inline shell command and returns its cleaned
// output. Placeholders in the command text are substituted before
// execution, and output is wrapped in literal markers so a later
// substitution pass cannot rewrite it.
func (r *Resolver) resolveCommand(ctx context.Context, act action.Command, baseDir string, rctx *Context) (string, error) {
	command := template.Substitute(act.Text, rctx.Variables)
	command = chainInvocation(command, rctx.InvocationName)

	rctx.Recorder.RecordCommand(command)

	if rctx.DryRun {
		return fmt.Sprintf("[dry-run: %s]", command), nil
	}

	dir := rctx.InvokeDir
	if dir == "" {
		dir = baseDir
	}
	env := append(os.Environ(), rctx.Env...)

	result, err := r.executor.RunShell(ctx, command, r.commandOptions(dir, env))
	if err != nil {
		if errors.Is(err, shellutil.ErrTimeout) {
			return "", &CommandTimeoutError{
				Command: command,
				Timeout: time.Duration(r.cfg.CommandTimeoutSeconds) * time.Second,
			}
		}
		return "", &CommandFailedError{Command: command, Cause: err}
	}
	if result.Binary {
		return "", &BinaryCommandOutputError{Command: command}
	}

	stdout := ansi.Strip(result.Stdout)
	stderr := ansi.Strip(result.Stderr)

	if result.ExitCode != 0 {
		return "", &CommandFailedError{
			Command:  command,
			ExitCode: result.ExitCode,
			Stdout:   stdout,
			Stderr:   stderr,
		}
	}

	output, cut := capOutput(combineOutput(stdout, stderr), r.cfg.MaxCommandOutputSize)
	if result.Truncated || cut {
		output += "\n[output truncated]"
	}
	return template.WrapLiteral(output), nil
}

// capOutput enforces the combined output ceiling, backing off to the
// previous rune boundary so the cut never splits a multi-byte character.
func capOutput(s string, limit int64) (string, bool) {
	if limit <= 0 || int64(len(s)) <= limit {
		return s, false
	}
	s = s[:limit]
	for len(s) > 0 {
		r, size := utf8.DecodeLastRuneInString(s)
		if r != utf8.RuneError || size > 1 {
			break
		}
		s = s[:len(s)-1]
	}
	return s, true
}

// chainInvocation prefixes the expander binary when a command targets a
// markdown document directly, so documents can compose each other from the
// command position.
func chainInvocation(command, invocationName string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 || !strings.HasSuffix(fields[0], ".md") {
		return command
	}
	if invocationName == "" {
		invocationName = "mdweave"
	}
	return invocationName + " " + command
}

// combineOutput merges the streams, stderr first so diagnostics lead.
func combineOutput(stdout, stderr string) string {
	stdout = strings.TrimRight(stdout, "\n")
	stderr = strings.TrimRight(stderr, "\n")
	switch {
	case stderr == "":
		return stdout
	case stdout == "":
		return stderr
	default:
		return stderr + "\n" + stdout
	}
}
