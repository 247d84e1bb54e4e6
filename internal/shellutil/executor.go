// Package shellutil runs shell commands and standalone scripts with
// timeouts and bounded, binary-aware output collection.
package shellutil

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"runtime"
	"time"
)

// Result represents the outcome of a command execution.
type Result struct {
	Stdout    string
	Stderr    string
	ExitCode  int
	Truncated bool
	Binary    bool
}

// Options bounds a single execution.
type Options struct {
	Dir              string
	Env              []string
	Timeout          time.Duration
	MaxOutputBytes   int
	BinarySampleSize int
	GracefulShutdown time.Duration
}

// Executor runs commands through the platform shell.
type Executor struct{}

// NewExecutor creates a new Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// ShellArgv wraps a raw command string in the platform-appropriate shell
// invocation: `sh -c` on unix, `cmd /C` on windows.
func ShellArgv(command string) []string {
	if runtime.GOOS == "windows" {
		return []string{"cmd", "/C", command}
	}
	return []string{"sh", "-c", command}
}

// RunShell executes a raw command string via the platform shell.
func (f *Executor) RunShell(ctx context.Context, command string, opts Options) (*Result, error) {
	return f.Run(ctx, ShellArgv(command), opts)
}

// Run executes an argv directly (no shell) with a timeout and graceful
// shutdown. A run that completes with a non-zero status is not an error:
// the code and both captured streams come back in the Result. The error
// return covers start failures, timeouts (ErrTimeout after an interrupt,
// then a kill past the graceful shutdown window) and context cancellation.
func (f *Executor) Run(ctx context.Context, command []string, opts Options) (*Result, error) {
	if len(command) == 0 {
		return nil, os.ErrInvalid
	}

	maxBytes := opts.MaxOutputBytes
	if maxBytes <= 0 {
		maxBytes = 1 << 20
	}
	sampleSize := opts.BinarySampleSize
	if sampleSize <= 0 {
		sampleSize = 1024
	}
	stdout := newCollector(maxBytes, sampleSize)
	stderr := newCollector(maxBytes, sampleSize)

	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = opts.Dir
	cmd.Env = opts.Env
	cmd.Stdin = nil
	// Wait copies into these writers itself and only returns once both
	// streams are drained, so collection cannot race process teardown.
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, &CommandError{Cmd: command[0], Cause: err, Stage: "start"}
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	var execErr error
	select {
	case err := <-done:
		execErr = err
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
		execErr = ctx.Err()
	case <-time.After(timeout):
		// Try graceful shutdown
		_ = cmd.Process.Signal(os.Interrupt)
		select {
		case <-done:
			execErr = ErrTimeout
		case <-time.After(opts.GracefulShutdown):
			_ = cmd.Process.Kill()
			<-done
			execErr = ErrTimeout
		}
	}

	exitCode := 0
	if execErr != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.Is(execErr, ErrTimeout):
			exitCode = -1
		case errors.As(execErr, &exitErr):
			// The process ran to completion; the captured output stands.
			exitCode = exitErr.ExitCode()
			execErr = nil
		default:
			exitCode = -1
		}
	}

	return &Result{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		ExitCode:  exitCode,
		Truncated: stdout.Truncated() || stderr.Truncated(),
		Binary:    stdout.Binary(),
	}, execErr
}
