package resolve

import (
	"fmt"
	"strings"
	"time"
)

// ImportNotFoundError indicates the import target does not exist. A path
// that exists but is a directory reports the same error, as does a glob
// pattern with zero matches.
type ImportNotFoundError struct {
	Path string
}

func (e *ImportNotFoundError) Error() string {
	return fmt.Sprintf("import not found: %s", e.Path)
}

// FileTooLargeError indicates a file exceeded the configured size ceiling.
type FileTooLargeError struct {
	Path  string
	Size  int64
	Limit int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file too large: %s (%d bytes, limit %d)", e.Path, e.Size, e.Limit)
}

// BinaryImportError indicates a file was rejected as binary, either by
// extension or by content sniffing.
type BinaryImportError struct {
	Path string
}

func (e *BinaryImportError) Error() string {
	return fmt.Sprintf("cannot import binary file: %s", e.Path)
}

// CircularImportError indicates a file import reached a file already on the
// resolution stack. Chain lists the canonical paths from the outermost
// document to the repeated one.
type CircularImportError struct {
	Chain []string
}

func (e *CircularImportError) Error() string {
	return fmt.Sprintf("circular import: %s", strings.Join(e.Chain, " -> "))
}

// SymbolNotFoundError indicates a #Symbol extraction found no matching
// declaration in the target file.
type SymbolNotFoundError struct {
	Symbol string
	Path   string
}

func (e *SymbolNotFoundError) Error() string {
	return fmt.Sprintf("symbol %q not found in %s", e.Symbol, e.Path)
}

// ContextBudgetExceededError indicates a glob import's combined content
// exceeded the context window budget.
type ContextBudgetExceededError struct {
	Pattern string
	Tokens  int
	Budget  int
}

func (e *ContextBudgetExceededError) Error() string {
	return fmt.Sprintf("glob %s exceeds context budget: ~%d tokens, budget %d", e.Pattern, e.Tokens, e.Budget)
}

// GlobPatternError indicates the pattern itself was malformed.
type GlobPatternError struct {
	Pattern string
	Cause   error
}

func (e *GlobPatternError) Error() string {
	return fmt.Sprintf("bad glob pattern %s: %v", e.Pattern, e.Cause)
}

func (e *GlobPatternError) Unwrap() error { return e.Cause }

// UnsupportedContentTypeError indicates a remote response was neither a
// supported content type nor sniffable as text content.
type UnsupportedContentTypeError struct {
	URL         string
	ContentType string
}

func (e *UnsupportedContentTypeError) Error() string {
	return fmt.Sprintf("unsupported content type %q from %s", e.ContentType, e.URL)
}

// ResponseError indicates a non-2xx HTTP response.
type ResponseError struct {
	URL    string
	Status int
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.Status)
}

// FetchError indicates the HTTP request itself failed.
type FetchError struct {
	URL   string
	Cause error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Cause)
}

func (e *FetchError) Unwrap() error { return e.Cause }

// CommandTimeoutError indicates an inline command or executable fence
// exceeded its execution timeout.
type CommandTimeoutError struct {
	Command string
	Timeout time.Duration
}

func (e *CommandTimeoutError) Error() string {
	return fmt.Sprintf("command timed out after %s: %s", e.Timeout, e.Command)
}

// BinaryCommandOutputError indicates command output was detected as binary.
type BinaryCommandOutputError struct {
	Command string
}

func (e *BinaryCommandOutputError) Error() string {
	return fmt.Sprintf("command produced binary output: %s", e.Command)
}

// CommandFailedError indicates an inline command exited non-zero or failed
// to start. Captured output is kept for diagnostics.
type CommandFailedError struct {
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
	Cause    error
}

func (e *CommandFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("command failed: %s: %v", e.Command, e.Cause)
	}
	return fmt.Sprintf("command failed with exit code %d: %s", e.ExitCode, e.Command)
}

func (e *CommandFailedError) Unwrap() error { return e.Cause }

// CodeFenceError indicates an executable fence exited non-zero or could not
// be staged for execution.
type CodeFenceError struct {
	Interpreter string
	ExitCode    int
	Stderr      string
	Cause       error
}

func (e *CodeFenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("code fence failed (%s): %v", e.Interpreter, e.Cause)
	}
	return fmt.Sprintf("code fence failed with exit code %d (%s)", e.ExitCode, e.Interpreter)
}

func (e *CodeFenceError) Unwrap() error { return e.Cause }
