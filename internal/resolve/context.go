package resolve

import "sync"

// Context carries per-invocation settings through a whole expansion,
// including every nested document it recurses into.
type Context struct {
	// Env is appended to the inherited environment for commands and fences.
	Env []string
	// Variables feeds placeholder substitution inside command text.
	Variables map[string]string
	// InvokeDir overrides the working directory for commands and fences.
	// Empty means the directory of the document being expanded.
	InvokeDir string
	// DocDir overrides the directory relative imports resolve against in
	// the top-level document. Nested documents always anchor at their own
	// file's directory.
	DocDir string
	// InvocationName is the binary name prefixed when a command chains into
	// another markdown document.
	InvocationName string
	// DryRun replaces command and fence output with a placeholder instead
	// of executing anything.
	DryRun bool
	// ContentOnly restricts expansion to file, glob and URL imports, in
	// nested documents as well as the top one.
	ContentOnly bool
	// IgnoreContextBudget downgrades a glob budget overrun to a warning.
	IgnoreContextBudget bool
	// Recorder, when set, observes every file and command the expansion
	// touches.
	Recorder *Recorder
}

// Recorder accumulates the identities of resolved imports and executed
// commands. It is safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	files    []string
	commands []string
}

// RecordFile notes a canonical file path that was imported.
func (r *Recorder) RecordFile(path string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, path)
}

// RecordCommand notes a command line that was executed or would be.
func (r *Recorder) RecordCommand(command string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, command)
}

// Files returns the recorded file paths in resolution order.
func (r *Recorder) Files() []string {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.files))
	copy(out, r.files)
	return out
}

// Commands returns the recorded command lines in resolution order.
func (r *Recorder) Commands() []string {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.commands))
	copy(out, r.commands)
	return out
}
