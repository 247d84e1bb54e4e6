// Package action defines the import directives a document can carry and the
// parser that finds them. Every action records the exact substring it matched
// and its byte offset; the injector relies on those two fields alone.
package action

// Span ties an action to the document text it replaces. OriginalText and
// Index are captured at parse time and must never be recomputed from
// resolved content.
type Span struct {
	OriginalText string
	Index        int
}

// Source returns the recorded span. Variants embed Span and inherit it, so
// satisfying Action takes no further ceremony.
func (s Span) Source() Span { return s }

// Action is the closed set of import directives. Exactly one concrete struct
// exists per variant; the resolver and injector switch over them exhaustively.
type Action interface {
	Source() Span
	isAction()
}

// LineRange is a 1-indexed inclusive line selection on a file import.
type LineRange struct {
	Start int
	End   int
}

// File imports another file's content. At most one of Range and Symbol is
// set: a plain file import recurses into the imported document, while
// line-range and symbol imports return a slice of it verbatim.
type File struct {
	Span
	Path   string
	Range  *LineRange
	Symbol string
}

func (File) isAction() {}

// Glob imports every non-ignored text file matching a pattern.
type Glob struct {
	Span
	Pattern string
}

func (Glob) isAction() {}

// URL imports the body of a remote document.
type URL struct {
	Span
	Address string
}

func (URL) isAction() {}

// Command runs an inline shell command and imports its output.
type Command struct {
	Span
	Text string
}

func (Command) isAction() {}

// CodeFence runs a top-level fenced block whose first line is a shebang.
type CodeFence struct {
	Span
	Interpreter string
	Code        string
	Lang        string
}

func (CodeFence) isAction() {}
