// Package scan performs the single linear pass that classifies document text
// as plain prose or code. Directives are only recognised inside the safe
// ranges it reports; executable fences are only eligible when they start at
// one of the reported unsafe-block offsets.
package scan

// Range is a half-open [Start, End) interval of byte offsets in the document
// where the text is in the normal (non-code) state.
type Range struct {
	Start int
	End   int
}

// Contains reports whether offset falls inside the range.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Result is the output of one scan: the safe ranges in ascending order, and
// the start offsets of top-level fenced blocks (the complement boundary).
type Result struct {
	SafeRanges   []Range
	UnsafeStarts []int
}

// InSafeRange reports whether offset falls inside any safe range.
func (s Result) InSafeRange(offset int) bool {
	for _, r := range s.SafeRanges {
		if r.Contains(offset) {
			return true
		}
		if r.Start > offset {
			break
		}
	}
	return false
}

// scanState is the scanner's transient context.
type scanState int

const (
	stateNormal scanState = iota
	stateFenced
	stateInline
)

// Scan walks the document once with a three-state machine and emits the safe
// ranges plus the unsafe-block start offsets. Malformed input never errors:
// an unterminated fence simply stays unsafe to the end of the document, and a
// document with no code yields one safe range spanning the whole input.
func Scan(doc string) Result {
	var result Result

	state := stateNormal
	safeStart := 0
	lineStart := true

	var fenceChar byte
	fenceLen := 0

	i := 0
	for i < len(doc) {
		c := doc[i]

		switch state {
		case stateNormal:
			if lineStart {
				if n, ch := fenceOpenAt(doc, i); n >= 3 {
					result.appendSafe(safeStart, i)
					result.UnsafeStarts = append(result.UnsafeStarts, i)
					state = stateFenced
					fenceChar = ch
					fenceLen = n
					i = skipLine(doc, i)
					continue
				}
			}
			if c == '`' {
				result.appendSafe(safeStart, i)
				state = stateInline
				i++
				lineStart = false
				continue
			}
			lineStart = c == '\n'
			i++

		case stateInline:
			if c == '`' {
				// Closing delimiter: safe text resumes right after it
				state = stateNormal
				safeStart = i + 1
				i++
				lineStart = false
				continue
			}
			if c == '\n' {
				// Inline code cannot span lines; the newline itself is normal text
				state = stateNormal
				safeStart = i
				i++
				lineStart = true
				continue
			}
			i++

		case stateFenced:
			// Only a line consisting of an equal-or-longer run of the fence
			// character closes the block.
			if n, ch := fenceOpenAt(doc, i); ch == fenceChar && n >= fenceLen && restIsBlank(doc, i+n) {
				state = stateNormal
				safeStart = i + n
				i += n
				lineStart = false
				continue
			}
			i = skipLine(doc, i)
		}
	}

	// An unterminated fence or inline span stays unsafe to end of input.
	if state == stateNormal {
		result.appendSafe(safeStart, len(doc))
	}

	return result
}

// appendSafe records a non-empty safe range.
func (s *Result) appendSafe(start, end int) {
	if end > start {
		s.SafeRanges = append(s.SafeRanges, Range{Start: start, End: end})
	}
}

// fenceOpenAt counts the run of backticks or tildes starting at offset i.
// Returns the run length and the fence character; a zero length means no run.
func fenceOpenAt(doc string, i int) (int, byte) {
	if i >= len(doc) {
		return 0, 0
	}
	ch := doc[i]
	if ch != '`' && ch != '~' {
		return 0, 0
	}
	n := 0
	for i+n < len(doc) && doc[i+n] == ch {
		n++
	}
	return n, ch
}

// restIsBlank reports whether only spaces or tabs remain before end of line.
func restIsBlank(doc string, i int) bool {
	for ; i < len(doc); i++ {
		switch doc[i] {
		case ' ', '\t':
		case '\n', '\r':
			return true
		default:
			return false
		}
	}
	return true
}

// skipLine advances past the current line's newline.
func skipLine(doc string, i int) int {
	for i < len(doc) && doc[i] != '\n' {
		i++
	}
	if i < len(doc) {
		i++
	}
	return i
}
