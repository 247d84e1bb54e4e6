package resolve

import (
	"regexp"
	"strings"
)

// declRe matches a declaration line and captures the declared name. It is a
// heuristic over common source syntaxes, not a parser; it finds the
// declarations people actually import.
var declRe = regexp.MustCompile(`^\s*(?:export\s+)?(?:declare\s+)?(?:default\s+)?(?:abstract\s+)?(?:async\s+)?(?:interface|type|function|class|const|let|var|enum)\s+([A-Za-z_$][A-Za-z0-9_$]*)`)

// extractSymbol returns the source block declaring the named symbol. The
// block runs from the declaration line until brace and paren depth return to
// zero; a declaration that never opens a block is a single line.
func extractSymbol(text, symbol, path string) (string, error) {
	lines := splitLines(text)

	for i, line := range lines {
		m := declRe.FindStringSubmatch(line)
		if m == nil || m[1] != symbol {
			continue
		}
		return collectBlock(lines, i), nil
	}

	return "", &SymbolNotFoundError{Symbol: symbol, Path: path}
}

// collectBlock gathers lines from the declaration until the surrounding
// braces and parens balance out.
func collectBlock(lines []string, start int) string {
	depth := 0
	opened := false
	var tracker literalTracker

	for i := start; i < len(lines); i++ {
		d, o := tracker.scanLine(lines[i])
		depth += d
		if o {
			opened = true
		}
		if opened && depth <= 0 {
			return strings.Join(lines[start:i+1], "\n")
		}
		if !opened && !tracker.inString() {
			// Statement declarations end once any spanning literal closes.
			return strings.Join(lines[start:i+1], "\n")
		}
	}

	return strings.Join(lines[start:], "\n")
}

// literalTracker keeps enough string-literal state to ignore braces inside
// quotes. Backtick literals span lines; quote literals reset at end of line.
type literalTracker struct {
	quote byte
}

func (t *literalTracker) inString() bool { return t.quote != 0 }

// scanLine returns the net brace/paren depth change on the line and whether
// any opener appeared outside a string literal.
func (t *literalTracker) scanLine(line string) (depth int, opened bool) {
	for i := 0; i < len(line); i++ {
		c := line[i]

		if t.quote != 0 {
			if c == '\\' {
				i++
				continue
			}
			if c == t.quote {
				t.quote = 0
			}
			continue
		}

		switch c {
		case '\'', '"', '`':
			t.quote = c
		case '{', '(':
			depth++
			opened = true
		case '}', ')':
			depth--
		case '/':
			if i+1 < len(line) && line[i+1] == '/' {
				return depth, opened
			}
		}
	}

	if t.quote != '`' {
		t.quote = 0
	}
	return depth, opened
}
