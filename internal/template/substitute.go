// Package template is the substitution stage the expansion pipeline is
// interleaved with. It replaces {{ name }} placeholders with named values
// while honouring literal regions, which protect verbatim program output
// from reinterpretation.
package template

import (
	"regexp"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_.-]*)\s*\}\}`)

// Substitute replaces {{ name }} placeholders in text with values from vars.
// Placeholders with no matching variable are left untouched, as are all
// placeholders inside literal regions (see WrapLiteral). Literal markers
// themselves are preserved; strip them with StripLiteralMarkers once no
// further substitution passes will run.
func Substitute(text string, vars map[string]string) string {
	if len(vars) == 0 || !strings.Contains(text, "{{") {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))

	rest := text
	for {
		open := strings.Index(rest, literalOpen)
		if open < 0 {
			b.WriteString(substituteAll(rest, vars))
			return b.String()
		}

		b.WriteString(substituteAll(rest[:open], vars))

		end := strings.Index(rest[open:], literalClose)
		if end < 0 {
			// Unterminated literal region: everything after the marker is verbatim
			b.WriteString(rest[open:])
			return b.String()
		}
		end = open + end + len(literalClose)
		b.WriteString(rest[open:end])
		rest = rest[end:]
	}
}

func substituteAll(text string, vars map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(match string) string {
		name := placeholderRe.FindStringSubmatch(match)[1]
		if value, ok := vars[name]; ok {
			return value
		}
		return match
	})
}
