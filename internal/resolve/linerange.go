package resolve

import (
	"strings"

	"mdweave/internal/action"
)

// sliceLines extracts an inclusive 1-indexed line range, clamping both ends
// to the file. A start past the last line yields the empty string.
func sliceLines(text string, rng action.LineRange) string {
	lines := splitLines(text)

	start := rng.Start
	if start < 1 {
		start = 1
	}
	end := rng.End
	if end > len(lines) {
		end = len(lines)
	}
	if start > len(lines) || start > end {
		return ""
	}

	return strings.Join(lines[start-1:end], "\n")
}

// splitLines splits on newlines, tolerating CRLF and a trailing newline.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}
