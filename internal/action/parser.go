package action

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"mdweave/internal/scan"
)

var (
	// urlRe matches @-prefixed http(s) addresses. The scheme requirement is
	// what keeps email addresses out; the preceding-character check below
	// does the rest.
	urlRe = regexp.MustCompile(`@(https?://[^\s<>"'\)\]]+)`)

	// pathRe matches @-prefixed paths with an optional structured suffix:
	// a #Symbol extraction or a :start-end line range.
	pathRe = regexp.MustCompile(`@([~\w.\-/*?\[\]]+(?:#[A-Za-z_$][\w$]*|:\d+-\d+)?)`)

	rangeSuffixRe  = regexp.MustCompile(`^(.+):(\d+)-(\d+)$`)
	symbolSuffixRe = regexp.MustCompile(`^(.+)#([A-Za-z_$][\w$]*)$`)
)

// Parse finds every directive in the document and classifies it. Matches are
// rejected unless they start inside a safe range (commands, paths, URLs) or
// exactly at an unsafe-block start (executable fences). The result is sorted
// by source offset. Parse performs no I/O and cannot fail; text that matches
// nothing is simply not an action.
func Parse(doc string, scanned scan.Result) []Action {
	var actions []Action

	commands := parseCommands(doc, scanned)
	actions = append(actions, commands...)

	// Command interiors can be safe ranges when the opening delimiter uses
	// multiple backticks; suppress path/URL matches inside them.
	inCommand := func(offset int) bool {
		for _, c := range commands {
			src := c.Source()
			if offset >= src.Index && offset < src.Index+len(src.OriginalText) {
				return true
			}
		}
		return false
	}

	taken := map[int]bool{}

	for _, m := range urlRe.FindAllStringSubmatchIndex(doc, -1) {
		start := m[0]
		if !scanned.InSafeRange(start) || precededByWordChar(doc, start) || inCommand(start) {
			continue
		}
		address := trimTrailingPunct(doc[m[2]:m[3]])
		if address == "" {
			continue
		}
		original := doc[start : m[2]+len(address)]
		taken[start] = true
		actions = append(actions, URL{
			Span:    Span{OriginalText: original, Index: start},
			Address: address,
		})
	}

	for _, m := range pathRe.FindAllStringSubmatchIndex(doc, -1) {
		start := m[0]
		if taken[start] || !scanned.InSafeRange(start) || precededByWordChar(doc, start) || inCommand(start) {
			continue
		}
		path := trimPathMatch(doc[m[2]:m[3]])
		if path == "" {
			continue
		}
		original := doc[start : m[2]+len(path)]
		actions = append(actions, classifyPath(path, Span{OriginalText: original, Index: start}))
	}

	actions = append(actions, parseFences(doc, scanned)...)

	sort.Slice(actions, func(i, j int) bool {
		return actions[i].Source().Index < actions[j].Source().Index
	})
	return actions
}

// classifyPath disambiguates the @path suffix syntax. Glob metacharacters
// win over suffixes: a pattern is a pattern even if it happens to contain
// "#" or ":" sequences.
func classifyPath(path string, src Span) Action {
	if strings.ContainsAny(path, "*?[") {
		return Glob{Span: src, Pattern: path}
	}
	if m := symbolSuffixRe.FindStringSubmatch(path); m != nil {
		return File{Span: src, Path: m[1], Symbol: m[2]}
	}
	if m := rangeSuffixRe.FindStringSubmatch(path); m != nil {
		start, _ := strconv.Atoi(m[2])
		end, _ := strconv.Atoi(m[3])
		return File{Span: src, Path: m[1], Range: &LineRange{Start: start, End: end}}
	}
	return File{Span: src, Path: path}
}

// parseCommands finds !`...` inlines. The delimiter is the longest backtick
// run after the bang, and the close is the next run of exactly that length on
// the same line, so commands may contain shorter backtick runs.
func parseCommands(doc string, scanned scan.Result) []Action {
	var actions []Action

	i := 0
	for i < len(doc) {
		if doc[i] != '!' || i+1 >= len(doc) || doc[i+1] != '`' || !scanned.InSafeRange(i) {
			i++
			continue
		}

		n := runLength(doc, i+1, '`')
		bodyStart := i + 1 + n

		end := findCloseRun(doc, bodyStart, n)
		if end < 0 {
			i = bodyStart
			continue
		}

		text := strings.TrimSpace(doc[bodyStart:end])
		if text == "" {
			i = end + n
			continue
		}

		actions = append(actions, Command{
			Span: Span{OriginalText: doc[i : end+n], Index: i},
			Text: text,
		})
		i = end + n
	}

	return actions
}

// findCloseRun locates the next backtick run of exactly length n before the
// end of the line. Runs of a different length are skipped whole.
func findCloseRun(doc string, from, n int) int {
	for j := from; j < len(doc) && doc[j] != '\n'; j++ {
		if doc[j] != '`' {
			continue
		}
		run := runLength(doc, j, '`')
		if run == n {
			return j
		}
		j += run - 1
	}
	return -1
}

// parseFences turns top-level fenced blocks whose first interior line is a
// shebang into CodeFence actions. Fences nested inside another unsafe block
// never appear in UnsafeStarts, so they are skipped structurally.
func parseFences(doc string, scanned scan.Result) []Action {
	var actions []Action

	for _, start := range scanned.UnsafeStarts {
		n := runLength(doc, start, doc[start])
		fenceChar := doc[start]

		openEnd := lineEnd(doc, start)
		lang := strings.TrimSpace(doc[start+n : openEnd])
		interiorStart := openEnd
		if interiorStart < len(doc) {
			interiorStart++ // past the newline
		}

		closeStart, closeRunEnd := findClosingFence(doc, interiorStart, fenceChar, n)
		if closeStart < 0 {
			continue // unterminated fence cannot execute
		}

		interior := doc[interiorStart:closeStart]
		firstLine, rest := splitFirstLine(interior)
		if !strings.HasPrefix(firstLine, "#!") {
			continue
		}

		actions = append(actions, CodeFence{
			Span:        Span{OriginalText: doc[start:closeRunEnd], Index: start},
			Interpreter: strings.TrimRight(firstLine, "\r"),
			Code:        rest,
			Lang:        lang,
		})
	}

	return actions
}

// findClosingFence scans line by line for a closing fence run. Returns the
// offset of the closing line and the offset just past its fence characters.
func findClosingFence(doc string, from int, fenceChar byte, minLen int) (int, int) {
	for i := from; i <= len(doc); {
		if i >= len(doc) {
			return -1, -1
		}
		run := runLength(doc, i, fenceChar)
		if run >= minLen && restOfLineBlank(doc, i+run) {
			return i, i + run
		}
		i = lineEnd(doc, i)
		if i < len(doc) {
			i++
		} else {
			return -1, -1
		}
	}
	return -1, -1
}

func runLength(doc string, i int, ch byte) int {
	n := 0
	for i+n < len(doc) && doc[i+n] == ch {
		n++
	}
	return n
}

func lineEnd(doc string, i int) int {
	for i < len(doc) && doc[i] != '\n' {
		i++
	}
	return i
}

func restOfLineBlank(doc string, i int) bool {
	for ; i < len(doc) && doc[i] != '\n'; i++ {
		if doc[i] != ' ' && doc[i] != '\t' && doc[i] != '\r' {
			return false
		}
	}
	return true
}

func splitFirstLine(s string) (first, rest string) {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx], s[idx+1:]
	}
	return s, ""
}

// precededByWordChar rejects @ matches glued to an identifier, which is what
// distinguishes an import from the local part of an email address.
func precededByWordChar(doc string, offset int) bool {
	if offset == 0 {
		return false
	}
	c := doc[offset-1]
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// trimTrailingPunct drops sentence punctuation that the greedy match folded
// into a path or URL ("see @notes.md." should import notes.md).
func trimTrailingPunct(s string) string {
	return strings.TrimRight(s, ".,;:!?")
}

// trimPathMatch additionally drops unbalanced closing brackets, so a
// directive inside "[@c.md]" keeps its bracket out of the path while a
// character class like "[ab].md" survives.
func trimPathMatch(s string) string {
	s = trimTrailingPunct(s)
	for strings.HasSuffix(s, "]") && strings.Count(s, "]") > strings.Count(s, "[") {
		s = trimTrailingPunct(s[:len(s)-1])
	}
	return s
}
