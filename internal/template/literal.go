package template

import "strings"

// Literal markers delimit regions the substitution stage must never rewrite.
// They are HTML comments so any marker that survives into rendered markdown
// is invisible.
const (
	literalOpen  = "<!--mdweave:literal-->"
	literalClose = "<!--/mdweave:literal-->"
)

// WrapLiteral marks text as verbatim so later substitution passes leave it alone.
func WrapLiteral(text string) string {
	return literalOpen + text + literalClose
}

// StripLiteralMarkers removes literal markers, leaving their content in place.
// Call it once, after the final substitution pass.
func StripLiteralMarkers(text string) string {
	text = strings.ReplaceAll(text, literalOpen, "")
	return strings.ReplaceAll(text, literalClose, "")
}
