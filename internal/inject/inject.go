// Package inject splices resolved content back into the document.
package inject

import (
	"sort"

	"mdweave/internal/action"
)

// Resolved pairs an action with the content that replaces its original text.
type Resolved struct {
	Action  action.Action
	Content string
}

// Apply replaces each action's original text with its resolved content.
// Splices run in descending source order so earlier offsets stay valid
// while later ones are rewritten.
func Apply(doc string, resolved []Resolved) string {
	if len(resolved) == 0 {
		return doc
	}

	ordered := make([]Resolved, len(resolved))
	copy(ordered, resolved)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Action.Source().Index > ordered[j].Action.Source().Index
	})

	for _, r := range ordered {
		src := r.Action.Source()
		doc = doc[:src.Index] + r.Content + doc[src.Index+len(src.OriginalText):]
	}
	return doc
}
