package resolve

// Stack is the chain of canonical file paths currently being expanded, from
// the outermost document inward. It is immutable: Push copies, so sibling
// imports resolved concurrently never see each other's entries.
type Stack struct {
	paths []string
}

// NewStack starts a chain at the given canonical root path. An empty root
// yields an empty stack, which is what command-only expansion of an
// anonymous document uses.
func NewStack(root string) Stack {
	if root == "" {
		return Stack{}
	}
	return Stack{paths: []string{root}}
}

// Contains reports whether the canonical path is already on the chain.
func (s Stack) Contains(path string) bool {
	for _, p := range s.paths {
		if p == path {
			return true
		}
	}
	return false
}

// Push returns a new stack extended with the canonical path. The receiver
// is unchanged.
func (s Stack) Push(path string) Stack {
	next := make([]string, len(s.paths)+1)
	copy(next, s.paths)
	next[len(s.paths)] = path
	return Stack{paths: next}
}

// Chain returns the paths outermost first. The returned slice is a copy.
func (s Stack) Chain() []string {
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}
