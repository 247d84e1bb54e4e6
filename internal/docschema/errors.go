package docschema

import "fmt"

// FrontmatterError is returned when frontmatter exists but cannot be decoded.
type FrontmatterError struct {
	Cause error
}

func (e *FrontmatterError) Error() string {
	return fmt.Sprintf("invalid frontmatter: %v", e.Cause)
}
func (e *FrontmatterError) Unwrap() error { return e.Cause }
