package pathutil

import (
	"errors"
	"fmt"
)

// ErrPathRequired is returned when an empty path is resolved.
var ErrPathRequired = errors.New("path is required")

// HomeDirError is returned when "~" expansion cannot find the home directory.
type HomeDirError struct {
	Cause error
}

func (e *HomeDirError) Error() string {
	return fmt.Sprintf("cannot expand ~: %v", e.Cause)
}
func (e *HomeDirError) Unwrap() error { return e.Cause }

// CanonicalError is returned when a path cannot be canonicalised.
type CanonicalError struct {
	Path  string
	Cause error
}

func (e *CanonicalError) Error() string {
	return fmt.Sprintf("cannot canonicalise %s: %v", e.Path, e.Cause)
}
func (e *CanonicalError) Unwrap() error { return e.Cause }
