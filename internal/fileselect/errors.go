package fileselect

import "fmt"

// GlobConfigError is returned when a glob pattern cannot be compiled.
// It is raised while the GlobSet is built, before any file is walked.
type GlobConfigError struct {
	// Pattern is the offending glob.
	Pattern string

	// Err is the compile error.
	Err error
}

// Error implements the error interface.
func (e *GlobConfigError) Error() string {
	return fmt.Sprintf("invalid glob pattern %q: %v", e.Pattern, e.Err)
}

// Unwrap returns the compile error.
func (e *GlobConfigError) Unwrap() error {
	return e.Err
}
