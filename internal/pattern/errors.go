package pattern

import (
	"errors"
	"fmt"
)

// ErrEmptyWordList is returned when no usable word was given.
// An alternation without alternatives would match everywhere.
var ErrEmptyWordList = errors.New("word list contains no words")

// BuildError is returned when the combined expression does not compile.
// With escaping enabled this only happens for pathological inputs such as a
// list that exceeds the regexp size limits.
type BuildError struct {
	// Expr is the expression that failed to compile.
	Expr string

	// Err is the error reported by the regexp package.
	Err error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	return fmt.Sprintf("failed to compile bad word pattern: %v", e.Err)
}

// Unwrap returns the compile error.
func (e *BuildError) Unwrap() error {
	return e.Err
}
