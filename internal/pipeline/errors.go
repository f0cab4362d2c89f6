package pipeline

import "errors"

// ErrGlobsNotCompiled is returned by SelectStep when the run has no GlobSet,
// i.e. GlobsStep did not run before it.
var ErrGlobsNotCompiled = errors.New("file globs not compiled: run the globs step before select")
