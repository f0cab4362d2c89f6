// Package fileselect enumerates the files a scan looks at.
//
// A GlobSet holds one inclusion glob and any number of exclusion globs. A
// Selector walks a root directory and lazily yields every regular file the
// GlobSet selects, in the order filepath.WalkDir visits them (lexical order
// within each directory).
//
// Globs use github.com/gobwas/glob syntax with '/' as the separator:
//   - "*" matches within one path segment
//   - "**" matches across segments
//   - "{a,b}" matches either alternative
//
// Exclusion globs are tested against the slash-separated path relative to
// the root and then against the absolute path, so both "vendor/**" and
// "**/vendor/**" exclude a top-level vendor directory.
package fileselect
