package fileselect

import (
	"io/fs"
	"iter"
	"log/slog"
	"path/filepath"
)

// Selector walks a root directory and yields the files a GlobSet selects.
type Selector struct {
	root   string
	globs  *GlobSet
	logger *slog.Logger
}

// Option configures a Selector.
type Option func(*Selector)

// WithLogger sets the logger used for skipped entries.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Selector) {
		s.logger = logger
	}
}

// New creates a Selector for root.
func New(root string, globs *GlobSet, opts ...Option) *Selector {
	s := &Selector{
		root:  root,
		globs: globs,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Files returns a lazy sequence of selected file paths.
//
// The directory is walked while the sequence is consumed; breaking out of
// the range loop stops the walk. Calling Files again starts a new walk.
// Entries that cannot be read (permission denied, removed during the walk)
// are left out of the sequence and logged at debug level.
func (s *Selector) Files() iter.Seq[string] {
	return func(yield func(string) bool) {
		absRoot, err := filepath.Abs(s.root)
		if err != nil {
			absRoot = s.root
		}

		_ = filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				s.logger.Debug("skipping unreadable entry", "path", path, "error", err)
				return nil
			}

			if !d.Type().IsRegular() {
				return nil
			}

			rel, abs := s.paths(absRoot, path, d)
			if !s.globs.Included(rel) {
				return nil
			}
			if pattern, ok := s.globs.ExcludedBy(rel, abs); ok {
				s.logger.Debug("excluded file", "path", path, "pattern", pattern)
				return nil
			}

			if !yield(path) {
				return fs.SkipAll
			}
			return nil
		})
	}
}

// paths returns the slash-separated root-relative and absolute forms of path.
func (s *Selector) paths(absRoot, path string, d fs.DirEntry) (string, string) {
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == "." {
		// The root itself is a file.
		return d.Name(), filepath.ToSlash(absRoot)
	}
	return filepath.ToSlash(rel), filepath.ToSlash(filepath.Join(absRoot, rel))
}

// Collect walks the whole tree and returns the selected files.
// It is a convenience for listings and tests; scans consume Files lazily.
func (s *Selector) Collect() []string {
	var files []string
	for f := range s.Files() {
		files = append(files, f)
	}
	return files
}
