package fileselect

import (
	"github.com/gobwas/glob"
)

// DefaultInclude selects every file that has an extension, at any depth.
// The first alternative covers files directly under the root, because "**/"
// needs at least one directory segment.
const DefaultInclude = "{*.*,**/*.*}"

// separator is the path separator used by all globs.
const separator = '/'

// GlobSet decides whether a path takes part in a scan.
// A path is selected iff it matches the inclusion glob and none of the
// exclusion globs. A GlobSet is immutable once built.
type GlobSet struct {
	include    glob.Glob
	includeSrc string
	excludes   []compiledGlob
}

type compiledGlob struct {
	src string
	g   glob.Glob
}

// NewGlobSet compiles the inclusion glob and the exclusion globs.
// An empty include uses DefaultInclude. The first pattern that fails to
// compile is returned as *GlobConfigError.
func NewGlobSet(include string, excludes []string) (*GlobSet, error) {
	if include == "" {
		include = DefaultInclude
	}

	inc, err := glob.Compile(include, separator)
	if err != nil {
		return nil, &GlobConfigError{Pattern: include, Err: err}
	}

	gs := &GlobSet{
		include:    inc,
		includeSrc: include,
		excludes:   make([]compiledGlob, 0, len(excludes)),
	}

	for _, pattern := range excludes {
		g, err := glob.Compile(pattern, separator)
		if err != nil {
			return nil, &GlobConfigError{Pattern: pattern, Err: err}
		}
		gs.excludes = append(gs.excludes, compiledGlob{src: pattern, g: g})
	}

	return gs, nil
}

// Included reports whether the root-relative path matches the inclusion glob.
func (gs *GlobSet) Included(rel string) bool {
	return gs.include.Match(rel)
}

// Excluded reports whether any exclusion glob matches the path.
// Exclusions are tried in the order they were given and the first hit wins.
func (gs *GlobSet) Excluded(rel, abs string) bool {
	_, ok := gs.ExcludedBy(rel, abs)
	return ok
}

// ExcludedBy returns the first exclusion glob that matches the path.
func (gs *GlobSet) ExcludedBy(rel, abs string) (string, bool) {
	for _, ex := range gs.excludes {
		if ex.g.Match(rel) || ex.g.Match(abs) {
			return ex.src, true
		}
	}
	return "", false
}

// Selected reports whether the path is included and not excluded.
func (gs *GlobSet) Selected(rel, abs string) bool {
	return gs.Included(rel) && !gs.Excluded(rel, abs)
}

// Include returns the inclusion glob source.
func (gs *GlobSet) Include() string {
	return gs.includeSrc
}

// Excludes returns the exclusion glob sources in order.
func (gs *GlobSet) Excludes() []string {
	out := make([]string, len(gs.excludes))
	for i, ex := range gs.excludes {
		out[i] = ex.src
	}
	return out
}
