package fileselect

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// writeTree creates files (relative slash paths) under root.
func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()

	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("content"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
}

// relAll converts absolute paths under root to slash relative paths.
func relAll(t *testing.T, root string, paths []string) []string {
	t.Helper()

	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			t.Fatalf("rel: %v", err)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

// TestNewGlobSet tests glob compilation.
func TestNewGlobSet(t *testing.T) {
	t.Parallel()

	t.Run("defaults include", func(t *testing.T) {
		t.Parallel()
		gs, err := NewGlobSet("", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gs.Include() != DefaultInclude {
			t.Errorf("Include() = %q", gs.Include())
		}
	})

	t.Run("malformed exclusion fails fast", func(t *testing.T) {
		t.Parallel()
		_, err := NewGlobSet("", []string{"ok/**", "[unclosed"})
		var globErr *GlobConfigError
		if !errors.As(err, &globErr) {
			t.Fatalf("expected *GlobConfigError, got %v", err)
		}
		if globErr.Pattern != "[unclosed" {
			t.Errorf("Pattern = %q", globErr.Pattern)
		}
	})

	t.Run("keeps exclusion order", func(t *testing.T) {
		t.Parallel()
		gs, err := NewGlobSet("", []string{"b/**", "a/**"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(gs.Excludes(), []string{"b/**", "a/**"}) {
			t.Errorf("Excludes() = %v", gs.Excludes())
		}
	})
}

// TestGlobSetSelected tests inclusion and exclusion decisions.
func TestGlobSetSelected(t *testing.T) {
	t.Parallel()

	gs, err := NewGlobSet("", []string{"vendor/**", "**/*.min.js", "/abs/skip/**"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		rel  string
		abs  string
		want bool
	}{
		{rel: "main.go", abs: "/abs/main.go", want: true},
		{rel: "dir/sub/file.txt", abs: "/abs/dir/sub/file.txt", want: true},
		{rel: ".gitignore", abs: "/abs/.gitignore", want: true},
		{rel: "Makefile", abs: "/abs/Makefile", want: false},
		{rel: "dir/LICENSE", abs: "/abs/dir/LICENSE", want: false},
		{rel: "vendor/lib/x.go", abs: "/abs/vendor/lib/x.go", want: false},
		{rel: "web/app.min.js", abs: "/abs/web/app.min.js", want: false},
		{rel: "web/app.js", abs: "/abs/web/app.js", want: true},
		{rel: "skip/me.txt", abs: "/abs/skip/me.txt", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			t.Parallel()
			if got := gs.Selected(tt.rel, tt.abs); got != tt.want {
				t.Errorf("Selected(%q) = %v, want %v", tt.rel, got, tt.want)
			}
		})
	}
}

// TestSelectorFiles tests walking a directory tree.
func TestSelectorFiles(t *testing.T) {
	t.Parallel()

	t.Run("yields included files in walk order", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeTree(t, root, "b.txt", "a.txt", "sub/c.md", "sub/deeper/d.go", "README")

		gs, err := NewGlobSet("", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := relAll(t, root, New(root, gs).Collect())
		want := []string{"a.txt", "b.txt", "sub/c.md", "sub/deeper/d.go"}
		if !slices.Equal(got, want) {
			t.Errorf("files = %v, want %v", got, want)
		}
	})

	t.Run("excluded files never appear", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeTree(t, root, "keep.txt", "node_modules/pkg/index.js", "gen/out.txt", "gen/keep/out.txt", "secret.env")

		gs, err := NewGlobSet("", []string{"node_modules/**", "gen/*.txt", "*.env"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := relAll(t, root, New(root, gs).Collect())
		want := []string{"gen/keep/out.txt", "keep.txt"}
		if !slices.Equal(got, want) {
			t.Errorf("files = %v, want %v", got, want)
		}
	})

	t.Run("absolute exclusion patterns", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeTree(t, root, "x/one.txt", "y/two.txt")

		gs, err := NewGlobSet("", []string{filepath.ToSlash(filepath.Join(root, "x")) + "/**"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := relAll(t, root, New(root, gs).Collect())
		if !slices.Equal(got, []string{"y/two.txt"}) {
			t.Errorf("files = %v", got)
		}
	})

	t.Run("stops walking when consumer stops", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeTree(t, root, "1.txt", "2.txt", "3.txt")

		gs, err := NewGlobSet("", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var seen []string
		for f := range New(root, gs).Files() {
			seen = append(seen, f)
			break
		}
		if len(seen) != 1 {
			t.Errorf("expected exactly one file, got %v", seen)
		}
	})

	t.Run("sequence is restartable", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeTree(t, root, "1.txt", "2.txt")

		gs, err := NewGlobSet("", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		s := New(root, gs)
		first := s.Collect()
		second := s.Collect()
		if !slices.Equal(first, second) || len(first) != 2 {
			t.Errorf("first = %v, second = %v", first, second)
		}
	})

	t.Run("missing root yields nothing", func(t *testing.T) {
		t.Parallel()

		gs, err := NewGlobSet("", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := New(filepath.Join(t.TempDir(), "missing"), gs).Collect(); len(got) != 0 {
			t.Errorf("expected no files, got %v", got)
		}
	})

	t.Run("root may be a single file", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeTree(t, root, "only.txt")
		file := filepath.Join(root, "only.txt")

		gs, err := NewGlobSet("", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := New(file, gs).Collect()
		if !slices.Equal(got, []string{file}) {
			t.Errorf("files = %v", got)
		}
	})
}
