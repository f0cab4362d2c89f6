package pipeline

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/nao1215/badwords/internal/config"
	"github.com/nao1215/badwords/internal/fileselect"
	applog "github.com/nao1215/badwords/internal/log"
	"github.com/nao1215/badwords/internal/pattern"
	"github.com/nao1215/badwords/internal/wordlist"
)

// newWordListServer serves lists by language and counts requests.
func newWordListServer(t *testing.T, lists map[string]string) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		list, ok := lists[strings.TrimPrefix(r.URL.Path, "/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(list)) //nolint:errcheck // Test server
	}))
	t.Cleanup(srv.Close)

	return srv, &requests
}

// writeTree creates files relative to root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}

func testConfig(baseURL string) *config.Config {
	cfg := config.NewConfig()
	cfg.Language = "en"
	cfg.BaseURL = baseURL
	return cfg
}

func mustSource(t *testing.T, cfg *config.Config) *wordlist.Source {
	t.Helper()

	source, err := NewSource(cfg, nil)
	if err != nil {
		t.Fatalf("NewSource() error: %v", err)
	}
	return source
}

// TestDefaultPipeline_StepOrder tests that the default pipeline wires all steps.
func TestDefaultPipeline_StepOrder(t *testing.T) {
	t.Parallel()

	cfg := testConfig("http://127.0.0.1:1")
	p := DefaultPipeline(cfg, mustSource(t, cfg), nil)

	want := []string{"globs", "fetch", "build_pattern", "select", "scan"}
	got := p.StepNames()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("StepNames() = %v, want %v", got, want)
	}
}

// TestDefaultPipeline_FindsFirstMatch tests a complete run that finds a bad word.
func TestDefaultPipeline_FindsFirstMatch(t *testing.T) {
	t.Parallel()

	srv, requests := newWordListServer(t, map[string]string{"en": "bad\r\n\nworse\n"})
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.txt":    "hello world",
		"sub/b.md": "this is bad",
		"sub/c.md": "worse",
	})

	cfg := testConfig(srv.URL)
	run := NewRun(cfg.Language, root)

	if err := DefaultPipeline(cfg, mustSource(t, cfg), nil).Execute(context.Background(), run); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	report := run.Report
	if !report.Result.IsFound() {
		t.Fatal("expected a match")
	}
	m := report.Result.Match
	if m.File != filepath.Join(root, "sub", "b.md") || m.Start != 8 || m.End != 11 || m.Word != "bad" {
		t.Errorf("unexpected match %+v", m)
	}
	if report.FilesScanned != 2 {
		t.Errorf("FilesScanned = %d, want 2", report.FilesScanned)
	}
	if report.WordCount != 2 {
		t.Errorf("WordCount = %d, want 2", report.WordCount)
	}
	if report.WordListURL != srv.URL+"/en" {
		t.Errorf("WordListURL = %q", report.WordListURL)
	}
	if report.WordListDigest != wordlist.Digest([]byte("bad\r\n\nworse\n")) {
		t.Errorf("unexpected digest %q", report.WordListDigest)
	}
	if report.Status() != "found" {
		t.Errorf("Status() = %q, want found", report.Status())
	}
	if requests.Load() != 1 {
		t.Errorf("expected exactly one fetch, got %d", requests.Load())
	}
}

// TestDefaultPipeline_Clean tests a run over a tree without bad words.
func TestDefaultPipeline_Clean(t *testing.T) {
	t.Parallel()

	srv, _ := newWordListServer(t, map[string]string{"en": "bad\n"})
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.txt":    "badger",
		"Makefile": "bad",
		"b.go":     "package sinbad",
	})

	cfg := testConfig(srv.URL)
	run := NewRun(cfg.Language, root)

	if err := DefaultPipeline(cfg, mustSource(t, cfg), nil).Execute(context.Background(), run); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if run.Report.Result.IsFound() {
		t.Errorf("unexpected match %+v", run.Report.Result.Match)
	}
	if run.Report.FilesScanned != 2 {
		t.Errorf("FilesScanned = %d, want 2 (files without extension are skipped)", run.Report.FilesScanned)
	}
	if run.Report.Status() != "clean" {
		t.Errorf("Status() = %q, want clean", run.Report.Status())
	}
}

// TestDefaultPipeline_Excludes tests that excluded files are never scanned.
func TestDefaultPipeline_Excludes(t *testing.T) {
	t.Parallel()

	srv, _ := newWordListServer(t, map[string]string{"en": "bad\n"})
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"vendor/lib.go": "bad",
		"gen/out.txt":   "bad",
		"main.go":       "good",
	})

	cfg := testConfig(srv.URL)
	cfg.Excludes = []string{"vendor/**", filepath.ToSlash(filepath.Join(root, "gen")) + "/**"}
	run := NewRun(cfg.Language, root)

	if err := DefaultPipeline(cfg, mustSource(t, cfg), nil).Execute(context.Background(), run); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if run.Report.Result.IsFound() {
		t.Errorf("excluded file was scanned: %+v", run.Report.Result.Match)
	}
	if run.Report.FilesScanned != 1 {
		t.Errorf("FilesScanned = %d, want 1", run.Report.FilesScanned)
	}
	if len(run.Report.Excludes) != 2 {
		t.Errorf("Excludes = %v", run.Report.Excludes)
	}
}

// TestDefaultPipeline_FetchError tests that a failed fetch aborts before any file is opened.
func TestDefaultPipeline_FetchError(t *testing.T) {
	t.Parallel()

	srv, requests := newWordListServer(t, map[string]string{})
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": "bad"})

	cfg := testConfig(srv.URL)
	cfg.Language = "xx"
	run := NewRun(cfg.Language, root)

	err := DefaultPipeline(cfg, mustSource(t, cfg), nil).Execute(context.Background(), run)

	var fetchErr *wordlist.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *wordlist.FetchError, got %T: %v", err, err)
	}
	if fetchErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", fetchErr.StatusCode)
	}
	if run.Files != nil || run.Report.FilesScanned != 0 {
		t.Error("no file may be selected or scanned after a failed fetch")
	}
	if got := strings.Join(run.Report.PerformedSteps, ","); got != "globs" {
		t.Errorf("unexpected performed steps %q", got)
	}
	if run.Report.Status() != "error" {
		t.Errorf("Status() = %q, want error", run.Report.Status())
	}
	if requests.Load() != 1 {
		t.Errorf("expected exactly one request, got %d", requests.Load())
	}
}

// TestDefaultPipeline_EmptyWordList tests that a list without words is a build error.
func TestDefaultPipeline_EmptyWordList(t *testing.T) {
	t.Parallel()

	srv, _ := newWordListServer(t, map[string]string{"en": "\n  \n\r\n"})
	cfg := testConfig(srv.URL)
	run := NewRun(cfg.Language, t.TempDir())

	err := DefaultPipeline(cfg, mustSource(t, cfg), nil).Execute(context.Background(), run)
	if !errors.Is(err, pattern.ErrEmptyWordList) {
		t.Fatalf("expected ErrEmptyWordList, got %v", err)
	}
	if run.Report.FilesScanned != 0 {
		t.Error("no file may be scanned without a pattern")
	}
}

// TestDefaultPipeline_MissingRoot tests that a missing root fails the select step.
func TestDefaultPipeline_MissingRoot(t *testing.T) {
	t.Parallel()

	srv, _ := newWordListServer(t, map[string]string{"en": "bad\n"})
	cfg := testConfig(srv.URL)
	run := NewRun(cfg.Language, filepath.Join(t.TempDir(), "missing"))

	err := DefaultPipeline(cfg, mustSource(t, cfg), nil).Execute(context.Background(), run)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
	if got := strings.Join(run.Report.PerformedSteps, ","); got != "globs,fetch,build_pattern" {
		t.Errorf("unexpected performed steps %q", got)
	}
}

// TestDefaultPipeline_InvalidExclude tests that a malformed glob aborts the run
// before the word list is requested.
func TestDefaultPipeline_InvalidExclude(t *testing.T) {
	t.Parallel()

	srv, requests := newWordListServer(t, map[string]string{"en": "bad\n"})
	cfg := testConfig(srv.URL)
	cfg.Excludes = []string{"vendor/**", "[abc"}
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": "bad"})
	run := NewRun(cfg.Language, root)

	err := DefaultPipeline(cfg, mustSource(t, cfg), nil).Execute(context.Background(), run)

	var globErr *fileselect.GlobConfigError
	if !errors.As(err, &globErr) {
		t.Fatalf("expected *fileselect.GlobConfigError, got %T: %v", err, err)
	}
	if globErr.Pattern != "[abc" {
		t.Errorf("Pattern = %q", globErr.Pattern)
	}
	if got := requests.Load(); got != 0 {
		t.Errorf("expected no word list request, got %d", got)
	}
	if len(run.Report.PerformedSteps) != 0 {
		t.Errorf("unexpected performed steps %v", run.Report.PerformedSteps)
	}
	if run.Report.FilesScanned != 0 {
		t.Error("no file may be scanned after a glob error")
	}
}

// TestSetupPipeline_InvalidExclude tests that with several roots a malformed
// glob fails the shared setup once instead of every root.
func TestSetupPipeline_InvalidExclude(t *testing.T) {
	t.Parallel()

	srv, requests := newWordListServer(t, map[string]string{"en": "bad\n"})
	cfg := testConfig(srv.URL)
	cfg.Excludes = []string{"[abc"}
	base := NewRun(cfg.Language, "")

	err := NewSetupPipeline(cfg, mustSource(t, cfg), nil).Execute(context.Background(), base)

	var globErr *fileselect.GlobConfigError
	if !errors.As(err, &globErr) {
		t.Fatalf("expected *fileselect.GlobConfigError, got %T: %v", err, err)
	}
	if got := requests.Load(); got != 0 {
		t.Errorf("expected no word list request, got %d", got)
	}
}

// TestSelectStep_RequiresGlobs tests that select refuses a run without compiled globs.
func TestSelectStep_RequiresGlobs(t *testing.T) {
	t.Parallel()

	run := NewRun("en", t.TempDir())
	if err := NewSelectStep(nil).Do(context.Background(), run); !errors.Is(err, ErrGlobsNotCompiled) {
		t.Errorf("expected ErrGlobsNotCompiled, got %v", err)
	}
}

// TestGlobsStep tests that the compiled globs and their sources land in the run.
func TestGlobsStep(t *testing.T) {
	t.Parallel()

	run := NewRun("en", t.TempDir())
	if err := NewGlobsStep([]string{"vendor/**", "*.min.js"}, nil).Do(context.Background(), run); err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if run.Globs == nil {
		t.Fatal("expected compiled globs")
	}
	if !slices.Equal(run.Report.Excludes, []string{"vendor/**", "*.min.js"}) {
		t.Errorf("Excludes = %v", run.Report.Excludes)
	}
	if run.Globs.Selected("vendor/lib.go", "/x/vendor/lib.go") {
		t.Error("excluded path must not be selected")
	}
	if !run.Globs.Selected("main.go", "/x/main.go") {
		t.Error("main.go must be selected")
	}
}

// TestBuildPatternStep_InstallsCensor tests that the compiled pattern masks later log output.
func TestBuildPatternStep_InstallsCensor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := applog.NewLogger(&buf, true)

	run := NewRun("en", ".")
	run.Words = []string{"bad"}

	step := NewBuildPatternStep(WithBuildLogger(logger))
	if err := step.Do(context.Background(), run); err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if run.Pattern == nil {
		t.Fatal("expected a compiled pattern")
	}

	buf.Reset()
	logger.Warn("failed to open file", "file", "/tmp/bad.txt")
	if strings.Contains(buf.String(), "bad.txt") {
		t.Errorf("log output not censored: %q", buf.String())
	}
}

// TestBuildPatternStep_RawWords tests that raw words are compiled as expressions.
func TestBuildPatternStep_RawWords(t *testing.T) {
	t.Parallel()

	run := NewRun("en", ".")
	run.Words = []string{"ba+d"}

	if err := NewBuildPatternStep(WithRawWords(true)).Do(context.Background(), run); err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if !run.Pattern.MatchString("so baaad") {
		t.Error("expected raw expression to match")
	}
}
