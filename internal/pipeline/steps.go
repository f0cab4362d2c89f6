package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nao1215/badwords/internal/config"
	"github.com/nao1215/badwords/internal/fileselect"
	applog "github.com/nao1215/badwords/internal/log"
	"github.com/nao1215/badwords/internal/pattern"
	"github.com/nao1215/badwords/internal/scanner"
	"github.com/nao1215/badwords/internal/wordlist"
)

// FetchStep downloads and parses the word list.
//
// Design decision: Fetching is a separate step because it is the only
// network operation. When it fails nothing else runs, so no file is ever
// opened for a run without a word list.
type FetchStep struct {
	source *wordlist.Source
	logger *slog.Logger
}

// NewFetchStep creates a step that fetches the word list from source.
func NewFetchStep(source *wordlist.Source, logger *slog.Logger) *FetchStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &FetchStep{source: source, logger: logger}
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return "fetch"
}

// Do executes the fetch step.
func (s *FetchStep) Do(ctx context.Context, run *Run) error {
	report := run.Report
	report.WordListURL = s.source.URL(report.Language)

	raw, err := s.source.Fetch(ctx, report.Language)
	if err != nil {
		return err
	}

	run.Raw = raw
	run.Words = wordlist.Parse(raw)
	report.WordListDigest = wordlist.Digest(raw)
	report.WordCount = len(run.Words)

	s.logger.Debug("word list ready",
		"url", report.WordListURL,
		"words", report.WordCount,
		"digest", report.WordListDigest,
	)
	return nil
}

// BuildPatternStep compiles the word list into a pattern.
type BuildPatternStep struct {
	options []pattern.Option
	logger  *slog.Logger
}

// BuildPatternStepOption configures a BuildPatternStep.
type BuildPatternStepOption func(*BuildPatternStep)

// WithRawWords compiles words as regular expression fragments.
func WithRawWords(raw bool) BuildPatternStepOption {
	return func(s *BuildPatternStep) {
		if raw {
			s.options = append(s.options, pattern.WithRawWords())
		}
	}
}

// WithBuildLogger sets the logger of the build step.
// Once the pattern is compiled it is installed as the censor of this logger.
func WithBuildLogger(logger *slog.Logger) BuildPatternStepOption {
	return func(s *BuildPatternStep) {
		s.logger = logger
	}
}

// NewBuildPatternStep creates a pattern compilation step.
func NewBuildPatternStep(opts ...BuildPatternStepOption) *BuildPatternStep {
	s := &BuildPatternStep{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Name returns the step name.
func (s *BuildPatternStep) Name() string {
	return "build_pattern"
}

// Do executes the build step.
func (s *BuildPatternStep) Do(_ context.Context, run *Run) error {
	p, err := pattern.Build(run.Words, s.options...)
	if err != nil {
		return fmt.Errorf("failed to build pattern from %s: %w", run.Report.WordListURL, err)
	}
	run.Pattern = p

	if applog.SetCensor(s.logger, p) {
		s.logger.Debug("log censoring enabled", "words", p.WordCount())
	}
	return nil
}

// GlobsStep compiles the include and exclude globs.
// It runs before the word list is fetched so a malformed pattern never costs
// a network round trip.
type GlobsStep struct {
	excludes []string
	logger   *slog.Logger
}

// NewGlobsStep creates a step that compiles the given exclusion globs.
func NewGlobsStep(excludes []string, logger *slog.Logger) *GlobsStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &GlobsStep{excludes: excludes, logger: logger}
}

// Name returns the step name.
func (s *GlobsStep) Name() string {
	return "globs"
}

// Do executes the globs step.
func (s *GlobsStep) Do(_ context.Context, run *Run) error {
	globs, err := fileselect.NewGlobSet(fileselect.DefaultInclude, s.excludes)
	if err != nil {
		return err
	}

	run.Globs = globs
	run.Report.Excludes = globs.Excludes()
	s.logger.Debug("globs compiled", "include", globs.Include(), "excludes", len(s.excludes))
	return nil
}

// SelectStep prepares the lazy file sequence under the run's root.
// It uses the GlobSet compiled by GlobsStep.
type SelectStep struct {
	logger *slog.Logger
}

// NewSelectStep creates a file selection step.
func NewSelectStep(logger *slog.Logger) *SelectStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &SelectStep{logger: logger}
}

// Name returns the step name.
func (s *SelectStep) Name() string {
	return "select"
}

// Do executes the select step.
// The root is resolved to an absolute path so that reported file paths are
// absolute and absolute exclusion patterns can match.
func (s *SelectStep) Do(_ context.Context, run *Run) error {
	if run.Globs == nil {
		return ErrGlobsNotCompiled
	}

	root, err := filepath.Abs(run.Report.Root)
	if err != nil {
		return fmt.Errorf("failed to resolve root %s: %w", run.Report.Root, err)
	}
	if _, err := os.Stat(root); err != nil {
		return fmt.Errorf("failed to access root: %w", err)
	}

	run.Report.Root = root
	run.Files = fileselect.New(root, run.Globs, fileselect.WithLogger(s.logger)).Files()
	return nil
}

// ScanStep scans the selected files until the first match.
type ScanStep struct {
	workers int
	logger  *slog.Logger
}

// NewScanStep creates a scan step. workers above 1 enables the parallel scanner.
func NewScanStep(workers int, logger *slog.Logger) *ScanStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScanStep{workers: workers, logger: logger}
}

// Name returns the step name.
func (s *ScanStep) Name() string {
	return "scan"
}

// Do executes the scan step.
func (s *ScanStep) Do(ctx context.Context, run *Run) error {
	sc := scanner.New(run.Pattern,
		scanner.WithLogger(s.logger),
		scanner.WithWorkers(s.workers),
	)

	result, stats, err := sc.Scan(ctx, run.Files)
	run.Report.FilesScanned += stats.FilesScanned
	run.Report.FileErrors = append(run.Report.FileErrors, stats.FileErrors...)
	if err != nil {
		return err
	}

	run.Report.Result = result
	return nil
}

// NewSetupPipeline creates a pipeline that compiles the globs, fetches the
// word list and compiles the pattern. Its Run can be fanned out to several
// roots with Run.ForRoot and BatchProcessor.
func NewSetupPipeline(cfg *config.Config, source *wordlist.Source, logger *slog.Logger) *Pipeline {
	p := New(WithLogger(logger))
	p.AddSteps(
		NewGlobsStep(cfg.Excludes, logger),
		NewFetchStep(source, logger),
		NewBuildPatternStep(WithRawWords(cfg.RawWords), WithBuildLogger(logger)),
	)
	return p
}

// NewRootPipeline creates a pipeline that selects and scans the files of a
// Run whose globs and pattern are already compiled.
func NewRootPipeline(cfg *config.Config, logger *slog.Logger) *Pipeline {
	p := New(WithLogger(logger))
	p.AddSteps(
		NewSelectStep(logger),
		NewScanStep(cfg.Workers, logger),
	)
	return p
}

// DefaultPipeline creates a pipeline with all steps for a single root:
// globs, fetch, build_pattern, select and scan.
//
// Design decision: We provide a default pipeline because:
// 1. It reduces boilerplate in the CLI
// 2. It ensures consistent ordering
func DefaultPipeline(cfg *config.Config, source *wordlist.Source, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := New(WithLogger(logger))
	p.AddSteps(NewSetupPipeline(cfg, source, logger).steps...)
	p.AddSteps(NewRootPipeline(cfg, logger).steps...)
	return p
}

// NewSource creates the word list source described by cfg.
func NewSource(cfg *config.Config, logger *slog.Logger) (*wordlist.Source, error) {
	client, err := wordlist.NewHTTPClient(cfg.Timeout, cfg.ProxyAddress)
	if err != nil {
		return nil, err
	}

	return wordlist.NewSource(cfg.BaseURL,
		wordlist.WithHTTPClient(client),
		wordlist.WithUserAgent(cfg.UserAgent),
		wordlist.WithMaxBodySize(cfg.MaxBodySize),
		wordlist.WithLogger(logger),
	), nil
}
