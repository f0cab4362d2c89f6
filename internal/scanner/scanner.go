package scanner

import (
	"bytes"
	"context"
	"fmt"
	"iter"
	"log/slog"
	"os"

	"github.com/nao1215/badwords/internal/model"
	"github.com/nao1215/badwords/internal/pattern"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Stats summarizes the work done by one Scan call.
type Stats struct {
	// FilesScanned is the number of files whose contents were matched.
	FilesScanned int

	// FileErrors lists files that could not be opened or read.
	FileErrors []model.FileError
}

func (st *Stats) addError(path string, err error) {
	st.FileErrors = append(st.FileErrors, model.FileError{Path: path, Message: err.Error()})
}

// Scanner matches files against a bad word pattern.
//
// A Scanner is not safe for concurrent use: the sequential mode reuses one
// buffer and one decoder across files. Create one Scanner per goroutine.
type Scanner struct {
	pattern *pattern.Pattern
	logger  *slog.Logger
	workers int

	// buf holds the decoded contents of the current file.
	// It is reset before every file instead of being reallocated.
	buf bytes.Buffer

	decoder *encoding.Decoder
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger used to report unreadable files.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// WithWorkers sets the number of files matched concurrently.
// Values below 2 keep the sequential mode.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// New creates a Scanner for the given pattern.
func New(p *pattern.Pattern, opts ...Option) *Scanner {
	s := &Scanner{
		pattern: p,
		workers: 1,
		decoder: unicode.UTF8.NewDecoder(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Scan matches every file of the sequence until the first hit.
//
// It returns model.Found with the first match, or model.Clean once the
// sequence is exhausted. The only error is the context error when ctx is
// cancelled; file level failures are reported in Stats instead.
func (s *Scanner) Scan(ctx context.Context, files iter.Seq[string]) (model.Result, Stats, error) {
	if s.workers > 1 {
		return s.scanParallel(ctx, files)
	}
	return s.scanSequential(ctx, files)
}

func (s *Scanner) scanSequential(ctx context.Context, files iter.Seq[string]) (model.Result, Stats, error) {
	var stats Stats
	s.buf.Reset()

	for path := range files {
		if err := ctx.Err(); err != nil {
			return model.Clean(), stats, err
		}

		m, found, err := matchFile(s.pattern, path, &s.buf, s.decoder)
		if err != nil {
			s.logger.Warn("failed to read file", "file", path, "error", err)
			stats.addError(path, err)
			continue
		}
		stats.FilesScanned++

		if found {
			s.logger.Debug("bad word found", "file", path, "start", m.Start, "end", m.End)
			return model.Found(m), stats, nil
		}
	}

	return model.Clean(), stats, nil
}

// matchFile reads path into buf through decoder and applies p.
// buf is empty again when matchFile returns.
func matchFile(p *pattern.Pattern, path string, buf *bytes.Buffer, decoder *encoding.Decoder) (model.Match, bool, error) {
	buf.Reset()
	defer buf.Reset()

	f, err := os.Open(path) //nolint:gosec // Scanning user-selected files is the purpose of this tool
	if err != nil {
		return model.Match{}, false, err
	}
	defer f.Close()

	if _, err := buf.ReadFrom(transform.NewReader(f, decoder)); err != nil {
		return model.Match{}, false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	text := buf.Bytes()
	start, end, ok := p.Find(text)
	if !ok {
		return model.Match{}, false, nil
	}

	return model.Match{
		File:  path,
		Start: start,
		End:   end,
		Word:  string(text[start:end]),
	}, true, nil
}
