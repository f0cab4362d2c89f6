package scanner

import (
	"bytes"
	"context"
	"iter"
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/nao1215/badwords/internal/model"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/unicode"
)

// bufferPool recycles read buffers between workers.
var bufferPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

// indexedError keeps the enumeration index of a failed file so that the
// reported errors are in walk order regardless of worker timing.
type indexedError struct {
	index int
	err   model.FileError
}

// scanParallel is the worker pool variant of scanSequential.
//
// Every file keeps the index at which the walker produced it. The reported
// match is the one with the lowest index, which is exactly the match the
// sequential scan would have found: every file before it has been launched
// and g.Wait waits for all of them. Files after the best known hit are not
// started, and the walk stops as soon as it passes that hit.
//
// Design decision: We use errgroup.SetLimit rather than a hand-written
// worker pool because g.Go blocks once the limit is reached, which also
// throttles the directory walk to the speed of the workers.
func (s *Scanner) scanParallel(ctx context.Context, files iter.Seq[string]) (model.Result, Stats, error) {
	var (
		g         errgroup.Group
		mu        sync.Mutex
		bestIndex atomic.Int64
		bestMatch model.Match
		scanned   int
		errs      []indexedError
	)
	bestIndex.Store(math.MaxInt64)
	g.SetLimit(s.workers)

	index := 0
	for path := range files {
		i := int64(index)
		index++

		if i > bestIndex.Load() || ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if i > bestIndex.Load() || ctx.Err() != nil {
				return nil
			}

			buf, _ := bufferPool.Get().(*bytes.Buffer) //nolint:errcheck // The pool only holds *bytes.Buffer
			defer bufferPool.Put(buf)

			m, found, err := matchFile(s.pattern, path, buf, unicode.UTF8.NewDecoder())

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				s.logger.Warn("failed to read file", "file", path, "error", err)
				errs = append(errs, indexedError{
					index: int(i),
					err:   model.FileError{Path: path, Message: err.Error()},
				})
				return nil
			}
			scanned++

			if found && i < bestIndex.Load() {
				bestIndex.Store(i)
				bestMatch = m
			}
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // Workers never return errors

	sort.Slice(errs, func(a, b int) bool { return errs[a].index < errs[b].index })
	stats := Stats{FilesScanned: scanned}
	for _, e := range errs {
		stats.FileErrors = append(stats.FileErrors, e.err)
	}

	if err := ctx.Err(); err != nil {
		return model.Clean(), stats, err
	}

	if bestIndex.Load() != math.MaxInt64 {
		s.logger.Debug("bad word found", "file", bestMatch.File, "start", bestMatch.Start, "end", bestMatch.End)
		return model.Found(bestMatch), stats, nil
	}

	return model.Clean(), stats, nil
}
