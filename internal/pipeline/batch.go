package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// BatchProcessor scans several roots with one word list.
// The word list is fetched and compiled once by a setup pipeline; each root
// then runs its own select and scan pipeline.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-run execution
// 2. It makes the one-fetch-per-invocation rule explicit
type BatchProcessor struct {
	// pipelineFactory creates a new root pipeline for each root.
	// We use a factory so that pipeline state never leaks between roots.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of roots scanned at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of roots scanned at once.
// Default is 1, which scans the roots in order.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
// The pipelineFactory is called once per root, typically wrapping NewRootPipeline.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     1,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch scans every root with the pattern of base.
// base must have completed a setup pipeline.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because errgroup handles the concurrency correctly with less code.
//
// The returned runs are in the order of roots, whatever order they finish
// in. A root that fails (for example because it does not exist) has the error
// recorded in its report and does not stop the others. The error return is
// only set when ctx is cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, base *Run, roots []string) ([]*Run, error) {
	bp.logger.Debug("starting batch processing",
		"total_roots", len(roots),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	// Each goroutine writes only its own index.
	runs := make([]*Run, len(roots))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, root := range roots {
		runs[i] = base.ForRoot(root)
		run := runs[i]

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				run.Report.Error = err
				run.Report.ErrorMessage = err.Error()
				return err
			}

			if err := bp.pipelineFactory().Execute(gctx, run); err != nil {
				bp.logger.Warn("scan failed",
					"root", root,
					"error", err,
				)
				// The error is recorded in the report; other roots continue.
				return nil
			}
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Debug("batch processing complete",
		"total_roots", len(roots),
		"elapsed", time.Since(startTime),
	)

	if err == nil {
		err = ctx.Err()
	}
	return runs, err
}
