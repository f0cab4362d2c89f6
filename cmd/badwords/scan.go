package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/badwords/internal/config"
	"github.com/nao1215/badwords/internal/database"
	applog "github.com/nao1215/badwords/internal/log"
	"github.com/nao1215/badwords/internal/model"
	"github.com/nao1215/badwords/internal/pipeline"
	"github.com/nao1215/badwords/internal/report"
	"github.com/nao1215/badwords/internal/wordlist"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [root...]",
		Short: "Scan files for bad words",
		Long: `Scan downloads the bad word list for a language and searches the files
under each root directory (default: the current directory).

Only files that have an extension are scanned. Words match as whole words and
case-sensitively. The scan of a root stops at the first file containing a bad word.

Examples:
  # Scan the current directory with the English list
  badwords scan -l en

  # Scan two directories, skipping vendored code
  badwords scan -l en -x "vendor/**" -x "**/*.min.js" ./docs ./web

  # Use a mirror of the word lists
  badwords scan -l fr --base-url https://example.com/lists

  # Write a Markdown report
  badwords scan -l en --markdown -o report.md

Configuration file (.badwords) example:
  language: en
  exclude:
    - ".git/**"
    - "vendor/**"
  workers: 4`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	// Word list flags
	cmd.Flags().StringP("language", "l", "",
		"Word list language (e.g., en, fr, ja); required unless set in the config file")
	cmd.Flags().String("base-url", config.DefaultBaseURL,
		"Base URL of the word lists; the language is appended as last path segment")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy for the word list request (host:port)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout of the word list request")
	cmd.Flags().Bool("raw-words", false,
		"Treat word list entries as regular expression fragments")

	// Scan behavior flags
	cmd.Flags().StringArrayP("exclude", "x", nil,
		"Glob pattern of files to skip (repeatable)")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of files matched concurrently")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .badwords in the root or current directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-history", false,
		"Do not store the result in the scan history database")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, roots, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := applog.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runScan(ctx, cfg, roots, cmd.OutOrStdout(), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the configuration
// file. It returns the roots to scan; without arguments that is the current
// directory.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, []string, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Language, err = cmd.Flags().GetString("language")
	if err != nil {
		return nil, nil, err
	}

	cfg.BaseURL, err = cmd.Flags().GetString("base-url")
	if err != nil {
		return nil, nil, err
	}

	cfg.ProxyAddress, err = cmd.Flags().GetString("proxy")
	if err != nil {
		return nil, nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, nil, err
	}

	cfg.RawWords, err = cmd.Flags().GetBool("raw-words")
	if err != nil {
		return nil, nil, err
	}

	cfg.Excludes, err = cmd.Flags().GetStringArray("exclude")
	if err != nil {
		return nil, nil, err
	}

	cfg.Workers, err = cmd.Flags().GetInt("workers")
	if err != nil {
		return nil, nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, nil, err
	}
	cfg.SaveToDB = !noHistory

	cfg.Verbose = getVerboseFlag(cmd)

	roots := args
	if len(roots) == 0 {
		roots = []string{config.DefaultRoot}
	}
	cfg.Root = roots[0]

	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently run without a file.
	configPath := config.FindConfigFile(cfg.ConfigFilePath, cfg.Root)
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(file)
	} else if cfg.ConfigFilePath != "" {
		return nil, nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	return cfg, roots, nil
}

// runScan fetches the word list once, scans every root and writes one report
// per root to out (or to the report file).
//
// The returned error is a *badWordError when at least one root contains a bad
// word. Roots that could not be scanned are joined into the error as well.
func runScan(ctx context.Context, cfg *config.Config, roots []string, out io.Writer, logger *slog.Logger) error {
	logger.Info("starting scan",
		"language", cfg.Language,
		"roots", roots,
		"workers", cfg.Workers,
		"saveToDB", cfg.SaveToDB,
	)

	source, err := pipeline.NewSource(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create word list client: %w", err)
	}

	runs, err := executeRuns(ctx, cfg, source, roots, logger)
	if err != nil {
		return err
	}

	// A history database that cannot be opened only disables the comparison
	// and the saving of results.
	var db *database.HistoryDB
	if cfg.SaveToDB {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			logger.Warn("failed to open history database", "dir", cfg.DBDir, "error", err)
			db = nil
		} else {
			defer db.Close()
			logger.Debug("database opened", "path", db.Path())
		}
	}

	output, closeOutput, err := openOutput(cfg, out)
	if err != nil {
		return err
	}
	defer closeOutput()

	var (
		matches []model.Match
		errs    []error
	)
	for _, run := range runs {
		scanReport := run.Report

		previous := latestScanReport(ctx, db, scanReport.Root, logger)
		if err := writeReport(cfg, output, scanReport, previous); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		saveScanReport(ctx, db, scanReport, logger)

		switch {
		case scanReport.Failed():
			errs = append(errs, fmt.Errorf("scan of %s failed: %s", scanReport.Root, scanReport.ErrorMessage))
		case scanReport.Result.IsFound():
			matches = append(matches, *scanReport.Result.Match)
		}
	}

	if len(matches) > 0 {
		errs = append(errs, &badWordError{matches: matches})
	}
	return errors.Join(errs...)
}

// executeRuns runs the pipelines for roots.
//
// A single root goes through DefaultPipeline. Several roots share one setup
// pipeline (globs, fetch and build_pattern) and are then scanned by a BatchProcessor
// so the word list is downloaded only once.
func executeRuns(ctx context.Context, cfg *config.Config, source *wordlist.Source, roots []string, logger *slog.Logger) ([]*pipeline.Run, error) {
	if len(roots) == 1 {
		run := pipeline.NewRun(cfg.Language, roots[0])
		if err := pipeline.DefaultPipeline(cfg, source, logger).Execute(ctx, run); err != nil {
			return nil, err
		}
		return []*pipeline.Run{run}, nil
	}

	base := pipeline.NewRun(cfg.Language, "")
	if err := pipeline.NewSetupPipeline(cfg, source, logger).Execute(ctx, base); err != nil {
		return nil, err
	}

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipeline.NewRootPipeline(cfg, logger)
		},
		pipeline.WithConcurrency(cfg.Workers),
		pipeline.WithBatchLogger(logger),
	)
	return bp.ProcessBatch(ctx, base, roots)
}

// openOutput returns the destination of the reports and a function that
// releases it. Without a report file the reports go to out.
func openOutput(cfg *config.Config, out io.Writer) (io.Writer, func(), error) {
	if cfg.ReportFile == "" {
		return out, func() {}, nil
	}

	// Create directories if they don't exist
	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports name the files that contain bad words, so only the owner may read them.
	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() {
		_ = f.Close() //nolint:errcheck // Report already written
	}, nil
}

// writeReport outputs the scan report in the requested format.
func writeReport(cfg *config.Config, output io.Writer, scanReport, previous *model.ScanReport) error {
	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output,
			report.WithVerbose(cfg.Verbose),
			report.WithPrevious(previous),
		)
	}

	_, err := writer.Write(scanReport)
	return err
}

// latestScanReport returns the last stored report for root, or nil.
// If db is nil, this function returns nil.
func latestScanReport(ctx context.Context, db *database.HistoryDB, root string, logger *slog.Logger) *model.ScanReport {
	if db == nil {
		return nil
	}
	previous, err := db.LatestScanReport(ctx, root)
	if err != nil {
		logger.Warn("failed to load previous scan", "root", root, "error", err)
		return nil
	}
	return previous
}

// saveScanReport saves the scan report to the database if enabled.
// If db is nil, this function is a no-op. Failures are logged only.
func saveScanReport(ctx context.Context, db *database.HistoryDB, scanReport *model.ScanReport, logger *slog.Logger) {
	if db == nil {
		return
	}

	if err := db.SaveScanReport(ctx, scanReport); err != nil {
		logger.Warn("failed to save scan report", "root", scanReport.Root, "error", err)
		return
	}

	logger.Debug("scan report saved to database", "id", scanReport.ID, "root", scanReport.Root)
}
