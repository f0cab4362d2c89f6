package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/badwords/internal/config"
	"github.com/nao1215/badwords/internal/database"
	"github.com/nao1215/badwords/internal/model"
	"github.com/nao1215/badwords/internal/report"
)

// defaultHistoryLimit is the number of runs listed when --limit is not given.
const defaultHistoryLimit = 20

// historyOptions holds the flags of the history command.
type historyOptions struct {
	limit     int
	id        string
	root      string
	listRoots bool
	json      bool
	markdown  bool
}

// NewHistoryCmd creates the history command.
// This command shows scan results stored in the history database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show stored scan results",
		Long: `History lists the results of previous scans stored in the database.

Every 'badwords scan' run without --no-history is recorded with its root,
language, word list digest and result.

Examples:
  # List the 20 most recent scans
  badwords history

  # List every scan of one directory
  badwords history --root /src/project --limit 0

  # Show a single scan in full
  badwords history --id 0f8fad5b-d9cb-469f-a165-70867728950e

  # List all scanned directories
  badwords history --list-roots

  # Output history in JSON format
  badwords history --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of scans to list (0 lists all)")
	cmd.Flags().StringP("id", "i", "",
		"Show the scan with this ID")
	cmd.Flags().StringP("root", "r", "",
		"Only list scans of this root directory")
	cmd.Flags().BoolP("list-roots", "L", false,
		"List all scanned root directories")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output in Markdown format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	opts, err := historyOptionsFromFlags(cmd)
	if err != nil {
		return err
	}
	if opts.json && opts.markdown {
		return config.ErrConflictingReportFormats
	}

	db, err := database.Open(config.XDGDataDir(), database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(cmd.OutOrStdout(), "No scan history found.")
			fmt.Fprintln(cmd.OutOrStdout(), "\nUse 'badwords scan' to scan a directory.")
			return nil
		}
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	return runHistory(cmd.Context(), db, cmd.OutOrStdout(), opts)
}

// historyOptionsFromFlags reads the history flags.
func historyOptionsFromFlags(cmd *cobra.Command) (historyOptions, error) {
	var (
		opts historyOptions
		err  error
	)

	if opts.limit, err = cmd.Flags().GetInt("limit"); err != nil {
		return opts, err
	}
	if opts.id, err = cmd.Flags().GetString("id"); err != nil {
		return opts, err
	}
	if opts.root, err = cmd.Flags().GetString("root"); err != nil {
		return opts, err
	}
	if opts.listRoots, err = cmd.Flags().GetBool("list-roots"); err != nil {
		return opts, err
	}
	if opts.json, err = cmd.Flags().GetBool("json"); err != nil {
		return opts, err
	}
	if opts.markdown, err = cmd.Flags().GetBool("markdown"); err != nil {
		return opts, err
	}

	return opts, nil
}

// runHistory writes the part of the history selected by opts to out.
func runHistory(ctx context.Context, db *database.HistoryDB, out io.Writer, opts historyOptions) error {
	if opts.listRoots {
		return listScannedRoots(ctx, db, out)
	}

	if opts.id != "" {
		scanReport, err := db.GetScanReportByID(ctx, opts.id)
		if err != nil {
			return fmt.Errorf("failed to get scan %s: %w", opts.id, err)
		}
		if scanReport == nil {
			return fmt.Errorf("scan not found: %s", opts.id)
		}
		_, err = historyWriter(out, opts).Write(scanReport)
		return err
	}

	var (
		reports []*model.ScanReport
		err     error
	)
	if opts.root != "" {
		reports, err = db.GetScanHistory(ctx, opts.root, opts.limit)
	} else {
		reports, err = db.ListScanHistory(ctx, opts.limit)
	}
	if err != nil {
		return fmt.Errorf("failed to get scan history: %w", err)
	}

	_, err = historyWriter(out, opts).WriteHistory(reports)
	return err
}

// historyWriter returns the report writer for the selected output format.
// The simple format never uses color so the history stays greppable.
func historyWriter(out io.Writer, opts historyOptions) report.Writer {
	switch {
	case opts.json:
		return report.NewJSONWriter(out, report.WithPrettyPrint())
	case opts.markdown:
		return report.NewMarkdownWriter(out)
	default:
		return report.NewSimpleWriter(out, report.WithColor(false))
	}
}

// listScannedRoots lists all roots that have scan records in the database.
func listScannedRoots(ctx context.Context, db *database.HistoryDB, out io.Writer) error {
	roots, err := db.ListScannedRoots(ctx)
	if err != nil {
		return fmt.Errorf("failed to list roots: %w", err)
	}

	if len(roots) == 0 {
		fmt.Fprintln(out, "No scanned directories found in the database.")
		fmt.Fprintln(out, "\nUse 'badwords scan' to scan a directory.")
		return nil
	}

	fmt.Fprintf(out, "Scanned directories (%d):\n\n", len(roots))
	for _, root := range roots {
		fmt.Fprintf(out, "  • %s\n", root)
	}
	fmt.Fprintln(out, "\nUse 'badwords history --root <dir>' to see the scans of a directory.")

	return nil
}
