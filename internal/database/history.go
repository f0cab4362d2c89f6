package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/badwords/internal/model"
)

// FileName is the name of the database file inside the database directory.
const FileName = "badwords.db"

// HistoryDB provides SQLite-based storage for scan reports.
//
// Design decision: Reports are stored as one JSON document per run with a few
// indexed columns next to it. Listing and filtering only touch the columns,
// while the document keeps every field without a schema migration whenever
// the report grows.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s: %w", dbPath, err)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite takes the open mode as a URI parameter.
	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close() //nolint:errcheck // Best effort cleanup
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close() //nolint:errcheck // Best effort cleanup
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the path of the database file.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- One row per scan run; report_json holds the complete model.ScanReport
	CREATE TABLE IF NOT EXISTS scan_reports (
		id TEXT PRIMARY KEY,
		root TEXT NOT NULL,
		language TEXT NOT NULL,
		status TEXT NOT NULL,
		scanned_at INTEGER NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_root ON scan_reports(root);
	CREATE INDEX IF NOT EXISTS idx_reports_scanned_at ON scan_reports(scanned_at);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveScanReport stores a scan report.
// Saving a report with an ID that is already stored replaces the old row.
func (hdb *HistoryDB) SaveScanReport(ctx context.Context, report *model.ScanReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	query := `
	INSERT INTO scan_reports (id, root, language, status, scanned_at, report_json)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		root = excluded.root,
		language = excluded.language,
		status = excluded.status,
		scanned_at = excluded.scanned_at,
		report_json = excluded.report_json
	`

	_, err = hdb.db.ExecContext(ctx, query,
		report.ID,
		report.Root,
		report.Language,
		report.Status(),
		report.DateScanned.UnixNano(),
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save scan report: %w", err)
	}

	return nil
}

// LatestScanReport retrieves the most recent scan report for root.
// Returns nil, nil if root has never been scanned.
func (hdb *HistoryDB) LatestScanReport(ctx context.Context, root string) (*model.ScanReport, error) {
	query := `
	SELECT report_json FROM scan_reports
	WHERE root = ?
	ORDER BY scanned_at DESC, rowid DESC
	LIMIT 1
	`

	return hdb.queryOne(ctx, query, root)
}

// GetScanReportByID retrieves a scan report by its run ID.
// Returns nil, nil if no report has that ID.
func (hdb *HistoryDB) GetScanReportByID(ctx context.Context, id string) (*model.ScanReport, error) {
	query := `
	SELECT report_json FROM scan_reports
	WHERE id = ?
	`

	return hdb.queryOne(ctx, query, id)
}

// ListScanHistory retrieves the most recent scan reports, newest first.
// A limit of zero or less returns every report.
func (hdb *HistoryDB) ListScanHistory(ctx context.Context, limit int) ([]*model.ScanReport, error) {
	query := `
	SELECT report_json FROM scan_reports
	ORDER BY scanned_at DESC, rowid DESC
	LIMIT ?
	`

	return hdb.queryMany(ctx, query, sqlLimit(limit))
}

// GetScanHistory retrieves the scan reports for root, newest first.
// A limit of zero or less returns every report.
func (hdb *HistoryDB) GetScanHistory(ctx context.Context, root string, limit int) ([]*model.ScanReport, error) {
	query := `
	SELECT report_json FROM scan_reports
	WHERE root = ?
	ORDER BY scanned_at DESC, rowid DESC
	LIMIT ?
	`

	return hdb.queryMany(ctx, query, root, sqlLimit(limit))
}

// ListScannedRoots returns every root that has been scanned, sorted.
func (hdb *HistoryDB) ListScannedRoots(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT root FROM scan_reports
	ORDER BY root
	`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list roots: %w", err)
	}
	defer rows.Close()

	var roots []string
	for rows.Next() {
		var root string
		if err := rows.Scan(&root); err != nil {
			return nil, fmt.Errorf("failed to scan root: %w", err)
		}
		roots = append(roots, root)
	}

	return roots, rows.Err()
}

// sqlLimit maps "no limit" to SQLite's LIMIT -1.
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func (hdb *HistoryDB) queryOne(ctx context.Context, query string, args ...any) (*model.ScanReport, error) {
	var reportJSON string
	err := hdb.db.QueryRowContext(ctx, query, args...).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan report: %w", err)
	}

	var report model.ScanReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

func (hdb *HistoryDB) queryMany(ctx context.Context, query string, args ...any) ([]*model.ScanReport, error) {
	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get scan history: %w", err)
	}
	defer rows.Close()

	var reports []*model.ScanReport
	for rows.Next() {
		var reportJSON string
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}

		var report model.ScanReport
		if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
			continue // Skip malformed reports
		}
		reports = append(reports, &report)
	}

	return reports, rows.Err()
}
