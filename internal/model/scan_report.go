package model

import (
	"time"

	"github.com/google/uuid"
)

// FileError records a file that could not be opened or read during a scan.
// These failures never abort a scan; they are collected for the report.
type FileError struct {
	// Path is the file that failed.
	Path string `json:"path"`

	// Message is the error text.
	Message string `json:"message"`
}

// ScanReport is the record of one run.
// It is filled in step by step by the pipeline and then handed to the report
// writers and the history database.
//
// Design decision: We use a single flat struct so that the whole run can be
// stored as one JSON document in the history database and printed by every
// writer without extra conversion.
type ScanReport struct {
	// ID uniquely identifies the run.
	ID string `json:"id"`

	// Language is the word list identifier (e.g. "en").
	Language string `json:"language"`

	// WordListURL is the URL the word list was fetched from.
	WordListURL string `json:"word_list_url"`

	// WordListDigest is the SHA3-256 hex digest of the raw word list.
	// Two runs with the same digest used the same list.
	WordListDigest string `json:"word_list_digest,omitempty"`

	// WordCount is the number of usable words in the list.
	WordCount int `json:"word_count"`

	// Root is the directory that was scanned.
	Root string `json:"root"`

	// Excludes are the exclusion globs in the order they were applied.
	Excludes []string `json:"excludes,omitempty"`

	// FilesScanned is the number of files whose contents were matched.
	FilesScanned int `json:"files_scanned"`

	// FileErrors lists files that could not be opened or read.
	FileErrors []FileError `json:"file_errors,omitempty"`

	// Result is the outcome of the scan.
	Result Result `json:"result"`

	// PerformedSteps lists the pipeline steps that completed.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// DateScanned is when the run started.
	DateScanned time.Time `json:"date_scanned"`

	// Duration is how long the run took.
	Duration time.Duration `json:"duration"`

	// Error holds the fatal error of the run, if any.
	// It is not serialized; ErrorMessage carries the text instead.
	Error error `json:"-"`

	// ErrorMessage is the text of Error.
	ErrorMessage string `json:"error,omitempty"`
}

// NewScanReport creates a report for a run over root with the given language.
func NewScanReport(language, root string) *ScanReport {
	return &ScanReport{
		ID:          uuid.NewString(),
		Language:    language,
		Root:        root,
		DateScanned: time.Now(),
		Result:      Clean(),
	}
}

// AddFileError records a file that could not be opened or read.
func (r *ScanReport) AddFileError(path string, err error) {
	r.FileErrors = append(r.FileErrors, FileError{Path: path, Message: err.Error()})
}

// Failed reports whether the run ended with an infrastructure error.
func (r *ScanReport) Failed() bool {
	return r.Error != nil || r.ErrorMessage != ""
}

// Status returns a short status string for listings.
func (r *ScanReport) Status() string {
	switch {
	case r.Failed():
		return "error"
	case r.Result.IsFound():
		return "found"
	default:
		return "clean"
	}
}
