package report

import (
	"io"

	"github.com/nao1215/badwords/internal/model"
)

// Writer defines the interface for report output.
// Implementations write scan results in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files or stdout with the same API.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.ScanReport) (int, error)

	// WriteHistory outputs a list of past scans, newest first.
	WriteHistory(reports []*model.ScanReport) (int, error)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// dateFormat is the timestamp layout shared by the text based writers.
const dateFormat = "2006-01-02 15:04:05 MST"

// matchLocation returns "path @ start..end" for found reports and "-" otherwise.
func matchLocation(report *model.ScanReport) string {
	if !report.Result.IsFound() {
		return "-"
	}
	m := report.Result.Match
	return m.File + " @ " + m.Range()
}
