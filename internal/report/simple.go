package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/nao1215/badwords/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section formatting.
//
// Design decision: Color is decided per writer rather than globally through
// color.NoColor, so a report written to a file never contains escape codes
// even when stdout is a terminal.
type SimpleWriter struct {
	baseWriter

	// verbose enables additional detail in the output.
	verbose bool

	// previous is the last stored report for the same root, if any.
	previous *model.ScanReport

	found   *color.Color
	clean   *color.Color
	failed  *color.Color
	heading *color.Color
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// WithColor forces colored output on or off.
// By default color is enabled only when the output is a terminal.
func WithColor(enabled bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.setColor(enabled)
	}
}

// WithPrevious adds a comparison with an earlier scan of the same root.
func WithPrevious(previous *model.ScanReport) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.previous = previous
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		found:      color.New(color.FgRed, color.Bold),
		clean:      color.New(color.FgGreen, color.Bold),
		failed:     color.New(color.FgYellow, color.Bold),
		heading:    color.New(color.Bold),
	}
	w.setColor(IsTerminal(output))

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// IsTerminal reports whether w is a terminal (including Cygwin/MSYS terminals).
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (w *SimpleWriter) setColor(enabled bool) {
	for _, c := range []*color.Color{w.found, w.clean, w.failed, w.heading} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.ScanReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeResult(&sb, report)
	w.writeFileErrors(&sb, report)
	w.writeComparison(&sb, report)
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the report header with scan information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.ScanReport) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString(w.heading.Sprint("                         BADWORDS REPORT"))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Root:           %s\n", report.Root)
	fmt.Fprintf(sb, "Language:       %s (%d words)\n", report.Language, report.WordCount)
	fmt.Fprintf(sb, "Scan Date:      %s\n", report.DateScanned.Format(dateFormat))
	fmt.Fprintf(sb, "Files Scanned:  %d\n", report.FilesScanned)
	if len(report.Excludes) > 0 {
		fmt.Fprintf(sb, "Excludes:       %s\n", strings.Join(report.Excludes, ", "))
	}
	if w.verbose {
		fmt.Fprintf(sb, "Word List:      %s\n", report.WordListURL)
		fmt.Fprintf(sb, "Digest:         %s\n", report.WordListDigest)
		fmt.Fprintf(sb, "Duration:       %s\n", report.Duration.Round(time.Millisecond))
		fmt.Fprintf(sb, "Report ID:      %s\n", report.ID)
	}
	sb.WriteString("\n")
}

// writeResult writes the status line and the match, if any.
func (w *SimpleWriter) writeResult(sb *strings.Builder, report *model.ScanReport) {
	switch {
	case report.Failed():
		fmt.Fprintf(sb, "Status:         %s - %s\n", w.failed.Sprint("ERROR"), report.ErrorMessage)
	case report.Result.IsFound():
		fmt.Fprintf(sb, "Status:         %s\n", w.found.Sprint("FOUND"))
		fmt.Fprintf(sb, "  %s\n", report.Result.Match)
	default:
		fmt.Fprintf(sb, "Status:         %s\n", w.clean.Sprint("CLEAN"))
	}
	sb.WriteString("\n")
}

// writeFileErrors lists the files that could not be read.
func (w *SimpleWriter) writeFileErrors(sb *strings.Builder, report *model.ScanReport) {
	if len(report.FileErrors) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "UNREADABLE FILES (%d)\n", len(report.FileErrors))
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, fe := range report.FileErrors {
		fmt.Fprintf(sb, "  [!] %s\n", fe.Path)
		if w.verbose {
			fmt.Fprintf(sb, "      %s\n", fe.Message)
		}
	}
	sb.WriteString("\n")
}

// writeComparison writes how the result changed since the previous scan.
func (w *SimpleWriter) writeComparison(sb *strings.Builder, report *model.ScanReport) {
	if w.previous == nil {
		return
	}

	prev, curr := w.previous.Status(), report.Status()
	fmt.Fprintf(sb, "Previous Scan:  %s (%s)\n", prev, w.previous.DateScanned.Format(dateFormat))
	switch {
	case prev == curr:
		sb.WriteString("Change:         none\n")
	case curr == "found":
		fmt.Fprintf(sb, "Change:         %s\n", w.found.Sprint("new bad word since previous scan"))
	case prev == "found" && curr == "clean":
		fmt.Fprintf(sb, "Change:         %s\n", w.clean.Sprint("resolved since previous scan"))
	default:
		fmt.Fprintf(sb, "Change:         %s -> %s\n", prev, curr)
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// WriteHistory outputs past scans as an aligned plain text table.
func (w *SimpleWriter) WriteHistory(reports []*model.ScanReport) (int, error) {
	var sb strings.Builder

	if len(reports) == 0 {
		sb.WriteString("No scan history.\n")
		return io.WriteString(w.output, sb.String())
	}

	fmt.Fprintf(&sb, "%-36s  %-23s  %-6s  %-8s  %5s  %s\n", "ID", "DATE", "LANG", "STATUS", "FILES", "ROOT")
	for _, r := range reports {
		fmt.Fprintf(&sb, "%-36s  %-23s  %-6s  %s  %5d  %s\n",
			r.ID,
			r.DateScanned.Format(dateFormat),
			r.Language,
			w.statusColor(r).Sprintf("%-8s", r.Status()),
			r.FilesScanned,
			r.Root,
		)
	}

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) statusColor(r *model.ScanReport) *color.Color {
	switch r.Status() {
	case "found":
		return w.found
	case "error":
		return w.failed
	default:
		return w.clean
	}
}
