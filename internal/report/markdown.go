package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/badwords/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for CI job summaries and pull request comments.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ScanReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeAlert(md, report)
	w.writeMatch(md, report)
	w.writeFiles(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with scan information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.ScanReport) {
	md.H1("badwords Report")
	md.PlainText("")

	rows := [][]string{
		{"Root", "`" + report.Root + "`"},
		{"Language", "`" + report.Language + "`"},
		{"Word List", report.WordListURL},
		{"Words", strconv.Itoa(report.WordCount)},
		{"Scan Date", report.DateScanned.Format(dateFormat)},
		{"Duration", report.Duration.Round(time.Millisecond).String()},
		{"Files Scanned", strconv.Itoa(report.FilesScanned)},
		{"Status", w.getStatusText(report)},
	}
	for _, pattern := range report.Excludes {
		rows = append(rows, []string{"Exclude", "`" + pattern + "`"})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.ScanReport) string {
	switch {
	case report.Failed():
		return "❌ Error - " + report.ErrorMessage
	case report.Result.IsFound():
		return "🔴 Bad word found"
	default:
		return "✅ Clean"
	}
}

// writeAlert writes an alert summarizing the outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.ScanReport) {
	switch {
	case report.Failed():
		md.Warningf("The scan did not complete: %s", report.ErrorMessage)
	case report.Result.IsFound():
		md.Cautionf("Bad word found in `%s` at bytes %s.", report.Result.Match.File, report.Result.Match.Range())
	case len(report.FileErrors) > 0:
		md.Importantf("No bad word found, but %d file(s) could not be read.", len(report.FileErrors))
	default:
		md.Tip("No bad word found.")
	}
	md.PlainText("")
}

// writeMatch writes the canonical diagnostic line in a code block.
func (w *MarkdownWriter) writeMatch(md *markdown.Markdown, report *model.ScanReport) {
	if !report.Result.IsFound() {
		return
	}

	md.H2("Match")
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightText, report.Result.Match.String())
	md.PlainText("")
}

// writeFiles writes the unreadable files and a chart of readable versus unreadable files.
func (w *MarkdownWriter) writeFiles(md *markdown.Markdown, report *model.ScanReport) {
	if len(report.FileErrors) == 0 {
		return
	}

	md.H2("Unreadable Files")
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Files"),
		piechart.WithShowData(true),
	)
	chart.LabelAndIntValue("Scanned", uint64(report.FilesScanned))        //nolint:gosec // Counts are never negative
	chart.LabelAndIntValue("Unreadable", uint64(len(report.FileErrors))) //nolint:gosec // Counts are never negative
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")

	rows := make([][]string, len(report.FileErrors))
	for i, fe := range report.FileErrors {
		rows[i] = []string{"`" + fe.Path + "`", truncateString(fe.Message, 80)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"File", "Error"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [badwords](https://github.com/nao1215/badwords)*")
}

// WriteHistory outputs past scans as a Markdown table.
func (w *MarkdownWriter) WriteHistory(reports []*model.ScanReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("badwords Scan History")
	md.PlainText("")

	if len(reports) == 0 {
		md.Note("No scan history.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(reports))
	for i, r := range reports {
		rows[i] = []string{
			"`" + r.ID + "`",
			r.DateScanned.Format(dateFormat),
			r.Language,
			r.Status(),
			strconv.Itoa(r.FilesScanned),
			"`" + r.Root + "`",
			truncateString(matchLocation(r), 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"ID", "Date", "Language", "Status", "Files", "Root", "Match"},
		Rows:   rows,
	})

	return len(md.String()), md.Build()
}

// truncateString truncates a string to maxLen bytes with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
