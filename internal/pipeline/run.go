package pipeline

import (
	"iter"

	"github.com/nao1215/badwords/internal/fileselect"
	"github.com/nao1215/badwords/internal/model"
	"github.com/nao1215/badwords/internal/pattern"
	"github.com/nao1215/badwords/internal/wordlist"
)

// Run carries the state of one scan from step to step.
// Every step reads what earlier steps produced and adds its own output.
type Run struct {
	// Report is the record of the run handed to writers and history.
	Report *model.ScanReport

	// Raw is the word list exactly as it was downloaded.
	Raw []byte

	// Words is the parsed word list.
	Words wordlist.WordList

	// Pattern is the compiled matcher built from Words.
	Pattern *pattern.Pattern

	// Globs holds the include and exclude matchers.
	Globs *fileselect.GlobSet

	// Files is the lazy sequence of files to scan.
	Files iter.Seq[string]
}

// NewRun creates a Run for scanning root with the word list of language.
func NewRun(language, root string) *Run {
	return &Run{
		Report: model.NewScanReport(language, root),
	}
}

// ForRoot returns a new Run over root that reuses the word list and the
// pattern of r. The report gets a fresh ID and carries over only the word
// list metadata and the exclusion globs.
func (r *Run) ForRoot(root string) *Run {
	next := NewRun(r.Report.Language, root)
	next.Raw = r.Raw
	next.Words = r.Words
	next.Pattern = r.Pattern
	next.Globs = r.Globs
	next.Report.WordListURL = r.Report.WordListURL
	next.Report.WordListDigest = r.Report.WordListDigest
	next.Report.WordCount = r.Report.WordCount
	next.Report.Excludes = r.Report.Excludes
	next.Report.PerformedSteps = append([]string(nil), r.Report.PerformedSteps...)
	return next
}
