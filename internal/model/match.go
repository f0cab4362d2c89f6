package model

import "fmt"

// Match is the first bad word found during a scan.
//
// Start and End form the half-open byte range of the hit inside the decoded
// file contents. Files with invalid UTF-8 are decoded lossily before matching,
// so for such files the offsets refer to the decoded text, not the raw bytes.
type Match struct {
	// File is the path of the file that contains the hit, as yielded by the walker.
	File string `json:"file"`

	// Start is the byte offset of the first byte of the hit.
	Start int `json:"start"`

	// End is the byte offset just past the last byte of the hit.
	End int `json:"end"`

	// Word is the matched text.
	Word string `json:"word"`
}

// String returns the diagnostic used at the process boundary, e.g.
// "found bad word (badword) in file: /path/to/file.txt @ 120..128".
func (m Match) String() string {
	return fmt.Sprintf("found bad word (%s) in file: %s @ %s", m.Word, m.File, m.Range())
}

// Range returns the byte range in "start..end" notation.
func (m Match) Range() string {
	return fmt.Sprintf("%d..%d", m.Start, m.End)
}

// Len returns the length of the hit in bytes.
func (m Match) Len() int {
	return m.End - m.Start
}
