// Package scanner applies a bad word pattern to a sequence of files and
// stops at the first hit.
//
// Each file is read completely into a buffer owned by the Scanner, decoded as
// UTF-8 with invalid sequences replaced by U+FFFD, and matched against the
// pattern. A file that cannot be opened or read is logged and skipped; it
// never aborts the scan.
//
// By default files are processed strictly one after another. WithWorkers
// enables a bounded worker pool that still reports the hit of the earliest
// file in enumeration order, so both modes return the same result for the
// same tree.
package scanner
