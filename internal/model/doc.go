// Package model defines the core data structures used throughout badwords.
//
// This package contains the following main types:
//   - Match: The location of a bad word inside a scanned file
//   - Result: The terminal outcome of a scan (clean or found)
//   - ScanReport: The record of one run, used for reports and history
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The scanner, pipeline, report and database packages all need
// these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
