// Package database provides SQLite-based storage of the scan history.
//
// Every run of the scan command stores its report, so the history command can
// list past runs and the scan command can compare a result with the previous
// run over the same root.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode lets a running scan write while another process lists history
package database
