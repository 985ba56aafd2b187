// Package ledger records harvest runs in the SQL database.
//
// Every harvest command opens a Run when it starts, reports the last
// completed outer offset as pages are consumed, and closes the run as
// succeeded (with the artifact name and entity count) or failed (with the
// stage, offset and parent id the failure happened at). The ledger does not
// resume runs by itself; it keeps the context an operator needs to do so.
//
// A nil *Ledger is valid and records nothing, so commands run unchanged when
// the database is disabled or unreachable.
package ledger
