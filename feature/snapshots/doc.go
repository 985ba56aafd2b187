// Package snapshots exposes stored artifacts, account diffs and the run ledger
// over HTTP.
package snapshots
