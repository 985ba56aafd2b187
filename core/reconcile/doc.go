// Package reconcile compares two independently harvested snapshots.
//
// Reconciliation works on entity identity only. It builds the union of ids
// across both snapshots, records where each id is present, and treats every id
// present in exactly one snapshot as surplus. An entity whose children changed
// but whose id exists in both snapshots is not surplus.
//
// # Toggle aggregation
//
// The children of all surplus entities are then folded into a single set by
// toggling: each occurrence of a name flips its membership, so names seen an
// odd number of times survive and names seen an even number of times cancel.
// A name that moved from one surplus entity to another therefore disappears
// from the result. Callers relying on the toggled set must accept that.
//
// # Caching
//
// ReconcileRefs loads snapshots through a Source and keeps them in a TTL cache
// with stampede protection, so repeated diffs against the same artifact (as
// served by the HTTP API) decode it once.
//
//	report := reconcile.Diff(before, after)
//	fmt.Println(report.Summary.Surplus, report.Toggled)
package reconcile
