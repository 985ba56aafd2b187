// Package harvest enumerates remote paginated datasets.
//
// The subgraph only answers bounded-page requests, so a full snapshot is rebuilt
// by walking an offset until the service returns a short page. Parents whose
// embedded child list fills the embedded limit are completed by a second,
// scoped scan keyed by the parent id.
//
// # Components
//
//   - Cursor / Scan: the "fetch until short page" loop (strictly sequential).
//   - ScanCounted: the "fetch while offset < totalCount" loop for connection endpoints.
//   - Nested: completes truncated child collections, optionally with a bounded worker pool.
//   - Window: classifies child records by creation time.
//   - Family: per query family page sizes and completion thresholds.
//
// # Failures
//
// A failed fetch aborts the scan with a *StageError naming the family, the stage
// (outer page or nested scan) and the offset, so an operator can tell where to
// resume from.
package harvest
