// Package ownership harvests owner accounts together with their child domains.
//
// Both account families share the same two-level shape: an outer page of
// accounts, each carrying a truncated list of domains, and a per-account
// continuation query for accounts whose embedded list hit the completion
// threshold. The families differ only in their documents, page sizes and
// time window, which are passed in through Options.
package ownership
