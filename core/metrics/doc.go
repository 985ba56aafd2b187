// Package metrics defines the Prometheus collectors shared by the graph
// transport, the harvesters and the ledger.
package metrics
