// Package graph is the GraphQL-over-HTTP transport used by every harvester.
//
// A Client posts static query documents with variables to the subgraph
// endpoint. Each attempt runs under its own deadline, requests are throttled
// by a token bucket, and transient failures (network errors, attempt timeouts,
// 429 and 5xx responses) are retried with exponential backoff. GraphQL errors
// and responses without data are permanent and surface as *ResponseError.
//
// Harvesters depend on the Querier interface so tests can substitute canned
// responses.
package graph
