// Package server holds the HTTP server configuration.
//
// The start command serves stored artifacts, diffs and run history over a
// read-only API. This package defines the listen port, the API key and which
// routes bypass it.
package server
