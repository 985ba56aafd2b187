// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation for every route except the public ones.
//   - rayid: a unique Request ID (RayID) per request, stored in the context
//     locals and echoed in the response headers for tracing.
package middleware
