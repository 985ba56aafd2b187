// Package logger provides a structured logging facility based on Zap.
//
// Harvest commands log one line per consumed page and per continuation scan
// with the fields family, offset, parent_id and requests, so a failed run can
// be located from the log alone.
//
// # Context Awareness
//
// The WithRayID helper extracts the RayID from a Fiber context and attaches it
// to the log entry, so every log line of an API request can be correlated.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: json or console
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "json"})
//	log.Info("Harvest finished", zap.String("artifact", name))
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
