// Package logger provides a structured logging facility based on Zap.
//
// It produces a configured logger for either development (console encoding,
// colored levels) or production (JSON encoding) use, and integrates with the
// Fiber web framework.
//
// # Request Correlation
//
// Every export download or task-run submission is tagged with a RayID by the
// rayid middleware. The WithRayID helper pulls that ID out of the Fiber
// context and attaches it to the log entry so all logs for one request can
// be correlated.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Export failed", zap.Error(err))
package logger
