// Package logging provides structured logging for the hued daemon.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the daemon. It provides both general logging
// functions and helpers for the discovery-specific events worth tracing.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Per-datagram detail (accepted queries, reply bursts, discards)
//   - Info: Normal operations (startup, identity refreshes)
//   - Warn: Non-fatal issues (failed refreshes, send errors)
//   - Error: Fatal issues (startup failures)
//
// # Configuration
//
// Logging is silent by default so the daemon stays quiet under a supervisor.
// Enable it with the --log-level flag or the HUED_LOG_LEVEL environment
// variable:
//
//	HUED_LOG_LEVEL=debug hued my-hue.local:80
//
// Initialize logging at startup:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap
// logger handles synchronization automatically.
package logging
