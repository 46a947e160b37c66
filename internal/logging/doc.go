// Package logging provides structured logging for the nodesim tools.
//
// This package wraps zap logger with convenience functions for common
// logging patterns used throughout the node process and the configuration
// utility. Logging is silent by default so the CLI tools stay quiet; set
// NODESIM_LOG_LEVEL (or pass --log-level) to see output.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (console request lines, scan entries)
//   - Info: Normal operations (connections, field changes, saves)
//   - Warn: Non-fatal issues (skipped record lines, dropped sessions)
//   - Error: Serious issues (save failures, listener errors)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Record loaded",
//	    zap.String("path", res.Path),
//	    zap.String("identity", res.Identity.String()),
//	)
//
// # Specialized Logging
//
// The package provides domain-specific logging functions:
//
//	logging.LogConnection(remoteAddr, "console_opened")
//	logging.LogSkippedLine(path, lineNum, "no key:value separator")
//	logging.LogFieldChange("gwMask", "0A0B0C0D")
//	logging.LogConsoleRequest(remoteAddr, "set rsf:07")
//
// # Configuration
//
// Initialize logging at process startup:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap
// logger handles synchronization automatically.
package logging
