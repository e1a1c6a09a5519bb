package logger

import "go.uber.org/zap"

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Files and paths
	FieldPath = "path"
	FieldDir  = "dir"

	// Pipeline runs
	FieldRunID   = "run_id"
	FieldCommand = "command"
	FieldReason  = "reason"

	// Timing
	FieldDurationMS = "duration_ms"
	FieldDelayMS    = "delay_ms"

	// Errors
	FieldError = "error"

	// Counts
	FieldCount = "count"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Runner struct {
//	    log *zap.SugaredLogger
//	}
//
//	func NewRunner() *Runner {
//	    return &Runner{
//	        log: logger.ComponentLogger("watch.runner"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
// Example:
//
//	runLogger := logger.ChildLogger(baseLogger, logger.FieldRunID, runID)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
