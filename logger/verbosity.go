package logger

import "go.uber.org/zap/zapcore"

// Verbosity level constants for CLI flag counts.
//
// The default is errors only; each -v widens the threshold one step.
// Zap has no level below Debug, so trace output (ignored paths, empty
// debounce ticks) is gated at call sites with ShouldLogTrace instead.
const (
	VerbosityError = 0 // No flags: errors only
	VerbosityWarn  = 1 // -v: + warnings (rescans, dropped events)
	VerbosityInfo  = 2 // -vv: + triggers, command starts, config summary
	VerbosityDebug = 3 // -vvv: + per-path change detection, inhibition drops
	VerbosityTrace = 4 // -vvvv: + ignored paths, empty ticks
)

// VerbosityToLevel maps verbosity flags (-v, -vv, etc.) to zap log levels
//
// Mapping:
//
//	0 (none)  -> ErrorLevel
//	1 (-v)    -> WarnLevel
//	2 (-vv)   -> InfoLevel
//	3+ (-vvv) -> DebugLevel (zap doesn't go finer; trace is call-site gated)
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch verbosity {
	case VerbosityError:
		return zapcore.ErrorLevel
	case VerbosityWarn:
		return zapcore.WarnLevel
	case VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// ShouldLogTrace returns true for verbosity >= 4 (-vvvv)
func ShouldLogTrace(verbosity int) bool {
	return verbosity >= VerbosityTrace
}

// LevelName returns a human-readable name for verbosity level
func LevelName(verbosity int) string {
	switch verbosity {
	case VerbosityError:
		return "Errors"
	case VerbosityWarn:
		return "Warnings (-v)"
	case VerbosityInfo:
		return "Info (-vv)"
	case VerbosityDebug:
		return "Debug (-vvv)"
	case VerbosityTrace:
		return "Trace (-vvvv)"
	default:
		if verbosity > VerbosityTrace {
			return "Trace (-vvvv+)"
		}
		return "Unknown"
	}
}
