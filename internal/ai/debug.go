package ai

import "sync/atomic"

// debugLoggingEnabled guards per-tick debug logs of controllers.
// Set via EnableDebugLogging() from main based on config.LogLevel.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging enables or disables debug logging for AI subsystem.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled returns true if debug logging is enabled.
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
