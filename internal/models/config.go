package models

// LogLevel is a configured log verbosity.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// IsValidLogLevel checks if a log level is valid
func IsValidLogLevel(l LogLevel) bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true
	}
	return false
}

// Config represents the local lightbox configuration
type Config struct {
	CloseLabel  string   `json:"close_label,omitempty"`
	CloseOnBlur bool     `json:"close_on_blur,omitempty"`
	History     *bool    `json:"history,omitempty"` // nil = enabled
	LogLevel    LogLevel `json:"log_level,omitempty"`
}

// HistoryEnabled reports whether a history stack should be wired.
func (c *Config) HistoryEnabled() bool {
	return c.History == nil || *c.History
}

// EffectiveLogLevel returns the configured level, defaulting to warn.
func (c *Config) EffectiveLogLevel() LogLevel {
	if IsValidLogLevel(c.LogLevel) {
		return c.LogLevel
	}
	return LogLevelWarn
}
