// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package fortigate

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"
)

// MaxLogValueLength limits the length of logged values. Longer values are truncated.
const MaxLogValueLength = 1024

// Logger interface for pluggable logging support
//
// Implementations receive the request context and structured key-value pairs.
// The package ships three implementations:
//   - NoOpLogger: discards everything (default)
//   - DefaultLogger: Go's standard log package with a level threshold
//   - ZerologLogger: adapter for github.com/rs/zerolog
//
// Example custom logger integration:
//
//	type SlogAdapter struct {
//	    logger *slog.Logger
//	}
//
//	func (s *SlogAdapter) Debug(ctx context.Context, msg string, keysAndValues ...any) {
//	    s.logger.DebugContext(ctx, msg, keysAndValues...)
//	}
//	// ... Info, Warn, Error
type Logger interface {
	Debug(ctx context.Context, msg string, keysAndValues ...any)
	Info(ctx context.Context, msg string, keysAndValues ...any)
	Warn(ctx context.Context, msg string, keysAndValues ...any)
	Error(ctx context.Context, msg string, keysAndValues ...any)
}

// LogLevel represents the severity threshold for logging
type LogLevel int

const (
	// LogLevelDebug enables all log levels
	LogLevelDebug LogLevel = iota

	// LogLevelInfo enables Info, Warn, and Error logs
	LogLevelInfo

	// LogLevelWarn enables Warn and Error logs
	LogLevelWarn

	// LogLevelError enables only Error logs
	LogLevelError

	// LogLevelNone disables all logging
	LogLevelNone
)

// String returns the string representation of a LogLevel
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelNone:
		return "NONE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", l)
	}
}

// ParseLogLevel converts a level name (debug, info, warn, error, none) to a
// LogLevel. Unknown names return LogLevelInfo and false.
func ParseLogLevel(name string) (LogLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug", "trace":
		return LogLevelDebug, true
	case "info":
		return LogLevelInfo, true
	case "warn", "warning":
		return LogLevelWarn, true
	case "error":
		return LogLevelError, true
	case "none", "off", "disabled":
		return LogLevelNone, true
	default:
		return LogLevelInfo, false
	}
}

// DefaultLogger writes through Go's standard log package
//
// Output format: [LEVEL] message key1=value1 key2=value2
type DefaultLogger struct {
	level LogLevel
}

// NewDefaultLogger creates a DefaultLogger with the specified log level
func NewDefaultLogger(level LogLevel) *DefaultLogger {
	return &DefaultLogger{level: level}
}

// Debug logs a debug message
func (l *DefaultLogger) Debug(_ context.Context, msg string, keysAndValues ...any) {
	l.log(LogLevelDebug, msg, keysAndValues...)
}

// Info logs an informational message
func (l *DefaultLogger) Info(_ context.Context, msg string, keysAndValues ...any) {
	l.log(LogLevelInfo, msg, keysAndValues...)
}

// Warn logs a warning message
func (l *DefaultLogger) Warn(_ context.Context, msg string, keysAndValues ...any) {
	l.log(LogLevelWarn, msg, keysAndValues...)
}

// Error logs an error message
func (l *DefaultLogger) Error(_ context.Context, msg string, keysAndValues ...any) {
	l.log(LogLevelError, msg, keysAndValues...)
}

func (l *DefaultLogger) log(level LogLevel, msg string, keysAndValues ...any) {
	if level < l.level || l.level == LogLevelNone {
		return
	}
	log.Println(formatLogLine(level, msg, keysAndValues...))
}

// formatLogLine renders "[LEVEL] msg k=v ..." with sanitized keys and values.
// The message itself comes from this package and is not sanitized.
func formatLogLine(level LogLevel, msg string, keysAndValues ...any) string {
	var builder strings.Builder
	builder.Grow(len(msg) + 10 + len(keysAndValues)*25)

	builder.WriteString("[")
	builder.WriteString(level.String())
	builder.WriteString("] ")
	builder.WriteString(msg)

	for i := 0; i < len(keysAndValues); i += 2 {
		builder.WriteString(" ")
		builder.WriteString(sanitizeLogValue(keysAndValues[i]))
		if i+1 < len(keysAndValues) {
			builder.WriteString("=")
			builder.WriteString(sanitizeLogValue(keysAndValues[i+1]))
		} else {
			builder.WriteString("=<MISSING>")
		}
	}
	return builder.String()
}

// sanitizeLogValue neutralizes control characters, ANSI escapes and
// invisible Unicode so a value cannot forge extra log lines, and truncates
// values longer than MaxLogValueLength.
//
//	"admin\n[ERROR] forged" -> "admin [ERROR] forged"
func sanitizeLogValue(val any) string {
	str := fmt.Sprintf("%v", val)
	if len(str) > MaxLogValueLength {
		str = str[:MaxLogValueLength] + "...[TRUNCATED]"
	}

	var builder strings.Builder
	builder.Grow(len(str))

	for i := 0; i < len(str); {
		r, size := utf8.DecodeRuneInString(str[i:])
		i += size

		switch {
		case r == utf8.RuneError && size <= 1:
			builder.WriteByte('.')
		case r == '\n', r == '\r', r == '\t', r == '\f':
			builder.WriteByte(' ')
		case r == 0x200B, r == 0x200C, r == 0x200D, r == 0xFEFF:
			// zero-width, dropped
		case r == 0x202E:
			builder.WriteByte(' ')
		case r < 32, r == 127:
			builder.WriteByte('.')
		default:
			builder.WriteRune(r)
		}
	}

	return builder.String()
}

// NoOpLogger discards all log messages. It is the default logger.
type NoOpLogger struct{}

// Debug discards the log message
func (n *NoOpLogger) Debug(_ context.Context, _ string, _ ...any) {}

// Info discards the log message
func (n *NoOpLogger) Info(_ context.Context, _ string, _ ...any) {}

// Warn discards the log message
func (n *NoOpLogger) Warn(_ context.Context, _ string, _ ...any) {}

// Error discards the log message
func (n *NoOpLogger) Error(_ context.Context, _ string, _ ...any) {}

// debugEnabled reports whether a Debug call on logger can produce output.
// Unknown Logger implementations are assumed to log everything.
func debugEnabled(logger Logger) bool {
	switch l := logger.(type) {
	case nil, *NoOpLogger:
		return false
	case *DefaultLogger:
		return l.level == LogLevelDebug
	case interface{ debugEnabled() bool }:
		return l.debugEnabled()
	default:
		return true
	}
}
