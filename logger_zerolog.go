// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package fortigate

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts a zerolog.Logger to the Logger interface
//
// Key-value pairs become zerolog fields. Values are sanitized the same way as
// DefaultLogger output.
//
// Example:
//
//	zl := zerolog.New(os.Stderr).With().Timestamp().Logger()
//	client, _ := fortigate.NewClient("10.0.0.1", token,
//	    fortigate.WithLogger(fortigate.NewZerologLogger(zl)))
type ZerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger wraps logger
func NewZerologLogger(logger zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{logger: logger}
}

// debugEnabled reports whether debug events pass both the logger's and the
// global level
func (z *ZerologLogger) debugEnabled() bool {
	return z.logger.GetLevel() <= zerolog.DebugLevel && zerolog.GlobalLevel() <= zerolog.DebugLevel
}

// Debug logs at debug level
func (z *ZerologLogger) Debug(ctx context.Context, msg string, keysAndValues ...any) {
	z.emit(ctx, z.logger.Debug(), msg, keysAndValues)
}

// Info logs at info level
func (z *ZerologLogger) Info(ctx context.Context, msg string, keysAndValues ...any) {
	z.emit(ctx, z.logger.Info(), msg, keysAndValues)
}

// Warn logs at warn level
func (z *ZerologLogger) Warn(ctx context.Context, msg string, keysAndValues ...any) {
	z.emit(ctx, z.logger.Warn(), msg, keysAndValues)
}

// Error logs at error level
func (z *ZerologLogger) Error(ctx context.Context, msg string, keysAndValues ...any) {
	z.emit(ctx, z.logger.Error(), msg, keysAndValues)
}

func (z *ZerologLogger) emit(ctx context.Context, ev *zerolog.Event, msg string, keysAndValues []any) {
	// nil when the level is disabled
	if ev == nil {
		return
	}
	if ctx != nil {
		ev = ev.Ctx(ctx)
	}
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprintf("%v", keysAndValues[i])
		if i+1 >= len(keysAndValues) {
			ev = ev.Str(key, "<MISSING>")
			continue
		}
		switch v := keysAndValues[i+1].(type) {
		case int:
			ev = ev.Int(key, v)
		case int64:
			ev = ev.Int64(key, v)
		case bool:
			ev = ev.Bool(key, v)
		case error:
			ev = ev.Str(key, sanitizeLogValue(v.Error()))
		default:
			ev = ev.Str(key, sanitizeLogValue(v))
		}
	}
	ev.Msg(msg)
}
