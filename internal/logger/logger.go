// Package logger provides structured diagnostic logging for datachecker,
// distinct from the Reporter's scan findings (spec §7: diagnostics are
// logged, findings are reported). It wraps log/slog with level and
// format selection, matching the teacher's logger package conventions.
package logger

import (
	"io"
	"log/slog"
	"os"
)

var (
	defaultLogger *slog.Logger
	logLevel      slog.Level = slog.LevelWarn
)

// Init initializes the package logger. format "json" selects a JSON
// handler; anything else selects text. A nil output defaults to stderr.
func Init(level, format string, output io.Writer) {
	if output == nil {
		output = os.Stderr
	}

	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	defaultLogger = slog.New(handler)
}

// Logger returns the package logger, initializing it with defaults
// (warn level, text format, stderr) on first use.
func Logger() *slog.Logger {
	if defaultLogger == nil {
		Init("warn", "text", nil)
	}
	return defaultLogger
}

func Debug(msg string, args ...any) { Logger().Debug(msg, args...) }
func Info(msg string, args ...any)  { Logger().Info(msg, args...) }
func Warn(msg string, args ...any)  { Logger().Warn(msg, args...) }
func Error(msg string, args ...any) { Logger().Error(msg, args...) }

// With returns a logger carrying the given key-value pairs in every
// subsequent message.
func With(args ...any) *slog.Logger { return Logger().With(args...) }
