// Package log provides structured logging for the PiDog API.
// It wraps slog with sensible defaults and keeps a bounded in-memory
// buffer of recent entries for the /logs endpoint and the "logs"
// telemetry channel.
package log

import (
	"log/slog"
	"os"
	"sync"
)

var (
	logger *slog.Logger
	buffer *Buffer
	once   sync.Once
)

// Init initializes the global logger with the specified level and a ring
// buffer retaining the last bufferSize entries.
// Valid levels: "debug", "info", "warn", "error"
func Init(level string, bufferSize int) {
	once.Do(func() {
		var lvl slog.Level
		switch level {
		case "debug":
			lvl = slog.LevelDebug
		case "warn":
			lvl = slog.LevelWarn
		case "error":
			lvl = slog.LevelError
		default:
			lvl = slog.LevelInfo
		}

		opts := &slog.HandlerOptions{
			Level: lvl,
		}

		// Use JSON in production, text in development
		var console slog.Handler
		if os.Getenv("GO_ENV") == "production" {
			console = slog.NewJSONHandler(os.Stdout, opts)
		} else {
			console = slog.NewTextHandler(os.Stdout, opts)
		}

		buffer = NewBuffer(bufferSize)
		logger = slog.New(NewTeeHandler(console, buffer.Handler()))
		slog.SetDefault(logger)
	})
}

// L returns the global logger instance.
func L() *slog.Logger {
	if logger == nil {
		Init("info", 2000)
	}
	return logger
}

// Ring returns the global log buffer.
func Ring() *Buffer {
	L()
	return buffer
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	L().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	L().Info(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	L().Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	L().Error(msg, args...)
}

// With returns a logger with the given attributes.
func With(args ...any) *slog.Logger {
	return L().With(args...)
}
