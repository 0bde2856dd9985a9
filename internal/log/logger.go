// Package log is a small verbosity-aware wrapper around log/slog.
// Messages below the configured verbosity are dropped before they reach the handler.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Verbosity levels
const (
	LevelQuiet = iota // default: only errors and warnings
	LevelInfo         // -v: cache hits and misses, resolved ids
	LevelDebug        // -vv: HTTP requests, cache file operations
	LevelTrace        // -vvv: request and response bodies
)

const slogLevelTrace = slog.Level(-8)

var (
	mu        sync.RWMutex
	verbosity int
	logger    *slog.Logger
)

// Initialize sets up the package logger with the given verbosity, writing to w.
func Initialize(level int, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	verbosity = level
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slogLevel(level),
	}))
}

func slogLevel(level int) slog.Level {
	switch {
	case level >= LevelTrace:
		return slogLevelTrace
	case level >= LevelDebug:
		return slog.LevelDebug
	case level >= LevelInfo:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

func current() (*slog.Logger, int) {
	mu.RLock()
	defer mu.RUnlock()
	return logger, verbosity
}

// Info logs at info level (-v)
func Info(msg string, args ...any) {
	if l, v := current(); v >= LevelInfo {
		l.Info(msg, args...)
	}
}

// Debug logs at debug level (-vv)
func Debug(msg string, args ...any) {
	if l, v := current(); v >= LevelDebug {
		l.Debug(msg, args...)
	}
}

// Trace logs at trace level (-vvv)
func Trace(msg string, args ...any) {
	if l, v := current(); v >= LevelTrace {
		l.Log(context.Background(), slogLevelTrace, msg, args...)
	}
}

// Warn logs at warn level (always visible)
func Warn(msg string, args ...any) {
	l, _ := current()
	l.Warn(msg, args...)
}

// Error logs at error level (always visible)
func Error(msg string, args ...any) {
	l, _ := current()
	l.Error(msg, args...)
}

// IsDebug returns true if debug-level logging is enabled
func IsDebug() bool {
	_, v := current()
	return v >= LevelDebug
}

// IsTrace returns true if trace-level logging is enabled
func IsTrace() bool {
	_, v := current()
	return v >= LevelTrace
}

// Verbosity returns the current verbosity level
func Verbosity() int {
	_, v := current()
	return v
}

func init() {
	Initialize(LevelQuiet, os.Stderr)
}
