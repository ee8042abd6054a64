// Package logger provides leveled, component-tagged logging for streamrelay.
//
// Components pass a short tag ("relay", "telegram", "archive") so log lines
// from concurrent pipeline tasks stay attributable.
package logger

import (
	"io"
	"os"
	"sort"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

// Level mirrors the backend levels so callers don't import the backend.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var (
	mu  sync.RWMutex
	std = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		Level:           charmlog.InfoLevel,
	})
)

// SetLevel adjusts the global log level at runtime.
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	std.SetLevel(charmLevel(level))
}

// SetOutput redirects log output, primarily for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	std.SetOutput(w)
}

func charmLevel(level Level) charmlog.Level {
	switch level {
	case DEBUG:
		return charmlog.DebugLevel
	case WARN:
		return charmlog.WarnLevel
	case ERROR:
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

// DebugC logs a debug message for a component.
func DebugC(component, msg string) { logC(charmlog.DebugLevel, component, msg, nil) }

// InfoC logs an info message for a component.
func InfoC(component, msg string) { logC(charmlog.InfoLevel, component, msg, nil) }

// WarnC logs a warning for a component.
func WarnC(component, msg string) { logC(charmlog.WarnLevel, component, msg, nil) }

// ErrorC logs an error for a component.
func ErrorC(component, msg string) { logC(charmlog.ErrorLevel, component, msg, nil) }

// DebugCF logs a debug message with structured fields.
func DebugCF(component, msg string, fields map[string]any) {
	logC(charmlog.DebugLevel, component, msg, fields)
}

// InfoCF logs an info message with structured fields.
func InfoCF(component, msg string, fields map[string]any) {
	logC(charmlog.InfoLevel, component, msg, fields)
}

// WarnCF logs a warning with structured fields.
func WarnCF(component, msg string, fields map[string]any) {
	logC(charmlog.WarnLevel, component, msg, fields)
}

// ErrorCF logs an error with structured fields.
func ErrorCF(component, msg string, fields map[string]any) {
	logC(charmlog.ErrorLevel, component, msg, fields)
}

func logC(level charmlog.Level, component, msg string, fields map[string]any) {
	keyvals := make([]any, 0, 2+2*len(fields))
	keyvals = append(keyvals, "component", component)

	// Sorted keys keep field order stable across runs.
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		keyvals = append(keyvals, k, fields[k])
	}

	mu.RLock()
	defer mu.RUnlock()
	std.Log(level, msg, keyvals...)
}
