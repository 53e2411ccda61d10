// Package observability provides the logging, metrics, and tracing
// contracts shared across the graphmesh kernel.
package observability

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"
)

// LogLevel defines log message severity.
type LogLevel string

// Log levels.
const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
	LogLevelFatal LogLevel = "FATAL"
)

var levelRank = map[LogLevel]int{
	LogLevelDebug: 0,
	LogLevelInfo:  1,
	LogLevelWarn:  2,
	LogLevelError: 3,
	LogLevelFatal: 4,
}

// Logger is the structured logging contract.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	Fatal(msg string, fields map[string]interface{})

	// WithPrefix returns a logger tagging every message with prefix.
	WithPrefix(prefix string) Logger
	// With returns a logger attaching fields to every message.
	With(fields map[string]interface{}) Logger
}

// StandardLogger writes structured lines through the standard log package.
type StandardLogger struct {
	prefix string
	level  LogLevel
	fields map[string]interface{}
}

// NewStandardLogger creates a logger with the given prefix at INFO level.
func NewStandardLogger(prefix string) *StandardLogger {
	return &StandardLogger{prefix: prefix, level: LogLevelInfo}
}

// WithLevel returns a copy of the logger with the given minimum level.
func (l *StandardLogger) WithLevel(level LogLevel) *StandardLogger {
	clone := l.clone()
	clone.level = level
	return clone
}

// WithPrefix returns a copy of the logger with a new prefix.
func (l *StandardLogger) WithPrefix(prefix string) Logger {
	clone := l.clone()
	clone.prefix = prefix
	return clone
}

// With returns a copy of the logger with extra fields attached to every
// message.
func (l *StandardLogger) With(fields map[string]interface{}) Logger {
	clone := l.clone()
	for k, v := range fields {
		clone.fields[k] = v
	}
	return clone
}

// Debug logs a debug message.
func (l *StandardLogger) Debug(msg string, fields map[string]interface{}) {
	l.log(LogLevelDebug, msg, fields)
}

// Info logs an info message.
func (l *StandardLogger) Info(msg string, fields map[string]interface{}) {
	l.log(LogLevelInfo, msg, fields)
}

// Warn logs a warning message.
func (l *StandardLogger) Warn(msg string, fields map[string]interface{}) {
	l.log(LogLevelWarn, msg, fields)
}

// Error logs an error message.
func (l *StandardLogger) Error(msg string, fields map[string]interface{}) {
	l.log(LogLevelError, msg, fields)
}

// Fatal logs a fatal message and exits.
func (l *StandardLogger) Fatal(msg string, fields map[string]interface{}) {
	l.log(LogLevelFatal, msg, fields)
	os.Exit(1)
}

func (l *StandardLogger) clone() *StandardLogger {
	fields := make(map[string]interface{}, len(l.fields))
	for k, v := range l.fields {
		fields[k] = v
	}
	return &StandardLogger{prefix: l.prefix, level: l.level, fields: fields}
}

func (l *StandardLogger) log(level LogLevel, msg string, fields map[string]interface{}) {
	if levelRank[level] < levelRank[l.level] {
		return
	}

	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	timestamp := time.Now().Format(time.RFC3339Nano)
	log.Printf("%s [%s] [%s] %s%s", timestamp, level, l.prefix, msg, formatFields(merged))
}

func formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	return b.String()
}
