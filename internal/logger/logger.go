package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/oarkflow/smpp-client/pkg/smpp"
)

// Level represents logging level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a configuration string onto a level. Unknown strings fall
// back to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

// DefaultLogger implements the smpp.Logger interface with leveled key=value
// output.
type DefaultLogger struct {
	level  Level
	fields map[string]interface{}
	logger *log.Logger
}

// New creates a logger writing to stdout at the given level.
func New(level string) smpp.Logger {
	return NewWithWriter(os.Stdout, ParseLevel(level))
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(w io.Writer, level Level) smpp.Logger {
	return &DefaultLogger{
		level:  level,
		fields: make(map[string]interface{}),
		logger: log.New(w, "", log.LstdFlags),
	}
}

// Debug logs a debug message
func (l *DefaultLogger) Debug(msg string, fields ...interface{}) {
	l.emit(LevelDebug, msg, fields...)
}

// Info logs an info message
func (l *DefaultLogger) Info(msg string, fields ...interface{}) {
	l.emit(LevelInfo, msg, fields...)
}

// Warn logs a warning message
func (l *DefaultLogger) Warn(msg string, fields ...interface{}) {
	l.emit(LevelWarn, msg, fields...)
}

// Error logs an error message
func (l *DefaultLogger) Error(msg string, fields ...interface{}) {
	l.emit(LevelError, msg, fields...)
}

// Fatal logs a fatal message and exits
func (l *DefaultLogger) Fatal(msg string, fields ...interface{}) {
	l.emit(LevelFatal, msg, fields...)
	os.Exit(1)
}

// WithFields returns a logger with additional fields
func (l *DefaultLogger) WithFields(fields map[string]interface{}) smpp.Logger {
	newFields := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}
	return &DefaultLogger{
		level:  l.level,
		fields: newFields,
		logger: l.logger,
	}
}

func (l *DefaultLogger) emit(level Level, msg string, fields ...interface{}) {
	if level < l.level {
		return
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("[%s]", level), msg)
	for k, v := range l.fields {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	for i := 0; i+1 < len(fields); i += 2 {
		parts = append(parts, fmt.Sprintf("%v=%v", fields[i], fields[i+1]))
	}
	if len(fields)%2 != 0 {
		parts = append(parts, fmt.Sprintf("%v", fields[len(fields)-1]))
	}
	l.logger.Println(strings.Join(parts, " "))
}
