// Package logging provides the leveled logger shared by the broker, the
// tracker and the CLI dispatcher.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Level represents the severity level of a log message.
type Level int

const (
	// DebugLevel is for debug messages.
	DebugLevel Level = iota
	// InfoLevel is for informational messages.
	InfoLevel
	// WarnLevel is for warning messages.
	WarnLevel
	// ErrorLevel is for error messages.
	ErrorLevel
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) toZerolog() zerolog.Level {
	switch l {
	case DebugLevel:
		return zerolog.DebugLevel
	case InfoLevel:
		return zerolog.InfoLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Logger is a leveled, prefixed logger. The zero value is not usable; use
// New.
type Logger struct {
	mu     sync.Mutex
	level  Level
	prefix string
	zl     zerolog.Logger
}

var defaultLogger *Logger

func init() {
	defaultLogger = New(os.Stdout, "", InfoLevel)
}

// New creates a Logger writing to out, labeling every line with prefix.
func New(out io.Writer, prefix string, level Level) *Logger {
	zl := zerolog.New(out).With().Timestamp().Logger().Level(level.toZerolog())
	return &Logger{
		level:  level,
		prefix: prefix,
		zl:     zl,
	}
}

// SetLevel sets the minimum level that will be emitted.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.zl = l.zl.Level(level.toZerolog())
}

// GetLevel returns the current minimum level.
func (l *Logger) GetLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetOutput redirects the logger's destination writer.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zl = zerolog.New(w).With().Timestamp().Logger().Level(l.level.toZerolog())
}

func (l *Logger) log(level Level, format string, v ...interface{}) {
	l.mu.Lock()
	zl := l.zl
	prefix := l.prefix
	l.mu.Unlock()

	evt := zl.WithLevel(level.toZerolog())
	if prefix != "" {
		evt = evt.Str("component", prefix)
	}
	evt.Msgf(format, v...)
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, v ...interface{}) { l.log(DebugLevel, format, v...) }

// Info logs an informational message.
func (l *Logger) Info(format string, v ...interface{}) { l.log(InfoLevel, format, v...) }

// Warn logs a warning message.
func (l *Logger) Warn(format string, v ...interface{}) { l.log(WarnLevel, format, v...) }

// Error logs an error message.
func (l *Logger) Error(format string, v ...interface{}) { l.log(ErrorLevel, format, v...) }

// Fatal logs an error message and exits the process.
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.log(ErrorLevel, format, v...)
	os.Exit(1)
}

// SetLevel sets the minimum level on the default logger.
func SetLevel(level Level) { defaultLogger.SetLevel(level) }

// GetLevel returns the default logger's minimum level.
func GetLevel() Level { return defaultLogger.GetLevel() }

// SetOutput redirects the default logger's destination writer.
func SetOutput(w io.Writer) { defaultLogger.SetOutput(w) }

// Debug logs a debug message using the default logger.
func Debug(format string, v ...interface{}) { defaultLogger.Debug(format, v...) }

// Info logs an informational message using the default logger.
func Info(format string, v ...interface{}) { defaultLogger.Info(format, v...) }

// Warn logs a warning message using the default logger.
func Warn(format string, v ...interface{}) { defaultLogger.Warn(format, v...) }

// Error logs an error message using the default logger.
func Error(format string, v ...interface{}) { defaultLogger.Error(format, v...) }

// Fatal logs an error message using the default logger and exits.
func Fatal(format string, v ...interface{}) { defaultLogger.Fatal(format, v...) }
