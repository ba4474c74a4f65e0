// Package logger provides the process-wide log used by axlocator commands.
// It is silent until Init or InitWriter is called.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level is a log severity threshold.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of Level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel converts a config value to a Level. Unknown values map to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

var (
	globalLogger *log.Logger
	logFile      *os.File
	writer       io.Writer = io.Discard
	threshold              = LevelDebug
	mu           sync.Mutex
)

// Init initializes the global logger with the specified log file path.
// File logging records every level.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	// Close previous log file if exists
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	logFile = f
	writer = f
	threshold = LevelDebug
	globalLogger = log.New(f, "", log.Ltime|log.Lmicroseconds)

	return nil
}

// InitWriter sends log output to w, dropping messages below level.
// Any file opened by Init is closed.
func InitWriter(w io.Writer, level Level) {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	writer = w
	threshold = level
	globalLogger = log.New(w, "", log.Ltime|log.Lmicroseconds)
}

// Close closes the log file and silences the logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	globalLogger = nil
	writer = io.Discard
}

func logf(level Level, format string, v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if globalLogger == nil || level < threshold {
		return
	}
	globalLogger.Printf("["+strings.ToUpper(level.String())+"] "+format, v...)
}

// Info logs an info message.
func Info(format string, v ...interface{}) {
	logf(LevelInfo, format, v...)
}

// Debug logs a debug message.
func Debug(format string, v ...interface{}) {
	logf(LevelDebug, format, v...)
}

// Error logs an error message.
func Error(format string, v ...interface{}) {
	logf(LevelError, format, v...)
}

// Warn logs a warning message.
func Warn(format string, v ...interface{}) {
	logf(LevelWarn, format, v...)
}

// GetWriter returns the writer log lines go to, or io.Discard when not initialised.
func GetWriter() io.Writer {
	mu.Lock()
	defer mu.Unlock()

	return writer
}
