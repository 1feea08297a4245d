// Package log provides logging to both the console and a log file.
package log

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger writes informational output to the console and the log file,
// and errors to stderr and the log file.
type Logger struct {
	mu      sync.Mutex
	file    *os.File
	console io.Writer
	errOut  io.Writer
}

// New creates a logger appending to gatewise.log in logDir.
// When quiet is set, informational output goes to the file only.
func New(logDir string, quiet bool) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	logPath := filepath.Join(logDir, "gatewise.log")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	console := io.MultiWriter(os.Stdout, file)
	if quiet {
		console = file
	}

	return &Logger{
		file:    file,
		console: console,
		errOut:  io.MultiWriter(os.Stderr, file),
	}, nil
}

// Printf writes a formatted message to the console and log file.
func (l *Logger) Printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintf(l.console, format, args...)
}

// Warnf writes a timestamped warning to the log file only.
func (l *Logger) Warnf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprint(l.file, stamp("WARN", format, args...))
}

// Errorf writes a timestamped error to stderr and the log file.
func (l *Logger) Errorf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprint(l.errOut, stamp("ERROR", format, args...))
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func stamp(level, format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	return fmt.Sprintf("[%s] %s %s\n", timestamp, level, msg)
}

// Global logger instance
var globalLogger *Logger

// Init initializes the global logger and redirects the standard log package
// to the log file.
func Init(logDir string, quiet bool) error {
	logger, err := New(logDir, quiet)
	if err != nil {
		return err
	}
	globalLogger = logger

	stdlog.SetOutput(logger.file)
	stdlog.SetFlags(stdlog.Ldate | stdlog.Ltime)

	return nil
}

// Printf uses the global logger to print formatted output.
func Printf(format string, args ...any) {
	if globalLogger != nil {
		globalLogger.Printf(format, args...)
	} else {
		fmt.Printf(format, args...)
	}
}

// Warnf uses the global logger to record a warning.
func Warnf(format string, args ...any) {
	if globalLogger != nil {
		globalLogger.Warnf(format, args...)
	}
}

// Errorf uses the global logger to print formatted error output.
func Errorf(format string, args ...any) {
	if globalLogger != nil {
		globalLogger.Errorf(format, args...)
	} else {
		fmt.Fprint(os.Stderr, stamp("ERROR", format, args...))
	}
}

// Close closes the global logger.
func Close() error {
	if globalLogger != nil {
		return globalLogger.Close()
	}
	return nil
}

// ErrorLogger is the narrow logging surface the stores depend on.
type ErrorLogger interface {
	Errorf(format string, args ...any)
}

type globalErrors struct{}

func (globalErrors) Errorf(format string, args ...any) { Errorf(format, args...) }

// Default returns an ErrorLogger that forwards to the global logger.
func Default() ErrorLogger {
	return globalErrors{}
}
