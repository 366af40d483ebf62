package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"reel-service/pkg/config"
)

// Logger wraps logrus so call sites depend on a stable surface.
type Logger struct {
	entry *logrus.Logger
	file  *os.File
}

var (
	globalLogger *Logger
	globalMu     sync.RWMutex
)

// NewLogger builds a logger from service configuration.
func NewLogger(cfg *config.Config) *Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Log.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.EqualFold(cfg.Log.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05.000"})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
		})
	}

	logger := &Logger{entry: l}

	switch strings.ToLower(cfg.Log.Output) {
	case "file":
		if f := openLogFile(cfg.Log.Filename); f != nil {
			logger.file = f
			l.SetOutput(f)
		}
	case "both":
		if f := openLogFile(cfg.Log.Filename); f != nil {
			logger.file = f
			l.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	default:
		l.SetOutput(os.Stdout)
	}

	return logger
}

func openLogFile(filename string) *os.File {
	if filename == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return nil
	}
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil
	}
	return f
}

// Close flushes and releases the log file if one is open.
func (l *Logger) Close() {
	if l.file != nil {
		_ = l.file.Close()
	}
}

// SetGlobalLogger installs the process-wide logger.
func SetGlobalLogger(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

func std() *logrus.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalLogger != nil {
		return globalLogger.entry
	}
	return logrus.StandardLogger()
}

// Debug logs a debug message with structured fields.
func Debug(msg string, fields map[string]interface{}) {
	std().WithFields(fields).Debug(msg)
}

// Info logs an info message with structured fields.
func Info(msg string, fields map[string]interface{}) {
	std().WithFields(fields).Info(msg)
}

// Warn logs a warning message with structured fields.
func Warn(msg string, fields map[string]interface{}) {
	std().WithFields(fields).Warn(msg)
}

// Error logs an error message with structured fields.
func Error(msg string, fields map[string]interface{}) {
	std().WithFields(fields).Error(msg)
}

// Debugf logs a formatted debug message.
func Debugf(format string, args ...interface{}) {
	std().Debugf(format, args...)
}

// Infof logs a formatted info message.
func Infof(format string, args ...interface{}) {
	std().Infof(format, args...)
}

// Warnf logs a formatted warning message.
func Warnf(format string, args ...interface{}) {
	std().Warnf(format, args...)
}

// Errorf logs a formatted error message.
func Errorf(format string, args ...interface{}) {
	std().Errorf(format, args...)
}

// Fatal logs the message and exits.
func Fatal(msg string) {
	std().Fatal(msg)
}
