package logger

import (
	"fmt"
	"os"
	"strings"
)

var globalLogger *Logger

func init() {
	globalLogger = NewDefault()
	Configure(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

// Configure applies level and format names to the global logger. Empty or
// unknown names leave the current setting untouched.
func Configure(level, format string) {
	if level != "" {
		if l, err := ParseLevel(level); err == nil {
			globalLogger.SetLevel(l)
		}
	}
	if format != "" {
		if f, err := ParseFormat(format); err == nil {
			globalLogger.SetFormat(f)
		}
	}
}

// ParseLevel parses a log level name such as "debug" or "WARNING"
func ParseLevel(level string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG, nil
	case "INFO":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	case "FATAL":
		return FATAL, nil
	default:
		return INFO, fmt.Errorf("unknown log level %q", level)
	}
}

// ParseFormat parses "json" or "text"
func ParseFormat(format string) (LogFormat, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return JSONFormat, nil
	case "text":
		return TextFormat, nil
	default:
		return JSONFormat, fmt.Errorf("unknown log format %q", format)
	}
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *Logger {
	return globalLogger
}

// SetGlobalLogger sets the global logger instance
func SetGlobalLogger(logger *Logger) {
	globalLogger = logger
}

// Component returns a child of the global logger tagged with component
func Component(name string) *Logger {
	return globalLogger.WithComponent(name)
}

// Debug logs a debug message using the global logger
func Debug(message string, fields ...Fields) {
	globalLogger.log(DEBUG, message, firstFields(fields), nil)
}

// Info logs an info message using the global logger
func Info(message string, fields ...Fields) {
	globalLogger.log(INFO, message, firstFields(fields), nil)
}

// Warn logs a warning message using the global logger
func Warn(message string, fields ...Fields) {
	globalLogger.log(WARN, message, firstFields(fields), nil)
}

// Error logs an error message using the global logger
func Error(message string, err error, fields ...Fields) {
	globalLogger.log(ERROR, message, firstFields(fields), err)
}

// Fatal logs a fatal message using the global logger and exits
func Fatal(message string, err error, fields ...Fields) {
	globalLogger.log(FATAL, message, firstFields(fields), err)
}

// Infof logs a formatted info message using the global logger
func Infof(format string, args ...interface{}) {
	globalLogger.log(INFO, fmt.Sprintf(format, args...), nil, nil)
}

// Warnf logs a formatted warning message using the global logger
func Warnf(format string, args ...interface{}) {
	globalLogger.log(WARN, fmt.Sprintf(format, args...), nil, nil)
}
