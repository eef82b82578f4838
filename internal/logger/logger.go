package logger

import (
	"sync"
)

// Log levels used across the application.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	// globalLogger holds the singleton logger instance.
	globalLogger *Logger
	once         sync.Once
)

// Get returns a process-wide logger tagged with the service name.
// The first call decides service and level; later calls return the same instance.
func Get(service, level string) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(service, level)
	})
	return globalLogger
}
