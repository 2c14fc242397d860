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

// Get returns a singleton console logger configured with the provided level.
// The first call (or Setup) initializes the logger; subsequent calls ignore
// the level and return the already initialized instance.
func Get(level string) *Logger {
	return Setup(Options{Level: level})
}

// Setup initializes the singleton from opts. Only the first call has an effect.
func Setup(opts Options) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(opts)
	})
	return globalLogger
}
