package converter

import (
	"fmt"
	"io"
	"os"
)

// Logger handles debug logging for the conversion pipeline. It stays silent
// unless enabled, so library callers pay nothing by default.
type Logger struct {
	enabled bool
	out     io.Writer
	errOut  io.Writer
}

func NewLogger(enabled bool) *Logger {
	return &Logger{
		enabled: enabled,
		out:     os.Stderr,
		errOut:  os.Stderr,
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.enabled {
		fmt.Fprintf(l.out, "[DEBUG] "+format+"\n", args...)
	}
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.enabled {
		fmt.Fprintf(l.errOut, "[pseudoc WARN] "+format+"\n", args...)
	}
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	if l.enabled {
		fmt.Fprintf(l.errOut, "[pseudoc ERROR] "+format+"\n", args...)
	}
}
