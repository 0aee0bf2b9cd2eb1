package core

import (
	"fmt"
	"io"
	"os"
)

// DefaultLogger implements Logger by writing to stdout
type DefaultLogger struct {
	out io.Writer
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() Logger {
	return &DefaultLogger{out: os.Stdout}
}

// NewWriterLogger creates a logger writing to w
func NewWriterLogger(w io.Writer) Logger {
	return &DefaultLogger{out: w}
}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(dl.out, format, args...)
}

// NopLogger discards all messages
type NopLogger struct{}

func (NopLogger) Printf(format string, args ...interface{}) {}

// Warnf logs a warning through l, prefixing it when l has no warning channel
func Warnf(l Logger, format string, args ...interface{}) {
	if wl, ok := l.(WarningLogger); ok {
		wl.Warnf(format, args...)
		return
	}
	l.Printf("Warning: "+format, args...)
}
