package core

import (
	"bytes"
	"fmt"
	"testing"
)

func TestWriterLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf)

	logger.Printf("rendered %d of %d tiles\n", 3, 4)

	if got := buf.String(); got != "rendered 3 of 4 tiles\n" {
		t.Errorf("Unexpected output %q", got)
	}
}

func TestNopLogger(t *testing.T) {
	var logger Logger = NopLogger{}
	logger.Printf("ignored %s", "message")
}

type recordingLogger struct {
	infos, warnings []string
}

func (r *recordingLogger) Printf(format string, args ...interface{}) {
	r.infos = append(r.infos, fmt.Sprintf(format, args...))
}

func (r *recordingLogger) Warnf(format string, args ...interface{}) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func TestWarnf(t *testing.T) {
	t.Run("plain logger gets prefix", func(t *testing.T) {
		var buf bytes.Buffer
		Warnf(NewWriterLogger(&buf), "tile %d failed\n", 7)
		if got := buf.String(); got != "Warning: tile 7 failed\n" {
			t.Errorf("Unexpected output %q", got)
		}
	})

	t.Run("warning logger routes separately", func(t *testing.T) {
		logger := &recordingLogger{}
		Warnf(logger, "tile %d failed\n", 7)
		if len(logger.infos) != 0 {
			t.Errorf("Expected no info lines, got %q", logger.infos)
		}
		if len(logger.warnings) != 1 || logger.warnings[0] != "tile 7 failed\n" {
			t.Errorf("Unexpected warnings %q", logger.warnings)
		}
	})
}
