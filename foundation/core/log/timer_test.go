// File: timer_test.go
// Title: Timer Tests
// Description: Tests for operation timers.
// Version: v0.1.0
// Created: 2025-01-24
// Modified: 2025-03-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation

package log

import (
	"errors"
	"strings"
	"testing"
)

func TestTimerStop(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatText)

	timer := logger.StartTimer("lex").WithField("file", "a.tn")
	timer.Stop()
	out := buf.String()
	if !strings.Contains(out, "lex completed") || !strings.Contains(out, "operation=lex") || !strings.Contains(out, "file=a.tn") {
		t.Errorf("unexpected timer output %q", out)
	}

	buf.Reset()
	if got := timer.Stop(); got != 0 {
		t.Errorf("second Stop() = %v, want 0", got)
	}
	if buf.Len() != 0 {
		t.Errorf("second Stop() logged %q", buf.String())
	}
}

func TestTimerStopWithError(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn, FormatText)
	logger.StartTimer("parse").StopWithError(errors.New("2 errors"))
	if !strings.Contains(buf.String(), "parse failed") || !strings.Contains(buf.String(), `error="2 errors"`) {
		t.Errorf("unexpected output %q", buf.String())
	}
}
