// File: timer.go
// Title: Operation Timer
// Description: Measures the duration of an operation and logs it on completion.
//              The compiler uses it to time the lexing and parsing phases.
// Version: v0.1.0
// Created: 2025-01-24
// Modified: 2025-03-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with checkpoints
// - 2025-03-02 v0.1.0: Simplified to Stop and StopWithError

package log

import (
	"time"
)

// Timer represents a performance timer for measuring operation duration
type Timer struct {
	logger    *Logger
	operation string
	startTime time.Time
	fields    Fields
	stopped   bool
}

// NewTimer creates a new timer for the given operation
func NewTimer(logger *Logger, operation string) *Timer {
	return &Timer{
		logger:    logger,
		operation: operation,
		startTime: time.Now(),
		fields:    make(Fields),
	}
}

// WithField adds a field to be logged when the timer completes
func (t *Timer) WithField(key string, value interface{}) *Timer {
	t.fields[key] = value
	return t
}

// Elapsed returns the elapsed time since the timer was started
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.startTime)
}

// Stop stops the timer and logs the elapsed time at debug level.
// Stopping twice returns 0 and logs nothing.
func (t *Timer) Stop() time.Duration {
	return t.stop(nil)
}

// StopWithError stops the timer and logs the elapsed time together with err
// at warn level, or at debug level when err is nil.
func (t *Timer) StopWithError(err error) time.Duration {
	return t.stop(err)
}

func (t *Timer) stop(err error) time.Duration {
	if t.stopped {
		return 0
	}
	elapsed := t.Elapsed()
	t.stopped = true

	if t.logger == nil {
		return elapsed
	}
	fields := t.fields.Merge(Fields{
		"operation":   t.operation,
		"duration_ms": float64(elapsed.Nanoseconds()) / 1e6,
	})
	if err != nil {
		t.logger.WarnWithErr(t.operation+" failed", err, fields)
	} else {
		t.logger.Debug(t.operation+" completed", fields)
	}
	return elapsed
}
