// File: logger.go
// Title: Logger
// Description: The Logger handed to every compiler phase. Phases derive a
//              child tagged with their component and log counts and timings
//              through it; tools install a configured root as the default.
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-03-09
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with async output and caller info
// - 2025-03-02 v0.1.0: Synchronous output only; Logger values are immutable after With*
// - 2025-03-09 v0.2.0: Entries assembled from merged field sets

package log

import (
	"io"
	"os"
	"sync"
)

// Logger writes entries at or above its level. The With* methods return
// derived loggers and never change the receiver; derived loggers share the
// output lock of their root.
type Logger struct {
	level     Level
	formatter Formatter
	output    io.Writer
	name      string
	fields    Fields
	mu        *sync.Mutex
}

// Config describes a root logger
type Config struct {
	Level  Level
	Format Format
	Output io.Writer // stderr when nil
	Name   string
}

// New returns a text logger on stderr at DefaultLevel
func New() *Logger {
	return NewWithConfig(Config{Level: DefaultLevel(), Format: FormatText})
}

// NewWithConfig returns a root logger for config
func NewWithConfig(config Config) *Logger {
	output := config.Output
	if output == nil {
		output = os.Stderr
	}
	return &Logger{
		level:     config.Level,
		formatter: GetFormatter(config.Format),
		output:    output,
		name:      config.Name,
		fields:    Fields{},
		mu:        &sync.Mutex{},
	}
}

func (l *Logger) WithLevel(level Level) *Logger {
	return l.derive(func(c *Logger) { c.level = level })
}

// WithOutput returns a logger writing to output under its own lock
func (l *Logger) WithOutput(output io.Writer) *Logger {
	return l.derive(func(c *Logger) {
		c.output = output
		c.mu = &sync.Mutex{}
	})
}

func (l *Logger) WithName(name string) *Logger {
	return l.derive(func(c *Logger) { c.name = name })
}

// WithField returns a logger that adds key to every entry, as phases do
// with "component"
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.WithFields(Fields{key: value})
}

func (l *Logger) WithFields(fields Fields) *Logger {
	return l.derive(func(c *Logger) { c.fields = c.fields.Merge(fields) })
}

func (l *Logger) Trace(message string, fields ...Fields) {
	l.log(LevelTrace, message, nil, fields)
}

func (l *Logger) Debug(message string, fields ...Fields) {
	l.log(LevelDebug, message, nil, fields)
}

func (l *Logger) Info(message string, fields ...Fields) {
	l.log(LevelInfo, message, nil, fields)
}

func (l *Logger) Warn(message string, fields ...Fields) {
	l.log(LevelWarn, message, nil, fields)
}

func (l *Logger) Error(message string, fields ...Fields) {
	l.log(LevelError, message, nil, fields)
}

// ErrorWithErr logs message at error level with err attached
func (l *Logger) ErrorWithErr(message string, err error, fields ...Fields) {
	l.log(LevelError, message, err, fields)
}

// WarnWithErr logs message at warn level with err attached
func (l *Logger) WarnWithErr(message string, err error, fields ...Fields) {
	l.log(LevelWarn, message, err, fields)
}

// StartTimer starts timing a phase such as "lex" or "parse"
func (l *Logger) StartTimer(operation string) *Timer {
	return NewTimer(l, operation)
}

// IsLevelEnabled reports whether an entry at level would be written
func (l *Logger) IsLevelEnabled(level Level) bool {
	return level.ShouldLog(l.level)
}

func (l *Logger) GetLevel() Level {
	return l.level
}

func (l *Logger) log(level Level, message string, err error, sets []Fields) {
	if !level.ShouldLog(l.level) {
		return
	}

	entry := NewEntry(level, message)
	entry.Logger = l.name
	entry.Error = err
	entry.Fields = l.fields
	for _, set := range sets {
		entry.Fields = entry.Fields.Merge(set)
	}

	line, formatErr := l.formatter.Format(entry)
	if formatErr != nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output.Write(line)
}

// derive copies l, applies change to the copy and returns it
func (l *Logger) derive(change func(*Logger)) *Logger {
	c := *l
	change(&c)
	return &c
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = New()
)

// GetDefault returns the logger phases use when their options carry none
func GetDefault() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault installs logger as the default. A nil logger is ignored.
func SetDefault(logger *Logger) {
	if logger == nil {
		return
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}
