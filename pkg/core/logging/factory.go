// ============================================================================
// tnc - Tonic front end
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating configured loggers
// License:     MIT
// ============================================================================

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	tnclog "github.com/msto63/tnc/foundation/core/log"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Logger name, shown in every entry
	Name string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format (text, json, console); default text
	Format string

	// Output writer; stderr when nil
	Output io.Writer

	// File is opened for appending and written besides Output when set
	File string
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(name string) LoggerConfig {
	return LoggerConfig{
		Name:   name,
		Level:  "error",
		Format: "text",
	}
}

// NewLogger creates a logger from cfg. The returned closer releases the log
// file and is never nil.
func NewLogger(cfg LoggerConfig) (*tnclog.Logger, io.Closer, error) {
	level, err := tnclog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nopCloser{}, fmt.Errorf("invalid log level %q", cfg.Level)
	}
	format, err := tnclog.ParseFormat(cfg.Format)
	if err != nil {
		return nil, nopCloser{}, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		file, err := openLogFile(cfg.File)
		if err != nil {
			return nil, nopCloser{}, err
		}
		output = io.MultiWriter(output, file)
		closer = file
	}

	logger := tnclog.NewWithConfig(tnclog.Config{
		Level:  level,
		Format: format,
		Output: output,
		Name:   cfg.Name,
	})
	return logger, closer, nil
}

// NewSimpleLogger creates a default logger that cannot fail
func NewSimpleLogger(name string) *tnclog.Logger {
	logger, _, _ := NewLogger(DefaultLoggerConfig(name))
	return logger
}

func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
