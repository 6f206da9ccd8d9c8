package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tnclog "github.com/msto63/tnc/foundation/core/log"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level    string
		expected tnclog.Level
	}{
		{"trace", tnclog.LevelTrace},
		{"debug", tnclog.LevelDebug},
		{"info", tnclog.LevelInfo},
		{"warn", tnclog.LevelWarn},
		{"error", tnclog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, closer, err := NewLogger(LoggerConfig{Level: tt.level, Output: &bytes.Buffer{}})
			if err != nil {
				t.Fatalf("NewLogger() error = %v", err)
			}
			defer closer.Close()
			if got := logger.GetLevel(); got != tt.expected {
				t.Errorf("GetLevel() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNewLogger_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  LoggerConfig
	}{
		{"level", LoggerConfig{Level: "loud"}},
		{"format", LoggerConfig{Level: "info", Format: "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, closer, err := NewLogger(tt.cfg)
			if err == nil {
				t.Error("NewLogger() expected error")
			}
			if closer == nil {
				t.Error("NewLogger() returned a nil closer")
			}
		})
	}
}

func TestNewLogger_Output(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := NewLogger(LoggerConfig{Name: "tnc", Level: "debug", Output: &buf})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	defer closer.Close()

	logger.Debug("hello", tnclog.Fields{"file": "main.tn"})

	out := buf.String()
	if !strings.Contains(out, "hello") || !strings.Contains(out, "file=main.tn") {
		t.Errorf("output = %q, want message and field", out)
	}
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tnc.log")

	logger, closer, err := NewLogger(LoggerConfig{Level: "info", Output: &bytes.Buffer{}, File: path})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	logger.Info("written to file")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("log file = %q, want the message", data)
	}
}

func TestNewSimpleLogger(t *testing.T) {
	logger := NewSimpleLogger("tnc")
	if logger == nil {
		t.Fatal("NewSimpleLogger() returned nil")
	}
	if logger.GetLevel() != tnclog.LevelError {
		t.Errorf("GetLevel() = %v, want error", logger.GetLevel())
	}
}
