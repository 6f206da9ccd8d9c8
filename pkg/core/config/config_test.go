package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"minutes", "5m", 5 * time.Minute, false},
		{"hours", "720h", 720 * time.Hour, false},
		{"complex", "1h30m", 90 * time.Minute, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	d := Duration{5 * time.Minute}
	result, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(result) != "5m0s" {
		t.Errorf("MarshalText() = %v, want 5m0s", string(result))
	}
}

func TestConfig_applyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.Compiler.TabWidth != 4 {
		t.Errorf("Compiler.TabWidth = %v, want 4", cfg.Compiler.TabWidth)
	}
	if cfg.Compiler.MaxSourceBytes != 4<<20 {
		t.Errorf("Compiler.MaxSourceBytes = %v, want %v", cfg.Compiler.MaxSourceBytes, 4<<20)
	}
	if cfg.Compiler.DefaultFileName != "main.tn" {
		t.Errorf("Compiler.DefaultFileName = %v, want main.tn", cfg.Compiler.DefaultFileName)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %v, want error", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format = %v, want text", cfg.Logging.Format)
	}
	if cfg.Reports.Enabled {
		t.Error("Reports.Enabled = true, want false")
	}
	if cfg.Reports.Retention.Duration != 30*24*time.Hour {
		t.Errorf("Reports.Retention = %v, want 720h", cfg.Reports.Retention.Duration)
	}
	if cfg.Output.ASTFormat != "tree" {
		t.Errorf("Output.ASTFormat = %v, want tree", cfg.Output.ASTFormat)
	}
	if !cfg.Output.ColorEnabled() {
		t.Error("Output.ColorEnabled() = false, want true")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/tnc.toml")
	if err == nil {
		t.Error("Load() expected error for non-existent file")
	}
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "tnc.toml",
			content: `
[compiler]
max_source_bytes = 1024

[logging]
level = "debug"

[reports]
enabled = true
retention = "48h"

[output]
color = false
ast_format = "yaml"
`,
		},
		{
			name: "yaml",
			file: "tnc.yaml",
			content: `
compiler:
  max_source_bytes: 1024
logging:
  level: debug
reports:
  enabled: true
  retention: 48h
output:
  color: false
  ast_format: yaml
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Compiler.MaxSourceBytes != 1024 {
				t.Errorf("MaxSourceBytes = %v, want 1024", cfg.Compiler.MaxSourceBytes)
			}
			if cfg.Logging.Level != "debug" {
				t.Errorf("Logging.Level = %v, want debug", cfg.Logging.Level)
			}
			if !cfg.Reports.Enabled {
				t.Error("Reports.Enabled = false, want true")
			}
			if cfg.Reports.Retention.Duration != 48*time.Hour {
				t.Errorf("Retention = %v, want 48h", cfg.Reports.Retention.Duration)
			}
			if cfg.Output.ColorEnabled() {
				t.Error("ColorEnabled() = true, want false")
			}
			if cfg.Output.ASTFormat != "yaml" {
				t.Errorf("ASTFormat = %v, want yaml", cfg.Output.ASTFormat)
			}
			// Defaults still fill what the file leaves out
			if cfg.Compiler.DefaultFileName != "main.tn" {
				t.Errorf("DefaultFileName = %v, want main.tn", cfg.Compiler.DefaultFileName)
			}
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad level", "[logging]\nlevel = \"loud\"\n"},
		{"bad format", "[logging]\nformat = \"xml\"\n"},
		{"bad ast format", "[output]\nast_format = \"json\"\n"},
		{"negative size", "[compiler]\nmax_source_bytes = -1\n"},
		{"bad duration", "[reports]\nretention = \"soon\"\n"},
		{"syntax", "[compiler\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, "tnc.toml", tt.content)); err == nil {
				t.Error("Load() expected error")
			}
		})
	}
}

func TestConfig_expandEnvVars(t *testing.T) {
	t.Setenv("TNC_TEST_DIR", "/tmp/tnc")

	cfg := &Config{Reports: ReportsConfig{Path: "$TNC_TEST_DIR/reports.db"}}
	cfg.expandEnvVars()

	if cfg.Reports.Path != "/tmp/tnc/reports.db" {
		t.Errorf("Reports.Path = %v, want /tmp/tnc/reports.db", cfg.Reports.Path)
	}
}

func TestLoadOrDefault(t *testing.T) {
	originalWd, _ := os.Getwd()
	tmpDir := t.TempDir()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(originalWd)
	t.Setenv("HOME", tmpDir)
	t.Setenv(EnvVar, "")

	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg.Output.ASTFormat != "tree" {
		t.Errorf("ASTFormat = %v, want tree", cfg.Output.ASTFormat)
	}

	path := writeConfig(t, "custom.toml", "[output]\nast_format = \"yaml\"\n")
	t.Setenv(EnvVar, path)
	cfg, err = LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg.Output.ASTFormat != "yaml" {
		t.Errorf("ASTFormat = %v, want yaml (from %s)", cfg.Output.ASTFormat, EnvVar)
	}

	if _, err := LoadOrDefault(filepath.Join(tmpDir, "missing.toml")); err == nil {
		t.Error("LoadOrDefault() expected error for a named missing file")
	}
}
