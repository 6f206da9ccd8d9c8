// ============================================================================
// tnc - Tonic front end
// ============================================================================
//
// Package:     config
// Description: Configuration loading for the tnc command line tool
// License:     MIT
// ============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	tnclog "github.com/msto63/tnc/foundation/core/log"
)

// EnvVar names the environment variable holding the config file path
const EnvVar = "TNC_CONFIG"

// Config holds the complete tool configuration
type Config struct {
	Compiler CompilerConfig `toml:"compiler" yaml:"compiler"`
	Logging  LoggingConfig  `toml:"logging" yaml:"logging"`
	Reports  ReportsConfig  `toml:"reports" yaml:"reports"`
	Output   OutputConfig   `toml:"output" yaml:"output"`
}

// CompilerConfig holds front-end settings
type CompilerConfig struct {
	// TabWidth is informational; the lexer always expands tabs to four spaces
	TabWidth        int    `toml:"tab_width" yaml:"tab_width"`
	MaxSourceBytes  int64  `toml:"max_source_bytes" yaml:"max_source_bytes"`
	DefaultFileName string `toml:"default_file_name" yaml:"default_file_name"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	// File is appended to when set; stderr otherwise
	File string `toml:"file" yaml:"file"`
}

// ReportsConfig holds diagnostics archive settings
type ReportsConfig struct {
	Enabled   bool     `toml:"enabled" yaml:"enabled"`
	Path      string   `toml:"path" yaml:"path"`
	Retention Duration `toml:"retention" yaml:"retention"`
}

// OutputConfig holds terminal output settings
type OutputConfig struct {
	Color     *bool  `toml:"color" yaml:"color"`
	ASTFormat string `toml:"ast_format" yaml:"ast_format"`
}

// ColorEnabled reports whether styled output is wanted
func (o OutputConfig) ColorEnabled() bool {
	return o.Color == nil || *o.Color
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads the given file, or the first config found via TNC_CONFIG
// and the default locations. Without any config file the defaults are returned.
// An explicitly named file that does not exist is an error.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if env := os.Getenv(EnvVar); env != "" {
		return Load(env)
	}
	for _, p := range defaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

func defaultPaths() []string {
	paths := []string{"./tnc.toml", "./tnc.yaml", "./tnc.yml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config/tnc/config.toml"),
			filepath.Join(home, ".config/tnc/config.yaml"),
		)
	}
	return paths
}

// Validate checks values that have a fixed set of choices
func (c *Config) Validate() error {
	if _, err := tnclog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level %q", c.Logging.Level)
	}
	if _, err := tnclog.ParseFormat(c.Logging.Format); err != nil {
		return fmt.Errorf("invalid logging.format %q", c.Logging.Format)
	}
	switch c.Output.ASTFormat {
	case "tree", "yaml":
	default:
		return fmt.Errorf("invalid output.ast_format %q: want tree or yaml", c.Output.ASTFormat)
	}
	if c.Compiler.MaxSourceBytes < 0 {
		return fmt.Errorf("compiler.max_source_bytes must not be negative")
	}
	return nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// Compiler
	if c.Compiler.TabWidth == 0 {
		c.Compiler.TabWidth = 4
	}
	if c.Compiler.MaxSourceBytes == 0 {
		c.Compiler.MaxSourceBytes = 4 << 20
	}
	if c.Compiler.DefaultFileName == "" {
		c.Compiler.DefaultFileName = "main.tn"
	}

	// Logging
	if c.Logging.Level == "" {
		c.Logging.Level = "error"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	// Reports
	if c.Reports.Path == "" {
		c.Reports.Path = "./data/tnc-reports.db"
	}
	if c.Reports.Retention.Duration == 0 {
		c.Reports.Retention.Duration = 30 * 24 * time.Hour
	}

	// Output
	if c.Output.ASTFormat == "" {
		c.Output.ASTFormat = "tree"
	}
}

// expandEnvVars expands environment variables in path settings
func (c *Config) expandEnvVars() {
	c.Logging.File = os.ExpandEnv(c.Logging.File)
	c.Reports.Path = os.ExpandEnv(c.Reports.Path)
}
