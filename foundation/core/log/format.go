// File: format.go
// Title: Log Formatters
// Description: Renders log entries as one line each: compact text for
//              terminals and CI logs, or JSON for tools that collect compiler
//              runs.
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-03-09
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with JSON, text, console and logfmt
// - 2025-03-02 v0.1.0: Deterministic field order, logfmt removed
// - 2025-03-09 v0.2.0: Format names in one table, text lines built in place

package log

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Format selects how entries are rendered
type Format int

const (
	// FormatText prints "15:04:05 [DBG] {name} message [k=v ...]"
	FormatText Format = iota
	// FormatJSON prints one JSON object per entry
	FormatJSON
	// FormatConsole is FormatText with the level tag colored
	FormatConsole
)

var formatNames = [...]struct {
	name    string
	aliases []string
}{
	FormatText:    {"text", []string{"txt", ""}},
	FormatJSON:    {"json", nil},
	FormatConsole: {"console", []string{"color"}},
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return "unknown"
	}
	return formatNames[f].name
}

// ParseFormat reads a format name. An empty name selects FormatText.
func ParseFormat(format string) (Format, error) {
	input := strings.ToLower(strings.TrimSpace(format))
	for i, names := range formatNames {
		if input == names.name {
			return Format(i), nil
		}
		for _, alias := range names.aliases {
			if input == alias {
				return Format(i), nil
			}
		}
	}
	return FormatText, &ParseError{Input: format, Type: "format"}
}

// Formatter renders one entry, including its trailing newline
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// GetFormatter returns the formatter for format
func GetFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{TimestampFormat: time.RFC3339Nano}
	case FormatConsole:
		return &TextFormatter{TimestampFormat: "15:04:05", Colors: true}
	default:
		return &TextFormatter{TimestampFormat: "15:04:05"}
	}
}

// JSONFormatter writes the entry's fields next to the reserved keys
// timestamp, level, message, logger and error. Reserved keys win over fields
// of the same name.
type JSONFormatter struct {
	TimestampFormat string
}

func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	data := make(map[string]interface{}, len(entry.Fields)+5)
	for k, v := range entry.Fields {
		// error values marshal as {}
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		data[k] = v
	}
	data["timestamp"] = entry.Timestamp.Format(f.TimestampFormat)
	data["level"] = entry.Level.String()
	data["message"] = entry.Message
	if entry.Logger != "" {
		data["logger"] = entry.Logger
	}
	if entry.Error != nil {
		data["error"] = entry.Error.Error()
	}

	out, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// TextFormatter writes a single line with fields sorted by key
type TextFormatter struct {
	// TimestampFormat is the layout of the leading time; empty omits it
	TimestampFormat string

	// Colors wraps the level tag in ANSI color codes
	Colors bool
}

const colorReset = "\033[0m"

var levelColors = [...]string{
	LevelTrace: "\033[37m",
	LevelDebug: "\033[36m",
	LevelInfo:  "\033[32m",
	LevelWarn:  "\033[33m",
	LevelError: "\033[31m",
	LevelFatal: "\033[35m",
}

func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	var b strings.Builder

	if f.TimestampFormat != "" {
		b.WriteString(entry.Timestamp.Format(f.TimestampFormat))
		b.WriteByte(' ')
	}

	tag := "[" + entry.Level.ShortString() + "]"
	if f.Colors && entry.Level.valid() {
		tag = levelColors[entry.Level] + tag + colorReset
	}
	b.WriteString(tag)

	if entry.Logger != "" {
		fmt.Fprintf(&b, " {%s}", entry.Logger)
	}
	b.WriteByte(' ')
	b.WriteString(entry.Message)

	if len(entry.Fields) > 0 {
		b.WriteString(" [")
		for i, k := range entry.Fields.Keys() {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%s=%v", k, entry.Fields[k])
		}
		b.WriteByte(']')
	}

	if entry.Error != nil {
		fmt.Fprintf(&b, " error=%q", entry.Error.Error())
	}

	b.WriteByte('\n')
	return []byte(b.String()), nil
}
