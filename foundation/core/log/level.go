// File: level.go
// Title: Log Levels
// Description: Severity levels for compiler log entries, their names in
//              configuration files and their short tags in text output.
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-03-09
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with seven levels
// - 2025-03-02 v0.1.0: Dropped the audit level
// - 2025-03-09 v0.2.0: Level names kept in one table; default raised to error

package log

import (
	"strings"
)

// Level orders log entries by severity. A logger writes an entry when the
// entry's level is at or above its own.
type Level int

const (
	// LevelTrace is for per-token and per-node detail
	LevelTrace Level = iota

	// LevelDebug is for phase summaries: token and statement counts, timings
	LevelDebug

	// LevelInfo is for tool-level events such as an archived check run
	LevelInfo

	// LevelWarn is for a phase that failed with diagnostics
	LevelWarn

	// LevelError is for failures outside the compiled source, like an
	// unreadable file or a broken archive
	LevelError

	// LevelFatal ends the process
	LevelFatal
)

// levelNames holds, per level, the configuration name, the text tag and
// accepted aliases.
var levelNames = [...]struct {
	name    string
	tag     string
	aliases []string
}{
	LevelTrace: {"trace", "TRC", []string{"trc"}},
	LevelDebug: {"debug", "DBG", []string{"dbg"}},
	LevelInfo:  {"info", "INF", []string{"inf", "information"}},
	LevelWarn:  {"warn", "WRN", []string{"wrn", "warning"}},
	LevelError: {"error", "ERR", []string{"err"}},
	LevelFatal: {"fatal", "FTL", []string{"ftl"}},
}

func (l Level) valid() bool {
	return l >= 0 && int(l) < len(levelNames)
}

// String returns the name used in configuration files
func (l Level) String() string {
	if !l.valid() {
		return "unknown"
	}
	return levelNames[l].name
}

// ShortString returns the tag the text formatter prints in brackets
func (l Level) ShortString() string {
	if !l.valid() {
		return "UNK"
	}
	return levelNames[l].tag
}

// ShouldLog reports whether l passes the threshold minLevel
func (l Level) ShouldLog(minLevel Level) bool {
	return l >= minLevel
}

// ParseLevel reads a level name or alias, ignoring case and surrounding
// blanks. Unknown input yields LevelInfo and a *ParseError.
func ParseLevel(level string) (Level, error) {
	input := strings.ToLower(strings.TrimSpace(level))
	for i, names := range levelNames {
		if input == names.name {
			return Level(i), nil
		}
		for _, alias := range names.aliases {
			if input == alias {
				return Level(i), nil
			}
		}
	}
	return LevelInfo, &ParseError{Input: level, Type: "level"}
}

// ParseError is returned for an unknown level or format name
type ParseError struct {
	Input string
	Type  string
}

func (e *ParseError) Error() string {
	return "invalid " + e.Type + ": " + e.Input
}

// DefaultLevel is the threshold of loggers built without configuration.
// Phase failures are logged at warn and already reach the user as
// diagnostics, so they stay hidden unless a tool lowers the level.
func DefaultLevel() Level {
	return LevelError
}
