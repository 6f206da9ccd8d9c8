// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels for errors so the command line tool and the
//              report archive can order and filter diagnostics.
// Version: v0.1.0
// Created: 2025-01-24
// Modified: 2025-03-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with severity levels
// - 2025-03-02 v0.1.0: Severity mapping for compiler diagnostics

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates a minor problem that does not stop compilation
	SeverityLow Severity = iota

	// SeverityMedium indicates a problem reported by a later analysis stage
	SeverityMedium

	// SeverityHigh indicates malformed input that stops compilation of a file
	SeverityHigh

	// SeverityCritical indicates a defect inside the compiler itself
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Level returns the numeric level of the severity (0-3)
func (s Severity) Level() int {
	return int(s)
}

// ShouldAbort returns true if an error of this severity must stop the
// whole run instead of being collected.
func (s Severity) ShouldAbort() bool {
	return s >= SeverityCritical
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeInternal:
		return SeverityCritical
	case CodeSyntax, CodeDatabaseError, CodeConfigError, CodeInvalidConfig:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}
