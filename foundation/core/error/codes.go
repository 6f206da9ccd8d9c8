// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used to classify compiler diagnostics and
//              the failures of the supporting infrastructure (configuration, report
//              storage, file access).
// Version: v0.1.0
// Created: 2025-01-24
// Modified: 2025-03-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2025-03-02 v0.1.0: Diagnostic categories for the compiler front end

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"

	// Compiler diagnostics
	CodeSyntax      Code = "SYNTAX"
	CodeType        Code = "TYPE"
	CodeName        Code = "NAME"
	CodeRange       Code = "RANGE"
	CodeIndentation Code = "INDENTATION"
	CodeInputOutput Code = "INPUT_OUTPUT"

	// Storage
	CodeDatabaseError Code = "DATABASE_ERROR"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeInvalidConfig Code = "INVALID_CONFIG"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput,
		CodeSyntax, CodeType, CodeName, CodeRange, CodeIndentation, CodeInputOutput,
		CodeDatabaseError, CodeConfigError, CodeInvalidConfig:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeSyntax, CodeType, CodeName, CodeRange, CodeIndentation, CodeInputOutput:
		return "compiler"
	case CodeDatabaseError:
		return "storage"
	case CodeConfigError, CodeInvalidConfig:
		return "configuration"
	default:
		return "generic"
	}
}

// Prefix returns the word that opens the rendered diagnostic line,
// as in "Syntax error near line 3".
func (c Code) Prefix() string {
	switch c {
	case CodeSyntax:
		return "Syntax"
	case CodeType:
		return "Type"
	case CodeName:
		return "Name"
	case CodeRange:
		return "Range"
	case CodeIndentation:
		return "Indentation"
	case CodeInputOutput:
		return "I/O"
	case CodeInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// IsDiagnostic reports whether the code describes a problem in the compiled
// source rather than in the compiler or its environment.
func (c Code) IsDiagnostic() bool {
	return c.Category() == "compiler"
}
