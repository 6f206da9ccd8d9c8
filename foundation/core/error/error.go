// File: error.go
// Title: Core Error Implementation
// Description: Implements the main Error type. An Error carries a code, a severity,
//              optional key/value details and, for compiler diagnostics, the file,
//              line and nearby source text it refers to. Diagnostics render in the
//              fixed multi-line format printed by the command line tool.
// Version: v0.1.0
// Created: 2025-01-24
// Modified: 2025-03-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors
// - 2025-03-02 v0.1.0: Source locations and diagnostic rendering

package error

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Error represents a structured error with a code, a source location and metadata
type Error struct {
	// Core error information
	message   string
	cause     error
	code      Code
	severity  Severity
	timestamp time.Time

	// Source location, set for compiler diagnostics
	file string
	line int
	near string

	details map[string]interface{}
}

// MaxErrorChainDepth limits the depth of error wrapping
const MaxErrorChainDepth = 15

// New creates a new Error with the given message
func New(message string) *Error {
	return &Error{
		message:   message,
		code:      CodeUnknown,
		severity:  SeverityMedium,
		timestamp: time.Now(),
		details:   make(map[string]interface{}),
	}
}

// Syntax creates a syntax diagnostic for the given source location.
func Syntax(message string, line int, near, file string) *Error {
	return New(message).WithCode(CodeSyntax).WithLine(line).WithNear(near).WithFile(file)
}

// Internal creates an error describing a broken invariant inside the compiler.
func Internal(message string) *Error {
	return New(message).WithCode(CodeInternal)
}

// Wrap wraps an existing error with additional context
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	if depth := chainDepth(err); depth >= MaxErrorChainDepth {
		return &Error{
			message:   fmt.Sprintf("%s (chain truncated at depth %d): %s", message, MaxErrorChainDepth, rootCause(err).Error()),
			code:      CodeUnknown,
			severity:  SeverityHigh,
			timestamp: time.Now(),
			details:   map[string]interface{}{"truncated": true, "original_depth": depth},
		}
	}

	wrapped := New(message)
	wrapped.cause = err
	if tncErr, ok := err.(*Error); ok {
		wrapped.code = tncErr.code
		wrapped.severity = tncErr.severity
		wrapped.file = tncErr.file
		wrapped.line = tncErr.line
		wrapped.near = tncErr.near
		for k, v := range tncErr.details {
			wrapped.details[k] = v
		}
	}
	return wrapped
}

func chainDepth(err error) int {
	depth := 0
	for current := err; current != nil && depth < MaxErrorChainDepth*2; depth++ {
		tncErr, ok := current.(*Error)
		if !ok {
			depth++
			break
		}
		current = tncErr.cause
	}
	return depth
}

func rootCause(err error) error {
	last := err
	for current := err; current != nil; {
		last = current
		tncErr, ok := current.(*Error)
		if !ok {
			break
		}
		current = tncErr.cause
	}
	return last
}

// Error implements the standard error interface. Errors that carry a
// source location return their rendered diagnostic without the trailing
// newline.
func (e *Error) Error() string {
	if e.line > 0 {
		return strings.TrimSuffix(e.Render(), "\n")
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.message, e.cause.Error())
	}
	return e.message
}

// Unwrap returns the underlying cause for error unwrapping
func (e *Error) Unwrap() error {
	return e.cause
}

// Render formats the error as a diagnostic:
//
//	Error in file: <file>
//	<Prefix> error near line <N>: <message>
//	Found near: <text>
//
// The last line is omitted when there is no nearby text.
func (e *Error) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Error in file: %s\n", e.file)
	fmt.Fprintf(&b, "%s error near line %d: %s\n", e.code.Prefix(), e.line, e.message)
	if e.near != "" {
		fmt.Fprintf(&b, "Found near: %s\n", e.near)
	}
	return b.String()
}

// WithCode sets the error code
func (e *Error) WithCode(code Code) *Error {
	e.code = code
	if e.severity == SeverityMedium { // Only auto-set if not explicitly set
		e.severity = GetSeverityFromCode(code)
	}
	return e
}

// WithSeverity sets the error severity
func (e *Error) WithSeverity(severity Severity) *Error {
	e.severity = severity
	return e
}

// WithFile sets the name of the compiled file
func (e *Error) WithFile(file string) *Error {
	e.file = file
	return e
}

// WithLine sets the 1-based source line
func (e *Error) WithLine(line int) *Error {
	e.line = line
	return e
}

// WithNear sets the source text found near the error
func (e *Error) WithNear(near string) *Error {
	e.near = near
	return e
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	e.details[key] = value
	return e
}

// Message returns the bare message without location or cause
func (e *Error) Message() string {
	return e.message
}

// Code returns the error code
func (e *Error) Code() Code {
	return e.code
}

// Severity returns the error severity
func (e *Error) Severity() Severity {
	return e.severity
}

// Timestamp returns when the error occurred
func (e *Error) Timestamp() time.Time {
	return e.timestamp
}

// File returns the compiled file name
func (e *Error) File() string {
	return e.file
}

// Line returns the 1-based source line, or 0 when unknown
func (e *Error) Line() int {
	return e.line
}

// Near returns the source text found near the error
func (e *Error) Near() string {
	return e.near
}

// Details returns a copy of the error details
func (e *Error) Details() map[string]interface{} {
	result := make(map[string]interface{}, len(e.details))
	for k, v := range e.details {
		result[k] = v
	}
	return result
}

// HasCode checks if an error (or any error in its chain) has the specified code
func HasCode(err error, code Code) bool {
	var tncErr *Error
	for err != nil {
		if !errors.As(err, &tncErr) {
			return false
		}
		if tncErr.code == code {
			return true
		}
		err = tncErr.cause
	}
	return false
}

// GetCode returns the code of the first structured error in the chain
func GetCode(err error) Code {
	var tncErr *Error
	if errors.As(err, &tncErr) {
		return tncErr.code
	}
	return CodeUnknown
}

// GetSeverity returns the severity of the first structured error in the chain
func GetSeverity(err error) Severity {
	var tncErr *Error
	if errors.As(err, &tncErr) {
		return tncErr.severity
	}
	return SeverityMedium
}
