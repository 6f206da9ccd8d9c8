// File: list.go
// Title: Error Lists
// Description: Collects several errors from a phase that keeps going after the
//              first failure and reports them as one error with a closing summary.
// Version: v0.1.0
// Created: 2025-03-02
// Modified: 2025-03-02
//
// Change History:
// - 2025-03-02 v0.1.0: Initial implementation

package error

import (
	"errors"
	"strings"
)

// ParseFailedSummary closes the report of a failed parse.
const ParseFailedSummary = "Parser error: Parsing failed"

// List accumulates errors in the order they were found.
type List struct {
	summary string
	errs    []*Error
}

// NewList creates an empty list whose report ends with summary.
func NewList(summary string) *List {
	return &List{summary: summary}
}

// Add appends err. Errors that are not *Error are wrapped with CodeUnknown.
func (l *List) Add(err error) {
	if err == nil {
		return
	}
	var tncErr *Error
	if errors.As(err, &tncErr) {
		l.errs = append(l.errs, tncErr)
		return
	}
	l.errs = append(l.errs, Wrap(err, "unexpected error"))
}

// Len returns the number of collected errors
func (l *List) Len() int {
	return len(l.errs)
}

// Errors returns the collected errors in order
func (l *List) Errors() []*Error {
	out := make([]*Error, len(l.errs))
	copy(out, l.errs)
	return out
}

// Summary returns the closing line of the report
func (l *List) Summary() string {
	return l.summary
}

// Err returns the list as an error, or nil when nothing was collected.
func (l *List) Err() error {
	if len(l.errs) == 0 {
		return nil
	}
	return l
}

// Render formats every collected diagnostic followed by the summary line.
func (l *List) Render() string {
	var b strings.Builder
	for _, err := range l.errs {
		b.WriteString(err.Render())
	}
	if l.summary != "" {
		b.WriteString(l.summary)
		b.WriteByte('\n')
	}
	return b.String()
}

func (l *List) Error() string {
	return strings.TrimSuffix(l.Render(), "\n")
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (l *List) Unwrap() []error {
	out := make([]error, len(l.errs))
	for i, err := range l.errs {
		out[i] = err
	}
	return out
}

// Flatten returns the structured errors contained in err: the members of
// a List, the error itself when it is an *Error, or a wrapped copy of any
// other error.
func Flatten(err error) []*Error {
	if err == nil {
		return nil
	}
	var list *List
	if errors.As(err, &list) {
		return list.Errors()
	}
	var tncErr *Error
	if errors.As(err, &tncErr) {
		return []*Error{tncErr}
	}
	return []*Error{Wrap(err, "unexpected error")}
}
