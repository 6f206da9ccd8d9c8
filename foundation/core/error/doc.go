// Package error provides the structured error type shared by every tnc component.
//
// Package: error
// Title: tnc Error Handling Framework
// Description: Implements compiler diagnostics as structured errors carrying a code,
//              a severity, the source location and the nearby source text. Errors
//              render in the diagnostics format consumed by the command line tool
//              and can be collected into a List when a phase keeps going after the
//              first failure.
// Version: v0.1.0
// Created: 2025-01-24
// Modified: 2025-03-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2025-03-02 v0.1.0: Compiler diagnostics, source locations and error lists
//
// Features:
// - Diagnostic categories (syntax, type, name, I/O, range, indentation, internal)
// - Source location (file, line, nearby text) with canonical rendering
// - Severity levels derived from codes
// - Error lists for phases that accumulate failures
// - Wrapping of foreign errors with preserved cause chains
//
// Usage:
//   import tncerror "github.com/msto63/tnc/foundation/core/error"
//
//   // Report a syntax error found while parsing
//   err := tncerror.Syntax("expected ':' after while condition", 12, "while", "main.tn")
//
//   // Collect several errors and fail once
//   list := tncerror.NewList(tncerror.ParseFailedSummary)
//   list.Add(err)
//   if list.Len() > 0 {
//     return list.Err()
//   }
//
//   // Check error category
//   if tncerror.HasCode(err, tncerror.CodeSyntax) {
//     // Handle syntax errors specifically
//   }
package error
