// Package log provides structured logging for the tnc compiler and its tools.
//
// Package: log
// Title: tnc Structured Logging
// Description: A small structured logger with levels, contextual fields and
//              pluggable output formats. Compiler phases receive a Logger through
//              their options, tag it with their component name and report token
//              counts, statement counts and phase timings at debug level.
// Version: v0.1.0
// Created: 2025-01-24
// Modified: 2025-03-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with levels, fields and formatters
// - 2025-03-02 v0.1.0: Reduced to the synchronous logger used by the compiler
//
// Usage:
//   import tnclog "github.com/msto63/tnc/foundation/core/log"
//
//   logger := tnclog.GetDefault().WithField("component", "lexer")
//   logger.Debug("Tokenized source", tnclog.Fields{"tokens": 42})
//
//   timer := logger.StartTimer("parse")
//   defer timer.Stop()
package log
