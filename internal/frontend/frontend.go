// Package frontend runs the Tonic front end over one compilation unit:
// lexing followed by parsing.
package frontend

import (
	"fmt"
	"os"
	"time"

	tncerror "github.com/msto63/tnc/foundation/core/error"
	tnclog "github.com/msto63/tnc/foundation/core/log"
	"github.com/msto63/tnc/internal/frontend/ast"
	"github.com/msto63/tnc/internal/frontend/lexer"
	"github.com/msto63/tnc/internal/frontend/parser"
	"github.com/msto63/tnc/internal/frontend/token"
)

// DefaultMaxSourceBytes is the size limit applied when Options leaves it unset
const DefaultMaxSourceBytes = 4 << 20

// Options configures a front-end run
type Options struct {
	MaxSourceBytes int64          // 0 selects DefaultMaxSourceBytes, negative disables the limit
	Logger         *tnclog.Logger // Defaults to the package default logger
}

// Result is the output of a front-end run
type Result struct {
	File      string
	Tokens    []token.Token
	Program   *ast.Program
	LexTime   time.Duration
	ParseTime time.Duration
}

// Compile lexes and parses source. Lexer errors are returned as they are;
// parser errors come back as one *tncerror.List. When parsing fails the
// Result still carries the token stream.
func Compile(file, source string, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = tnclog.GetDefault()
	}
	logger := opts.Logger.WithField("component", "frontend")

	if err := checkSize(file, int64(len(source)), opts.MaxSourceBytes); err != nil {
		return nil, err
	}

	result := &Result{File: file}

	timer := logger.StartTimer("lex").WithField("file", file)
	tokens, err := lexer.New(source, lexer.Options{FileName: file, Logger: opts.Logger}).Tokenize()
	if err != nil {
		timer.StopWithError(err)
		return nil, err
	}
	result.LexTime = timer.Stop()
	result.Tokens = tokens

	timer = logger.StartTimer("parse").WithField("file", file)
	program, err := parser.New(tokens, parser.Options{FileName: file, Logger: opts.Logger}).Parse()
	if err != nil {
		result.ParseTime = timer.StopWithError(err)
		return result, err
	}
	result.ParseTime = timer.Stop()
	result.Program = program

	return result, nil
}

// CompileFile reads path and compiles it, using path as the file name in
// diagnostics.
func CompileFile(path string, opts Options) (*Result, error) {
	source, err := readSource(path)
	if err != nil {
		return nil, err
	}
	return Compile(path, source, opts)
}

// Lex runs only the lexer over source.
func Lex(file, source string, opts Options) ([]token.Token, error) {
	if opts.Logger == nil {
		opts.Logger = tnclog.GetDefault()
	}
	if err := checkSize(file, int64(len(source)), opts.MaxSourceBytes); err != nil {
		return nil, err
	}
	return lexer.New(source, lexer.Options{FileName: file, Logger: opts.Logger}).Tokenize()
}

// LexFile reads path and lexes it.
func LexFile(path string, opts Options) ([]token.Token, error) {
	source, err := readSource(path)
	if err != nil {
		return nil, err
	}
	return Lex(path, source, opts)
}

func readSource(path string) (string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		code := tncerror.CodeInvalidInput
		if os.IsNotExist(err) {
			code = tncerror.CodeNotFound
		}
		return "", tncerror.Wrap(err, "cannot read source file").WithCode(code).WithFile(path)
	}
	return string(source), nil
}

// Diagnostics flattens an error returned by Compile into its individual
// diagnostics, in source order.
func Diagnostics(err error) []*tncerror.Error {
	return tncerror.Flatten(err)
}

func checkSize(file string, size, limit int64) error {
	if limit == 0 {
		limit = DefaultMaxSourceBytes
	}
	if limit < 0 || size <= limit {
		return nil
	}
	return tncerror.New(fmt.Sprintf("source is %d bytes, the limit is %d", size, limit)).
		WithCode(tncerror.CodeInvalidInput).
		WithFile(file).
		WithDetail("size", size).
		WithDetail("limit", limit)
}
