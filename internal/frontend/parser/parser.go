// Package parser builds the Tonic syntax tree from the lexer's token stream.
//
// The parser is a hand-written recursive descent parser. Expressions are
// not parsed: wherever the grammar expects an expression the parser
// captures the token lexemes as a GeneralStatement. Errors do not stop the
// parser; each failed top-level statement is recorded and parsing resumes
// on the next line.
package parser

import (
	"fmt"
	"slices"
	"strings"

	tncerror "github.com/msto63/tnc/foundation/core/error"
	tnclog "github.com/msto63/tnc/foundation/core/log"
	"github.com/msto63/tnc/internal/frontend/ast"
	"github.com/msto63/tnc/internal/frontend/token"
)

// Options configures a Parser
type Options struct {
	FileName string         // Used in diagnostics
	Logger   *tnclog.Logger // Defaults to the package default logger
}

// Parser turns one token stream into a Program. A Parser is not safe for
// concurrent use.
type Parser struct {
	tokens  []token.Token
	current int
	file    string
	errors  *tncerror.List
	logger  *tnclog.Logger

	// bracket counts enclosing brackets opened by a grammar rule; layout
	// tokens are ignored while it is positive.
	bracket int
	// layoutDebt is the net INDENT minus DEDENT count skipped inside
	// brackets and not yet balanced.
	layoutDebt int
}

// New creates a parser for tokens. COMMENT tokens are dropped and a
// missing EOF token is supplied.
func New(tokens []token.Token, opts Options) *Parser {
	if opts.Logger == nil {
		opts.Logger = tnclog.GetDefault()
	}

	filtered := make([]token.Token, 0, len(tokens)+1)
	for _, tok := range tokens {
		if tok.Kind != token.Comment {
			filtered = append(filtered, tok)
		}
	}
	if n := len(filtered); n == 0 || filtered[n-1].Kind != token.EOF {
		line := 1
		if n > 0 {
			line = filtered[n-1].Line
		}
		filtered = append(filtered, token.New(token.EOF, "", line))
	}

	return &Parser{
		tokens: filtered,
		file:   opts.FileName,
		errors: tncerror.NewList(tncerror.ParseFailedSummary),
		logger: opts.Logger.WithField("component", "parser"),
	}
}

// Parse parses tokens into a program
func Parse(tokens []token.Token, fileName string) (*ast.Program, error) {
	return New(tokens, Options{FileName: fileName}).Parse()
}

// Parse consumes the whole token stream. If any statement failed to parse
// it returns a nil program and a *tncerror.List holding every error.
func (p *Parser) Parse() (*ast.Program, error) {
	program := &ast.Program{Pos: ast.Position{Line: p.peek().Line}}

	for !p.atEnd() {
		if p.match(token.Newline, token.Indent, token.Dedent) {
			p.advance()
			continue
		}

		start := p.current
		stmt, err := p.parseStatement()
		if err != nil {
			p.errors.Add(err)
			p.synchronize(start)
			continue
		}
		program.Body = append(program.Body, stmt)
	}

	p.logger.Debug("Parsed program", tnclog.Fields{
		"file":       p.file,
		"statements": len(program.Body),
		"errors":     p.errors.Len(),
	})

	if err := p.errors.Err(); err != nil {
		return nil, err
	}
	return program, nil
}

// synchronize skips the rest of the failed statement's line. When the
// statement that started at start already reached the beginning of a later
// line, that line is left for the next statement.
func (p *Parser) synchronize(start int) {
	p.bracket = 0
	p.layoutDebt = 0
	if p.current > start && p.kindAt(p.current-1).IsLayout() {
		return
	}
	for !p.atEnd() {
		if p.advance().Kind == token.Newline {
			return
		}
	}
}

// Token cursor

func (p *Parser) atEnd() bool {
	return p.current >= len(p.tokens) || p.tokens[p.current].Kind == token.EOF
}

// match reports whether the current token has one of kinds
func (p *Parser) match(kinds ...token.Kind) bool {
	if p.current >= len(p.tokens) {
		return false
	}
	return slices.Contains(kinds, p.tokens[p.current].Kind)
}

// matchForward reports whether the token after the current one has one of kinds
func (p *Parser) matchForward(kinds ...token.Kind) bool {
	if p.current+1 >= len(p.tokens) {
		return false
	}
	return slices.Contains(kinds, p.tokens[p.current+1].Kind)
}

// kindAt returns the kind of the token at index i, or Illegal out of bounds
func (p *Parser) kindAt(i int) token.Kind {
	if i < 0 || i >= len(p.tokens) {
		return token.Illegal
	}
	return p.tokens[i].Kind
}

// advance consumes and returns the current token. At EOF it returns the EOF
// token without moving.
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if !p.atEnd() {
		p.current++
	}
	return tok
}

func (p *Parser) peek() token.Token {
	if p.current >= len(p.tokens) {
		panic(tncerror.Internal("Cannot peek beyond the end of the token stream"))
	}
	return p.tokens[p.current]
}

func (p *Parser) peekForward() token.Token {
	if p.current+1 >= len(p.tokens) {
		panic(tncerror.Internal("Cannot peek forward beyond the end of the token stream"))
	}
	return p.tokens[p.current+1]
}

func (p *Parser) previous() token.Token {
	if p.current <= 0 || p.current > len(p.tokens) {
		panic(tncerror.Internal("Cannot go back from the start of the token stream"))
	}
	return p.tokens[p.current-1]
}

// expect consumes a token of kind or fails with message
func (p *Parser) expect(kind token.Kind, message string) (token.Token, error) {
	if !p.match(kind) {
		return token.Token{}, p.errorf("%s", message)
	}
	return p.advance(), nil
}

// errorf creates a syntax error located at the current token
func (p *Parser) errorf(format string, args ...interface{}) *tncerror.Error {
	return p.errorAt(p.peek(), format, args...)
}

// errorAt creates a syntax error located at tok
func (p *Parser) errorAt(tok token.Token, format string, args ...interface{}) *tncerror.Error {
	near := tok.Text
	if tok.Kind.IsLayout() {
		near = ""
	}
	return tncerror.Syntax(fmt.Sprintf(format, args...), tok.Line, near, p.file)
}

// Layout handling

// skipLayout consumes layout tokens while inside a bracket, recording the
// net indentation change.
func (p *Parser) skipLayout() {
	for p.bracket > 0 && p.match(token.Newline, token.Indent, token.Dedent) {
		p.consumeLayout()
	}
}

func (p *Parser) consumeLayout() {
	switch p.advance().Kind {
	case token.Indent:
		p.layoutDebt++
	case token.Dedent:
		p.layoutDebt--
	}
}

// absorbLayout consumes the layout tokens that balance indentation changes
// skipped inside brackets, so that they do not close enclosing blocks.
func (p *Parser) absorbLayout() {
	for p.layoutDebt > 0 && p.match(token.Dedent) {
		p.advance()
		p.layoutDebt--
	}
	for p.layoutDebt < 0 && p.match(token.Indent) {
		p.advance()
		p.layoutDebt++
	}
	p.layoutDebt = 0
}

// endLine consumes the NEWLINE that ends a statement
func (p *Parser) endLine() {
	if p.match(token.Newline) {
		p.advance()
		p.absorbLayout()
	}
}

// expectEndOfLine fails unless the statement ends here
func (p *Parser) expectEndOfLine(what string) error {
	if !p.match(token.Newline, token.EOF) {
		return p.errorf("Unexpected '%s' after %s", p.peek().Text, what)
	}
	p.endLine()
	return nil
}

// Generic statement capture

// capture collects token lexemes into a GeneralStatement until a token of
// one of terms appears at bracket depth 0, or the line ends. A bracket it
// opens may continue the statement over several lines, but must be closed
// before the enclosing block ends.
func (p *Parser) capture(terms ...token.Kind) (*ast.GeneralStatement, error) {
	line := p.peek().Line
	var parts []string
	var open []token.Token

loop:
	for !p.atEnd() {
		tok := p.peek()
		if tok.Kind.IsLayout() {
			if len(open) == 0 && p.bracket == 0 {
				break
			}
			if len(open) > 0 && tok.Kind == token.Dedent && p.layoutDebt <= 0 {
				return nil, p.unclosed(open)
			}
			p.consumeLayout()
			continue
		}
		if len(open) == 0 && slices.Contains(terms, tok.Kind) {
			break
		}

		switch tok.Kind {
		case token.LParen, token.LSquare, token.LCurly:
			open = append(open, tok)
		case token.RParen, token.RSquare, token.RCurly:
			if len(open) == 0 {
				if p.bracket > 0 {
					break loop
				}
			} else {
				open = open[:len(open)-1]
			}
		}
		parts = append(parts, p.advance().Text)
	}

	if len(open) > 0 {
		return nil, p.unclosed(open)
	}
	return ast.NewStatement(strings.Join(parts, " "), line), nil
}

// unclosed reports the innermost bracket of open that was never closed
func (p *Parser) unclosed(open []token.Token) *tncerror.Error {
	tok := open[len(open)-1]
	return p.errorAt(tok, "Unclosed '%s'", tok.Text)
}

// parseLine captures the rest of the line and consumes its NEWLINE
func (p *Parser) parseLine() (*ast.GeneralStatement, error) {
	stmt, err := p.capture()
	if err != nil {
		return nil, err
	}
	p.endLine()
	return stmt, nil
}

// closing returns the index of the bracket closing the one at open, or -1
func (p *Parser) closing(open int) int {
	depth := 0
	for i := open; i < len(p.tokens); i++ {
		switch p.tokens[i].Kind {
		case token.LParen, token.LSquare, token.LCurly:
			depth++
		case token.RParen, token.RSquare, token.RCurly:
			depth--
			if depth == 0 {
				return i
			}
		case token.EOF:
			return -1
		}
	}
	return -1
}
