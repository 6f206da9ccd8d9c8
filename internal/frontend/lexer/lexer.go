// Package lexer turns Tonic source text into tokens.
//
// Lexing happens in two passes. The first pass scans characters and tracks
// indentation; the second pass looks at neighbouring tokens to fuse
// compound operators and to tell type names apart from plain identifiers.
package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tncerror "github.com/msto63/tnc/foundation/core/error"
	tnclog "github.com/msto63/tnc/foundation/core/log"
	"github.com/msto63/tnc/internal/frontend/token"
)

const (
	// TabWidth is the indentation a tab counts for
	TabWidth = 4

	cppTag    = "#cpp"
	cppEndTag = "#end"
)

var symbols = map[byte]token.Kind{
	';': token.Semicolon,
	':': token.Colon,
	',': token.Comma,
	'.': token.Dot,
	'?': token.QMark,
	'!': token.Exclamation,
	'=': token.Eq,
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'%': token.Percent,
	'&': token.Ampersand,
	'|': token.Bar,
	'^': token.Caret,
	'{': token.LCurly,
	'}': token.RCurly,
	'[': token.LSquare,
	']': token.RSquare,
	'(': token.LParen,
	')': token.RParen,
	'@': token.At,
	'>': token.GT,
	'<': token.LT,
}

// Options configures a Lexer
type Options struct {
	// FileName labels diagnostics
	FileName string

	// Logger receives debug output; defaults to the process logger
	Logger *tnclog.Logger
}

// Lexer tokenizes one compilation unit. A Lexer is not safe for concurrent use.
type Lexer struct {
	source  string
	file    string
	lines   []string
	pos     int
	line    int
	indents []int
	tokens  []token.Token
	logger  *tnclog.Logger
}

// New creates a lexer for source
func New(source string, opts Options) *Lexer {
	if opts.Logger == nil {
		opts.Logger = tnclog.GetDefault()
	}
	return &Lexer{
		source: source,
		file:   opts.FileName,
		lines:  strings.Split(source, "\n"),
		logger: opts.Logger.WithField("component", "lexer"),
	}
}

// Tokenize runs both passes over source
func Tokenize(source, fileName string) ([]token.Token, error) {
	return New(source, Options{FileName: fileName}).Tokenize()
}

// Tokenize runs both passes and returns the final token stream, which ends
// with exactly one EOF token.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	first, err := l.FirstPass()
	if err != nil {
		l.logger.Debug("First pass failed", tnclog.Fields{"file": l.file, "error": err.Error()})
		return nil, err
	}
	tokens, err := l.SecondPass(first)
	if err != nil {
		l.logger.Debug("Second pass failed", tnclog.Fields{"file": l.file, "error": err.Error()})
		return nil, err
	}
	l.logger.Debug("Tokenized source", tnclog.Fields{
		"file":   l.file,
		"lines":  len(l.lines),
		"tokens": len(tokens),
	})
	return tokens, nil
}

// FirstPass scans the source characters into a flat token stream with
// NEWLINE, INDENT and DEDENT layout tokens.
func (l *Lexer) FirstPass() ([]token.Token, error) {
	l.pos = 0
	l.line = 1
	l.indents = []int{0}
	l.tokens = make([]token.Token, 0, len(l.source)/3+1)

	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		var err error

		switch {
		case ch == '\n':
			l.emit(token.Newline, "\n")
			l.line++
			l.pos++
			l.handleIndentation()
		case ch == ' ' || ch == '\t' || ch == '\r':
			l.pos++
		case ch == '/':
			err = l.readSlash()
		case ch == '#':
			err = l.readDirective()
		case isIdentStart(ch):
			err = l.readIdentifier()
		case isDigit(ch):
			l.readNumber()
		case ch == '"':
			err = l.readString()
		case ch == '\'':
			err = l.readChar()
		case ch == '-' && l.peekChar(1) == '>':
			l.emit(token.Arrow, "->")
			l.pos += 2
		default:
			kind, ok := symbols[ch]
			if !ok {
				r, _ := utf8.DecodeRuneInString(l.source[l.pos:])
				return nil, l.errorf(l.line, "Unexpected character '%c'", r)
			}
			l.emit(kind, string(ch))
			l.pos++
		}

		if err != nil {
			return nil, err
		}
	}

	l.emit(token.EOF, "")
	return l.tokens, nil
}

// handleIndentation measures the line that starts at the cursor and emits
// INDENT or DEDENT tokens against the indentation stack.
func (l *Lexer) handleIndentation() {
	count := 0
scan:
	for l.pos < len(l.source) {
		switch l.source[l.pos] {
		case ' ':
			count++
		case '\t':
			count += TabWidth
		default:
			break scan
		}
		l.pos++
	}

	if l.pos >= len(l.source) {
		count = 0
	} else if ch := l.source[l.pos]; ch == '\n' || (ch == '\r' && l.peekChar(1) == '\n') {
		return
	}

	top := l.indents[len(l.indents)-1]
	if count > top {
		l.indents = append(l.indents, count)
		l.emit(token.Indent, "")
		return
	}
	for count < top {
		l.indents = l.indents[:len(l.indents)-1]
		l.emit(token.Dedent, "")
		top = l.indents[len(l.indents)-1]
	}
}

func (l *Lexer) readSlash() error {
	start := l.pos
	switch l.peekChar(1) {
	case '/':
		for l.pos < len(l.source) && l.source[l.pos] != '\n' {
			l.pos++
		}
		l.emit(token.Comment, strings.TrimRight(l.source[start:l.pos], "\r"))
	case '*':
		startLine := l.line
		l.pos += 2
		for {
			if l.pos >= len(l.source) {
				return l.errorf(startLine, "Unterminated block comment")
			}
			if l.source[l.pos] == '*' && l.peekChar(1) == '/' {
				l.pos += 2
				break
			}
			if l.source[l.pos] == '\n' {
				l.line++
			}
			l.pos++
		}
		l.emitAt(token.Comment, l.source[start:l.pos], startLine)
	default:
		l.emit(token.Slash, "/")
		l.pos++
	}
	return nil
}

func (l *Lexer) readDirective() error {
	start := l.pos
	if !isLetter(l.peekChar(1)) {
		l.emit(token.Hashtag, "#")
		l.pos++
		return nil
	}
	l.pos++
	for l.pos < len(l.source) && isLetter(l.source[l.pos]) {
		l.pos++
	}
	name := l.source[start:l.pos]
	if name != cppTag {
		l.emit(token.CppDirective, name)
		return nil
	}

	end := strings.Index(l.source[l.pos:], cppEndTag)
	if end < 0 {
		return l.errorf(l.line, "Need %s directive for %s chunk", cppEndTag, cppTag)
	}
	chunk := l.source[l.pos : l.pos+end]
	l.emit(token.CppChunk, chunk)
	l.line += strings.Count(chunk, "\n")
	l.pos += end + len(cppEndTag)
	return nil
}

func (l *Lexer) readIdentifier() error {
	start := l.pos
	sawName := l.source[l.pos] != '~'
	l.pos++

loop:
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		switch {
		case isLetter(ch) || isDigit(ch) || ch == '_':
			l.pos++
			sawName = true
		case ch == ':' && l.peekChar(1) == ':' && sawName:
			l.pos += 2
		case (ch == '&' || ch == '*') && sawName:
			// Only trailing markers belong to the name: "Foo&" but not "a*b".
			end := l.pos
			for end < len(l.source) && (l.source[end] == '&' || l.source[end] == '*') {
				end++
			}
			if end < len(l.source) && (isIdentStart(l.source[end]) || isDigit(l.source[end]) || l.source[end] == '(') {
				break loop
			}
			l.pos = end
		case ch == '<':
			if err := l.readTemplateArguments(); err != nil {
				return err
			}
		default:
			break loop
		}
	}

	text := l.source[start:l.pos]
	l.emit(token.Lookup(text), text)
	return nil
}

// readTemplateArguments consumes a balanced <...> list starting at the cursor.
func (l *Lexer) readTemplateArguments() error {
	depth := 0
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		switch {
		case ch == '<':
			depth++
		case ch == '>':
			depth--
			if depth == 0 {
				l.pos++
				return nil
			}
		case ch == ',':
			if depth != 1 {
				return l.errorf(l.line, "Invalid template expression")
			}
		case isLetter(ch) || isDigit(ch) || ch == '_' || ch == ' ' || ch == ':' || ch == '&' || ch == '*':
		default:
			return l.errorf(l.line, "Unmatched '<' in template expression")
		}
		l.pos++
	}
	return l.errorf(l.line, "Unmatched '<' in template expression")
}

func (l *Lexer) readNumber() {
	start := l.pos
	if l.source[l.pos] == '0' && (l.peekChar(1) == 'x' || l.peekChar(1) == 'X') {
		l.pos += 2
		for l.pos < len(l.source) && isHexDigit(l.source[l.pos]) {
			l.pos++
		}
		l.emit(token.Literal, l.source[start:l.pos])
		return
	}

	for l.pos < len(l.source) && isDigit(l.source[l.pos]) {
		l.pos++
	}
	if l.peekChar(0) == '.' && isDigit(l.peekChar(1)) {
		l.pos++
		for l.pos < len(l.source) && isDigit(l.source[l.pos]) {
			l.pos++
		}
	}
	l.emit(token.Literal, l.source[start:l.pos])
}

func (l *Lexer) readString() error {
	start := l.pos
	l.pos++
	for l.pos < len(l.source) && l.source[l.pos] != '"' {
		switch l.source[l.pos] {
		case '\n':
			return l.errorf(l.line, "Unterminated string literal")
		case '\\':
			if next := l.peekChar(1); next == '"' || next == '\\' {
				l.pos++
			}
		}
		l.pos++
	}
	if l.pos >= len(l.source) {
		return l.errorf(l.line, "Unterminated string literal")
	}
	l.pos++
	l.emit(token.Literal, l.source[start:l.pos])
	return nil
}

func (l *Lexer) readChar() error {
	start := l.pos
	l.pos++

	switch l.peekChar(0) {
	case 0, '\n':
		return l.errorf(l.line, "Unterminated character literal")
	case '\\':
		if !isCharEscape(l.peekChar(1)) {
			if l.peekChar(1) == 0 {
				return l.errorf(l.line, "Unterminated character literal")
			}
			return l.errorf(l.line, "Invalid escape sequence")
		}
		l.pos += 2
	default:
		l.pos++
	}

	if l.peekChar(0) != '\'' {
		return l.errorf(l.line, "Unterminated character literal")
	}
	l.pos++
	l.emit(token.Literal, l.source[start:l.pos])
	return nil
}

// SecondPass reclassifies and fuses first-pass tokens. Lookbehind and
// lookahead always see first-pass kinds.
func (l *Lexer) SecondPass(tokens []token.Token) ([]token.Token, error) {
	out := make([]token.Token, 0, len(tokens))
	kindAt := func(i int) token.Kind {
		if i < 0 || i >= len(tokens) {
			return token.Illegal
		}
		return tokens[i].Kind
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		prev, next := kindAt(i-1), kindAt(i+1)

		switch {
		case tok.Kind == token.At && next == token.Identifier && tokens[i+1].Text == "memoize":
			out = append(out, token.New(token.Memoize, "@memoize", tok.Line))
			i++
		case tok.Kind == token.Eq && next == token.GT:
			out = append(out, token.New(token.Lambda, "=>", tok.Line))
			i++
		case tok.Kind == token.Const || tok.Kind == token.Constexpr:
			if prev != token.Colon || next != token.Identifier {
				return nil, l.errorf(tok.Line, "%s is only allowed before a type annotation, as in 'x: %s int'", tok.Text, tok.Text)
			}
			out = append(out, token.New(token.Type, tok.Text+" "+tokens[i+1].Text, tok.Line))
			i++
		case tok.Kind == token.Enum && next == token.Class:
			out = append(out, token.New(token.EnumClass, "enum class", tok.Line))
			i++
		case tok.Kind == token.Else && next == token.If:
			out = append(out, token.New(token.ElseIf, "else if", tok.Line))
			i++
		case tok.Kind == token.Identifier && (prev == token.Colon || next == token.Identifier):
			// "x: int", "int x" and the return type in "int f(" are all type names.
			out = append(out, token.New(token.Type, tok.Text, tok.Line))
		case tok.Kind == token.Dot && next == token.Dot:
			out = append(out, token.New(token.ForRange, "..", tok.Line))
			i++
		case tok.Kind == token.LT && next == token.LT:
			out = append(out, token.New(token.ShiftLeft, "<<", tok.Line))
			i++
		case tok.Kind == token.GT && next == token.GT:
			out = append(out, token.New(token.ShiftRight, ">>", tok.Line))
			i++
		case tok.Kind == token.Semicolon:
			return nil, l.errorf(tok.Line, "Semicolons are not supported outside %s blocks", cppTag)
		default:
			out = append(out, tok)
		}
	}
	return out, nil
}

func (l *Lexer) emit(kind token.Kind, text string) {
	l.emitAt(kind, text, l.line)
}

func (l *Lexer) emitAt(kind token.Kind, text string, line int) {
	l.tokens = append(l.tokens, token.New(kind, text, line))
}

// peekChar returns the byte offset positions past the cursor, or 0 past the end.
func (l *Lexer) peekChar(offset int) byte {
	if l.pos+offset >= len(l.source) {
		return 0
	}
	return l.source[l.pos+offset]
}

func (l *Lexer) errorf(line int, format string, args ...interface{}) *tncerror.Error {
	return tncerror.Syntax(fmt.Sprintf(format, args...), line, l.lineText(line), l.file)
}

func (l *Lexer) lineText(line int) string {
	if line < 1 || line > len(l.lines) {
		return ""
	}
	return strings.TrimSpace(l.lines[line-1])
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}

func isIdentStart(ch byte) bool {
	return isLetter(ch) || ch == '_' || ch == '~'
}

func isCharEscape(ch byte) bool {
	switch ch {
	case 'n', 't', 'r', 'b', 'f', 'v', 'a', '0', '\\', '?', '\'', '"':
		return true
	}
	return false
}
