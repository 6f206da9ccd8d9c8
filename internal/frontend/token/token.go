// Package token defines the lexical tokens of the Tonic language.
package token

import "fmt"

// Kind identifies the lexical class of a token
type Kind int

const (
	// Special tokens
	EOF Kind = iota
	Illegal

	// Literals and names
	Identifier // foo, std::vector<int>, Foo&
	Literal    // 42, 0xff, 1.5, "text", 'c'
	Comment    // // ... and /* ... */

	// Layout
	Newline
	Indent
	Dedent

	// Punctuation and operators
	Colon       // :
	Semicolon   // ;
	Comma       // ,
	Dot         // .
	Slash       // /
	QMark       // ?
	Exclamation // !
	Eq          // =
	Plus        // +
	Minus       // -
	Star        // *
	Percent     // %
	Ampersand   // &
	Bar         // |
	Caret       // ^
	Arrow       // ->
	At          // @
	Hashtag     // #
	GT          // >
	LT          // <
	LCurly      // {
	RCurly      // }
	LSquare     // [
	RSquare     // ]
	LParen      // (
	RParen      // )

	// Keywords
	If
	Else
	For
	While
	In
	Out
	Return
	Switch
	Case
	Class
	Struct
	Public
	Private
	Protected
	Try
	Catch
	Throw
	Trace
	Template
	Typename
	Using
	Namespace
	Operator
	Default
	Break
	Const
	Constexpr
	Sizeof
	Delete
	Enum
	Step

	// Produced by the second lexer pass
	Type       // identifier used as a type name
	ForRange   // ..
	Memoize    // @memoize
	Lambda     // =>
	ShiftLeft  // <<
	ShiftRight // >>
	ElseIf     // else if
	EnumClass  // enum class

	// Raw target-language passthrough
	CppChunk     // text between #cpp and #end
	CppDirective // #include, #define, ...
)

var kindNames = [...]string{
	EOF:          "EOF",
	Illegal:      "ILLEGAL",
	Identifier:   "IDENTIFIER",
	Literal:      "LITERAL",
	Comment:      "COMMENT",
	Newline:      "NEWLINE",
	Indent:       "INDENT",
	Dedent:       "DEDENT",
	Colon:        "COLON",
	Semicolon:    "SEMICOLON",
	Comma:        "COMMA",
	Dot:          "DOT",
	Slash:        "SLASH",
	QMark:        "QMARK",
	Exclamation:  "EXCLAMATION",
	Eq:           "EQ",
	Plus:         "PLUS",
	Minus:        "MINUS",
	Star:         "STAR",
	Percent:      "PERCENT",
	Ampersand:    "AMPERSAND",
	Bar:          "BAR",
	Caret:        "CARET",
	Arrow:        "ARROW",
	At:           "AT",
	Hashtag:      "HASHTAG",
	GT:           "GT",
	LT:           "LT",
	LCurly:       "LCURLY",
	RCurly:       "RCURLY",
	LSquare:      "LSQUARE",
	RSquare:      "RSQUARE",
	LParen:       "LPAREN",
	RParen:       "RPAREN",
	If:           "IF",
	Else:         "ELSE",
	For:          "FOR",
	While:        "WHILE",
	In:           "IN",
	Out:          "OUT",
	Return:       "RETURN",
	Switch:       "SWITCH",
	Case:         "CASE",
	Class:        "CLASS",
	Struct:       "STRUCT",
	Public:       "PUBLIC",
	Private:      "PRIVATE",
	Protected:    "PROTECTED",
	Try:          "TRY",
	Catch:        "CATCH",
	Throw:        "THROW",
	Trace:        "TRACE",
	Template:     "TEMPLATE",
	Typename:     "TYPENAME",
	Using:        "USING",
	Namespace:    "NAMESPACE",
	Operator:     "OPERATOR",
	Default:      "DEFAULT",
	Break:        "BREAK",
	Const:        "CONST",
	Constexpr:    "CONSTEXPR",
	Sizeof:       "SIZEOF",
	Delete:       "DELETE",
	Enum:         "ENUM",
	Step:         "STEP",
	Type:         "TYPE",
	ForRange:     "FOR_RANGE",
	Memoize:      "MEMOIZE",
	Lambda:       "LAMBDA",
	ShiftLeft:    "SHIFT_LEFT",
	ShiftRight:   "SHIFT_RIGHT",
	ElseIf:       "ELSE_IF",
	EnumClass:    "ENUM_CLASS",
	CppChunk:     "CPP_CHUNK",
	CppDirective: "CPP_DIRECTIVE",
}

// String returns the upper-case name of the kind
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword reports whether k is produced from the keyword table
func (k Kind) IsKeyword() bool {
	return k >= If && k <= Step
}

// IsLayout reports whether k is one of the synthetic layout tokens
func (k Kind) IsLayout() bool {
	return k == Newline || k == Indent || k == Dedent
}

var keywords = map[string]Kind{
	"if":        If,
	"else":      Else,
	"for":       For,
	"while":     While,
	"in":        In,
	"out":       Out,
	"return":    Return,
	"switch":    Switch,
	"case":      Case,
	"class":     Class,
	"struct":    Struct,
	"public":    Public,
	"private":   Private,
	"protected": Protected,
	"try":       Try,
	"catch":     Catch,
	"throw":     Throw,
	"trace":     Trace,
	"template":  Template,
	"typename":  Typename,
	"using":     Using,
	"namespace": Namespace,
	"operator":  Operator,
	"default":   Default,
	"break":     Break,
	"const":     Const,
	"constexpr": Constexpr,
	"sizeof":    Sizeof,
	"delete":    Delete,
	"enum":      Enum,
	"step":      Step,
}

// Lookup maps an identifier lexeme to its keyword kind, or Identifier
func Lookup(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return Identifier
}

// Token is one lexical unit. Tokens are never modified after the lexer
// emits them.
type Token struct {
	Kind Kind
	Text string
	Line int
}

// New creates a token
func New(kind Kind, text string, line int) Token {
	return Token{Kind: kind, Text: text, Line: line}
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q (line %d)", t.Kind, t.Text, t.Line)
}
