package parser

import (
	"strings"

	"github.com/msto63/tnc/internal/frontend/ast"
	"github.com/msto63/tnc/internal/frontend/token"
)

const templatePrefix = "template<"

// isFusedTemplate reports whether tok is a "template<...>" header lexed as
// a single name because no space followed the keyword.
func isFusedTemplate(tok token.Token) bool {
	return (tok.Kind == token.Identifier || tok.Kind == token.Type) && strings.HasPrefix(tok.Text, templatePrefix)
}

// isLoneAssign reports whether the token at i is '=' and not part of '=='
func (p *Parser) isLoneAssign(i int) bool {
	return p.kindAt(i) == token.Eq && p.kindAt(i+1) != token.Eq
}

// parseIdentifierStatement handles statements that start with a plain name:
// declarations, pair destructuring, constructor-like functions and
// everything else as a general statement.
func (p *Parser) parseIdentifierStatement() (ast.Node, error) {
	tok := p.peek()
	if isFusedTemplate(tok) {
		return p.parseTemplateDeclaration()
	}

	i := p.current
	switch {
	case p.kindAt(i+1) == token.Comma && p.kindAt(i+2) == token.Identifier && p.isLoneAssign(i+3):
		return p.parsePairDestructuring()
	case p.kindAt(i+1) == token.LParen && p.isHeaderColon(p.closing(i+1)+1):
		return p.parseConstructor()
	case p.kindAt(i+1) == token.Colon || p.isLoneAssign(i+1):
		return p.parseVariableDeclaration()
	default:
		return p.parseLine()
	}
}

// isHeaderColon reports whether the token at i is a ':' that ends the line
func (p *Parser) isHeaderColon(i int) bool {
	if i <= 0 || p.kindAt(i) != token.Colon {
		return false
	}
	next := p.kindAt(i + 1)
	return next == token.Newline || next == token.EOF
}

func (p *Parser) parseVariableDeclaration() (ast.Node, error) {
	name := p.advance()
	decl := &ast.VariableDeclaration{
		DataType:        ast.DefaultType,
		DeclarationType: ast.Declaration,
		Identifier:      ast.NewStatement(name.Text, name.Line),
		Pos:             ast.Position{Line: name.Line},
	}

	if p.match(token.Colon) {
		p.advance()
		typ, err := p.expect(token.Type, "Expected a type after ':'")
		if err != nil {
			return nil, err
		}
		decl.DataType = typ.Text
	}
	return p.finishDeclaration(decl)
}

// finishDeclaration parses an optional "= initializer" and the end of the line
func (p *Parser) finishDeclaration(decl *ast.VariableDeclaration) (ast.Node, error) {
	if !p.match(token.Eq) {
		if err := p.expectEndOfLine("variable declaration"); err != nil {
			return nil, err
		}
		return decl, nil
	}

	p.advance()
	initializer, err := p.parseInitializer()
	if err != nil {
		return nil, err
	}
	decl.Initializer = initializer
	decl.DeclarationType = ast.Assignment
	return decl, nil
}

// parseInitializer parses the right-hand side of a declaration, including
// the end of its line.
func (p *Parser) parseInitializer() (ast.Node, error) {
	if p.match(token.Newline, token.EOF) {
		return nil, p.errorf("Missing initializer after '='")
	}
	if !p.match(token.LSquare) {
		return p.parseLine()
	}

	if p.isComprehension(p.current) {
		loop, err := p.parseListComprehension()
		if err != nil {
			return nil, err
		}
		if err := p.expectEndOfLine("list comprehension"); err != nil {
			return nil, err
		}
		return loop, nil
	}
	if p.isLambda(p.current) {
		return p.parseLambdaExpression()
	}
	return p.parseLine()
}

// isComprehension reports whether the '[' at open contains a 'for' at its
// own nesting level.
func (p *Parser) isComprehension(open int) bool {
	end := p.closing(open)
	depth := 0
	for i := open; i < end; i++ {
		switch p.tokens[i].Kind {
		case token.LParen, token.LSquare, token.LCurly:
			depth++
		case token.RParen, token.RSquare, token.RCurly:
			depth--
		case token.For:
			if depth == 1 {
				return true
			}
		}
	}
	return false
}

// isLambda reports whether the '[' at open starts "[capture](args) =>"
func (p *Parser) isLambda(open int) bool {
	end := p.closing(open)
	if end < 0 || p.kindAt(end+1) != token.LParen {
		return false
	}
	args := p.closing(end + 1)
	return args >= 0 && p.kindAt(args+1) == token.Lambda
}

func (p *Parser) parsePairDestructuring() (ast.Node, error) {
	first := p.advance()
	p.advance() // ,
	second := p.advance()
	p.advance() // =

	initializer, err := p.parseLine()
	if err != nil {
		return nil, err
	}
	if initializer.Statement == "" {
		return nil, p.errorf("Missing initializer in pair destructuring")
	}
	return &ast.PairDestructuring{
		First:       ast.NewStatement(first.Text, first.Line),
		Second:      ast.NewStatement(second.Text, second.Line),
		Initializer: initializer,
		Pos:         ast.Position{Line: first.Line},
	}, nil
}

// Functions

// parseTypeStatement handles statements that start with a type name:
// function declarations and typed variable declarations.
func (p *Parser) parseTypeStatement() (ast.Node, error) {
	if isFusedTemplate(p.peek()) {
		return p.parseTemplateDeclaration()
	}
	if !p.matchForward(token.Identifier) {
		return p.parseLine()
	}

	i := p.current
	if p.kindAt(i+2) == token.LParen {
		if end := p.closing(i + 2); end < 0 || p.kindAt(end+1) == token.Colon {
			return p.parseFunctionDeclaration()
		}
	}

	typ := p.advance()
	name := p.advance()
	decl := &ast.VariableDeclaration{
		DataType:        typ.Text,
		DeclarationType: ast.Declaration,
		Identifier:      ast.NewStatement(name.Text, name.Line),
		Pos:             ast.Position{Line: typ.Line},
	}

	switch {
	case p.match(token.LParen):
		// Constructor call syntax: "std::vector<int> v(10)"
		initializer, err := p.parseLine()
		if err != nil {
			return nil, err
		}
		decl.Initializer = initializer
		decl.DeclarationType = ast.Assignment
		return decl, nil
	case p.match(token.Eq) && !p.matchForward(token.Eq):
		return p.finishDeclaration(decl)
	case p.match(token.Newline, token.EOF):
		p.endLine()
		return decl, nil
	default:
		p.current = i
		return p.parseLine()
	}
}

// parseFunctionDeclaration parses "[@memoize] TYPE name(args):" and its block
func (p *Parser) parseFunctionDeclaration() (ast.Node, error) {
	line := p.peek().Line
	fn := &ast.FunctionDeclaration{Pos: ast.Position{Line: line}}

	if p.match(token.Memoize) {
		p.advance()
		p.skipBlankLines()
		fn.IsMemoize = true
	}

	typ, err := p.expect(token.Type, "Expected a return type in function declaration")
	if err != nil {
		return nil, err
	}
	fn.Type = ast.NewStatement(typ.Text, typ.Line)

	name, err := p.expect(token.Identifier, "Expected a function name")
	if err != nil {
		return nil, err
	}
	fn.Name = ast.NewStatement(name.Text, name.Line)

	return p.finishFunction(fn)
}

// parseConstructor parses "Name(args):" and "~Name():" forms, which have
// no return type.
func (p *Parser) parseConstructor() (ast.Node, error) {
	name := p.advance()
	fn := &ast.FunctionDeclaration{
		Name: ast.NewStatement(name.Text, name.Line),
		Pos:  ast.Position{Line: name.Line},
	}
	return p.finishFunction(fn)
}

func (p *Parser) finishFunction(fn *ast.FunctionDeclaration) (ast.Node, error) {
	args, err := p.parseArguments()
	if err != nil {
		return nil, err
	}
	fn.Arguments = args

	if _, err := p.expect(token.Colon, "Expected ':' after function declaration"); err != nil {
		return nil, err
	}
	if fn.Block, err = p.parseBlock(); err != nil {
		return nil, err
	}
	return fn, nil
}

// parseArguments parses "(a, b: int, c: string)". A type applies to every
// untyped name before it; names left untyped are "auto".
func (p *Parser) parseArguments() ([]ast.Argument, error) {
	if _, err := p.expect(token.LParen, "Expected '(' to open the argument list"); err != nil {
		return nil, err
	}
	p.bracket++
	defer func() { p.bracket-- }()

	var args []ast.Argument
	untyped := 0
	for {
		p.skipLayout()
		if p.match(token.RParen) {
			break
		}
		if len(args) > 0 {
			if _, err := p.expect(token.Comma, "Expected ',' between arguments"); err != nil {
				return nil, err
			}
			p.skipLayout()
		}

		name, err := p.expect(token.Identifier, "Expected an argument name")
		if err != nil {
			return nil, err
		}
		args = append(args, ast.Argument{Name: name.Text})
		untyped++

		p.skipLayout()
		if p.match(token.Colon) {
			p.advance()
			p.skipLayout()
			if !p.match(token.Type, token.Identifier) {
				return nil, p.errorf("Expected a type after ':'")
			}
			typ := p.advance().Text
			for j := len(args) - untyped; j < len(args); j++ {
				args[j].Type = typ
			}
			untyped = 0
		}
	}
	p.advance() // )

	for j := len(args) - untyped; j < len(args); j++ {
		args[j].Type = ast.DefaultType
	}
	return args, nil
}

// Lambdas

// parseLambdaExpression parses "[capture](args) => body". The body is the
// rest of the line or, when the line ends after '=>', an indented block.
func (p *Parser) parseLambdaExpression() (ast.Node, error) {
	open, err := p.expect(token.LSquare, "Expected '[' to open the lambda capture")
	if err != nil {
		return nil, err
	}
	lambda := &ast.LambdaExpression{Pos: ast.Position{Line: open.Line}}

	p.bracket++
	capture, err := p.capture(token.RSquare)
	p.bracket--
	if err != nil {
		return nil, err
	}
	if capture.Statement != "" {
		lambda.Capture = capture
	}
	if _, err := p.expect(token.RSquare, "Expected ']' to close the lambda capture"); err != nil {
		return nil, err
	}

	if lambda.Arguments, err = p.parseArguments(); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Lambda, "Expected '=>' in lambda expression"); err != nil {
		return nil, err
	}

	if p.match(token.Newline) {
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		lambda.Body = block
		return lambda, nil
	}

	body, err := p.parseLine()
	if err != nil {
		return nil, err
	}
	if body.Statement == "" {
		return nil, p.errorf("Missing lambda body")
	}
	lambda.Body = body
	return lambda, nil
}

// Templates

// parseTemplateDeclaration parses "template <typename T, int N>" or the
// fused "template<typename T>" form, then the declaration it applies to.
func (p *Parser) parseTemplateDeclaration() (ast.Node, error) {
	tok := p.advance()
	tmpl := &ast.TemplateDeclaration{Pos: ast.Position{Line: tok.Line}}

	var err error
	if tok.Kind == token.Template {
		tmpl.Arguments, err = p.parseTemplateParameters()
	} else {
		var ok bool
		tmpl.Arguments, ok = splitTemplateParameters(strings.TrimSuffix(strings.TrimPrefix(tok.Text, templatePrefix), ">"))
		if !ok {
			err = p.errorAt(tok, "Invalid template parameter")
		}
	}
	if err != nil {
		return nil, err
	}
	tmpl.Statement = ast.NewStatement(joinTemplateParameters(tmpl.Arguments), tok.Line)

	p.skipBlankLines()
	switch {
	case p.match(token.Memoize, token.Type):
		tmpl.Content, err = p.parseFunctionDeclaration()
	case p.match(token.Class, token.Struct):
		tmpl.Content, err = p.parseClassDeclaration()
	default:
		return nil, p.errorf("Expected a function, class or struct after template")
	}
	if err != nil {
		return nil, err
	}
	return tmpl, nil
}

// parseTemplateParameters parses "<typename T, int N>" from tokens
func (p *Parser) parseTemplateParameters() ([]ast.Argument, error) {
	if _, err := p.expect(token.LT, "Expected '<' after template"); err != nil {
		return nil, err
	}

	var args []ast.Argument
	var group []string
	for {
		switch {
		case p.match(token.GT, token.Comma):
			if len(group) < 2 {
				return nil, p.errorf("Invalid template parameter")
			}
			args = append(args, ast.Argument{
				Name: group[len(group)-1],
				Type: strings.Join(group[:len(group)-1], " "),
			})
			group = group[:0]
			if p.advance().Kind == token.GT {
				return args, nil
			}
		case p.atEnd() || p.match(token.Newline, token.ShiftRight):
			return nil, p.errorf("Expected '>' to close the template parameters")
		default:
			group = append(group, p.advance().Text)
		}
	}
}

// splitTemplateParameters parses "typename T, int N" from raw text
func splitTemplateParameters(text string) ([]ast.Argument, bool) {
	var args []ast.Argument
	for _, part := range splitTopLevel(text) {
		fields := strings.Fields(part)
		if len(fields) < 2 {
			return nil, false
		}
		args = append(args, ast.Argument{
			Name: fields[len(fields)-1],
			Type: strings.Join(fields[:len(fields)-1], " "),
		})
	}
	return args, len(args) > 0
}

// splitTopLevel splits text on commas outside nested angle brackets
func splitTopLevel(text string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, text[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, text[start:])
}

func joinTemplateParameters(args []ast.Argument) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Type + " " + a.Name
	}
	return strings.Join(parts, ", ")
}
