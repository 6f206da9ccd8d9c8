package parser

import (
	"strings"

	"github.com/msto63/tnc/internal/frontend/ast"
	"github.com/msto63/tnc/internal/frontend/token"
)

func (p *Parser) parseStatement() (ast.Node, error) {
	switch p.peek().Kind {
	case token.If:
		return p.parseIfStatement()
	case token.Identifier:
		return p.parseIdentifierStatement()
	case token.Type:
		return p.parseTypeStatement()
	case token.Memoize:
		return p.parseFunctionDeclaration()
	case token.For:
		return p.parseForStatement()
	case token.While:
		return p.parseWhileLoop()
	case token.In, token.Out:
		return p.parseInputOutput()
	case token.Class, token.Struct:
		return p.parseClassDeclaration()
	case token.Namespace:
		return p.parseNamespaceDeclaration()
	case token.Template:
		return p.parseTemplateDeclaration()
	case token.Try:
		return p.parseTryCatchStatement()
	case token.Switch:
		return p.parseSwitchCaseStatement()
	case token.CppChunk:
		return p.parseCppNode(), nil
	case token.Else, token.ElseIf:
		return nil, p.errorf("'%s' without a matching 'if'", p.peek().Text)
	case token.Catch:
		return nil, p.errorf("'catch' without a matching 'try'")
	case token.Case, token.Default:
		return nil, p.errorf("'%s' outside of a switch statement", p.peek().Text)
	default:
		return p.parseLine()
	}
}

// Blocks

// parseBlock parses the NEWLINE and indented block that follow a header's ':'
func (p *Parser) parseBlock() (*ast.Block, error) {
	if !p.match(token.Newline) {
		return nil, p.errorf("Expected a new line after ':'")
	}
	p.advance()
	p.skipBlankLines()
	p.absorbLayout()

	if !p.match(token.Indent) {
		return nil, p.errorf("Expected an indented block")
	}
	return p.parseIndentedBlock()
}

// parseIndentedBlock parses statements from an INDENT to its DEDENT
func (p *Parser) parseIndentedBlock() (*ast.Block, error) {
	indent := p.advance()
	block := &ast.Block{Pos: ast.Position{Line: indent.Line}}

	for !p.atEnd() && !p.match(token.Dedent) {
		if p.match(token.Newline) {
			p.advance()
			continue
		}

		var stmt ast.Node
		var err error
		if p.match(token.Indent) {
			stmt, err = p.parseIndentedBlock()
		} else {
			stmt, err = p.parseStatement()
		}
		if err != nil {
			return nil, err
		}
		block.Body = append(block.Body, stmt)
	}

	if p.match(token.Dedent) {
		p.advance()
	}
	return block, nil
}

func (p *Parser) skipBlankLines() {
	for p.match(token.Newline) {
		p.advance()
	}
}

// parseHeader captures the text of a block header up to its ':' and
// consumes the ':'.
// Colons that do not end the line belong to the header, as in
// "class Dog : public Animal:".
func (p *Parser) parseHeader(what string) (*ast.GeneralStatement, error) {
	header, err := p.capture(token.Colon)
	if err != nil {
		return nil, err
	}
	for p.match(token.Colon) && !p.isHeaderColon(p.current) {
		p.advance()
		rest, err := p.capture(token.Colon)
		if err != nil {
			return nil, err
		}
		header.Statement = strings.TrimSpace(header.Statement + " : " + rest.Statement)
	}
	if header.Statement == "" {
		return nil, p.errorf("Missing %s", what)
	}
	if _, err := p.expect(token.Colon, "Expected ':' after "+what); err != nil {
		return nil, err
	}
	return header, nil
}

// Simple compound statements

func (p *Parser) parseWhileLoop() (ast.Node, error) {
	line := p.advance().Line
	condition, err := p.parseHeader("while condition")
	if err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileLoop{Condition: condition, Block: block, Pos: ast.Position{Line: line}}, nil
}

func (p *Parser) parseIfStatement() (ast.Node, error) {
	line := p.advance().Line
	condition, err := p.parseHeader("if condition")
	if err != nil {
		return nil, err
	}
	trueBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStatement{Condition: condition, TrueBlock: trueBlock, Pos: ast.Position{Line: line}}

	for p.match(token.ElseIf) {
		elifLine := p.advance().Line
		elifCondition, err := p.parseHeader("else if condition")
		if err != nil {
			return nil, err
		}
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.ElseIfs = append(stmt.ElseIfs, &ast.ElseIfStatement{
			Condition: elifCondition,
			Block:     block,
			Pos:       ast.Position{Line: elifLine},
		})
	}

	if p.match(token.Else) {
		p.advance()
		if _, err := p.expect(token.Colon, "Expected ':' after else"); err != nil {
			return nil, err
		}
		if stmt.ElseBlock, err = p.parseBlock(); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (p *Parser) parseNamespaceDeclaration() (ast.Node, error) {
	line := p.advance().Line
	name, err := p.parseHeader("namespace name")
	if err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.NamespaceDeclaration{Name: name, Block: block, Pos: ast.Position{Line: line}}, nil
}

func (p *Parser) parseTryCatchStatement() (ast.Node, error) {
	line := p.advance().Line
	if _, err := p.expect(token.Colon, "Expected ':' after try"); err != nil {
		return nil, err
	}
	tryBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.Catch, "Missing catch block after try"); err != nil {
		return nil, err
	}
	var arguments []ast.Argument
	if p.match(token.Identifier) {
		arg := ast.Argument{Name: p.advance().Text, Type: ast.DefaultType}
		if p.match(token.Colon) && p.matchForward(token.Type) {
			p.advance()
			arg.Type = p.advance().Text
		}
		arguments = append(arguments, arg)
	}
	if _, err := p.expect(token.Colon, "Expected ':' after catch"); err != nil {
		return nil, err
	}
	catchBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.TryCatchStatement{
		TryBlock:       tryBlock,
		CatchArguments: arguments,
		CatchBlock:     catchBlock,
		Pos:            ast.Position{Line: line},
	}, nil
}

func (p *Parser) parseSwitchCaseStatement() (ast.Node, error) {
	line := p.advance().Line
	condition, err := p.parseHeader("switch value")
	if err != nil {
		return nil, err
	}
	if !p.match(token.Newline) {
		return nil, p.errorf("Expected a new line after ':'")
	}
	p.advance()
	p.skipBlankLines()
	p.absorbLayout()
	if _, err := p.expect(token.Indent, "Expected an indented block"); err != nil {
		return nil, err
	}

	stmt := &ast.SwitchCaseStatement{Condition: condition, Pos: ast.Position{Line: line}}
	for !p.atEnd() {
		p.skipBlankLines()
		if p.match(token.Dedent) {
			p.advance()
			break
		}
		if p.atEnd() {
			break
		}

		switch {
		case p.match(token.Case):
			p.advance()
			value, err := p.parseHeader("case value")
			if err != nil {
				return nil, err
			}
			block, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			stmt.Cases = append(stmt.Cases, &ast.Case{Value: value, Block: block})
		case p.match(token.Default):
			tok := p.advance()
			if stmt.Default != nil {
				return nil, p.errorAt(tok, "Duplicate default in switch statement")
			}
			if _, err := p.expect(token.Colon, "Expected ':' after default"); err != nil {
				return nil, err
			}
			if stmt.Default, err = p.parseBlock(); err != nil {
				return nil, err
			}
		default:
			return nil, p.errorf("Expected 'case' or 'default' in switch statement")
		}
	}
	return stmt, nil
}

func (p *Parser) parseCppNode() ast.Node {
	tok := p.advance()
	p.endLine()
	return &ast.CppNode{
		Code: ast.NewStatement(tok.Text, tok.Line),
		Pos:  ast.Position{Line: tok.Line},
	}
}

// parseInputOutput parses "out [<<] a << b, c" and "in [>>] a >> b"
func (p *Parser) parseInputOutput() (ast.Node, error) {
	tok := p.advance()
	stmt := &ast.InputOutput{Direction: ast.In, Pos: ast.Position{Line: tok.Line}}
	separator := token.ShiftRight
	if tok.Kind == token.Out {
		stmt.Direction = ast.Out
		separator = token.ShiftLeft
	}

	if p.match(separator) {
		p.advance()
	}
	for {
		operand, err := p.capture(separator, token.Comma)
		if err != nil {
			return nil, err
		}
		if operand.Statement == "" {
			return nil, p.errorf("Empty operand in %s statement", tok.Text)
		}
		stmt.Operands = append(stmt.Operands, operand)
		if !p.match(separator, token.Comma) {
			break
		}
		p.advance()
	}

	if err := p.expectEndOfLine(tok.Text + " statement"); err != nil {
		return nil, err
	}
	return stmt, nil
}

// Classes and structs

func (p *Parser) parseClassDeclaration() (ast.Node, error) {
	keyword := p.advance()
	declaration, err := p.parseHeader(keyword.Text + " name")
	if err != nil {
		return nil, err
	}
	block, err := p.parseClassBody()
	if err != nil {
		return nil, err
	}

	pos := ast.Position{Line: keyword.Line}
	if keyword.Kind == token.Struct {
		return &ast.StructDeclaration{Declaration: declaration, Block: block, Pos: pos}, nil
	}
	return &ast.ClassDeclaration{Declaration: declaration, Block: block, Pos: pos}, nil
}

// parseClassBody parses either an indented member block or a run of
// access sections written at the class's own indentation level.
func (p *Parser) parseClassBody() (*ast.Block, error) {
	if !p.match(token.Newline) {
		return nil, p.errorf("Expected a new line after ':'")
	}
	p.advance()
	p.skipBlankLines()
	p.absorbLayout()

	if p.match(token.Indent) {
		return p.parseIndentedBlock()
	}
	if !p.match(token.Public, token.Private, token.Protected) {
		return nil, p.errorf("Expected an indented block")
	}

	block := &ast.Block{Pos: ast.Position{Line: p.peek().Line}}
	for p.match(token.Public, token.Private, token.Protected) {
		access := p.advance()
		if _, err := p.expect(token.Colon, "Expected ':' after "+access.Text); err != nil {
			return nil, err
		}
		section, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		block.Body = append(block.Body, ast.NewStatement(access.Text+":", access.Line), section)
		p.skipBlankLines()
	}
	return block, nil
}
