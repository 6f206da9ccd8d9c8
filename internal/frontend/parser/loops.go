package parser

import (
	"github.com/msto63/tnc/internal/frontend/ast"
	"github.com/msto63/tnc/internal/frontend/token"
)

// loopHeader is the part of a for header before its ranges
type loopHeader struct {
	line        int
	identifiers []token.Token
	idType      string
}

// parseForStatement parses "for ids [: TYPE] in ranges:" and its block.
// Several identifiers produce nested loops; the block belongs to the
// innermost one.
func (p *Parser) parseForStatement() (ast.Node, error) {
	loops, err := p.parseForHeader()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Colon, "Expected ':' after for statement"); err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return nestLoops(loops, block), nil
}

// parseListComprehension parses "[expr for ids in ranges]". The innermost
// loop carries expr as its Operation.
func (p *Parser) parseListComprehension() (ast.Node, error) {
	p.advance() // [
	p.bracket++
	defer func() { p.bracket-- }()

	operation, err := p.capture(token.For)
	if err != nil {
		return nil, err
	}
	if operation.Statement == "" {
		return nil, p.errorf("Missing expression in list comprehension")
	}
	if !p.match(token.For) {
		return nil, p.errorf("Expected 'for' in list comprehension")
	}

	loops, err := p.parseForHeader()
	if err != nil {
		return nil, err
	}
	p.skipLayout()
	if _, err := p.expect(token.RSquare, "Closing square bracket missing"); err != nil {
		return nil, err
	}

	switch inner := loops[len(loops)-1].(type) {
	case *ast.ForLoop:
		inner.Operation = operation
	case *ast.RangedLoop:
		inner.Operation = operation
	}
	return nestLoops(loops, nil), nil
}

// nestLoops links each loop into the block of the one before it and gives
// the innermost loop block.
func nestLoops(loops []ast.Node, block *ast.Block) ast.Node {
	for i := len(loops) - 1; i >= 0; i-- {
		if i < len(loops)-1 {
			inner := loops[i+1]
			block = &ast.Block{Body: []ast.Node{inner}, Pos: inner.Position()}
		}
		if block == nil {
			continue
		}
		switch loop := loops[i].(type) {
		case *ast.ForLoop:
			loop.Block = block
		case *ast.RangedLoop:
			loop.Block = block
		}
	}
	return loops[0]
}

func (p *Parser) parseForHeader() ([]ast.Node, error) {
	header, err := p.parseLoopVariables()
	if err != nil {
		return nil, err
	}

	loops := make([]ast.Node, 0, len(header.identifiers))
	for i, id := range header.identifiers {
		if i > 0 {
			if _, err := p.expect(token.Comma, "Expected a range for every loop variable"); err != nil {
				return nil, err
			}
		}
		loop, err := p.parseLoopRange(header, id)
		if err != nil {
			return nil, err
		}
		loops = append(loops, loop)
	}
	if p.match(token.Comma) {
		return nil, p.errorf("More ranges than loop variables in for statement")
	}
	return loops, nil
}

// parseLoopVariables parses "for a, b [: TYPE] in"
func (p *Parser) parseLoopVariables() (loopHeader, error) {
	header := loopHeader{line: p.advance().Line, idType: ast.DefaultType}

	for {
		id, err := p.expect(token.Identifier, "Missing variable identifier in for statement")
		if err != nil {
			return header, err
		}
		header.identifiers = append(header.identifiers, id)
		if !p.match(token.Comma) {
			break
		}
		p.advance()
	}

	if p.match(token.Colon) {
		p.advance()
		typ, err := p.expect(token.Type, "Invalid type of for loop identifier")
		if err != nil {
			return header, err
		}
		header.idType = typ.Text
	}

	if _, err := p.expect(token.In, "Missing 'in' in for statement"); err != nil {
		return header, err
	}
	return header, nil
}

// parseLoopRange parses one range segment, "start..end [step s]" or an
// object, and builds the matching loop for id.
func (p *Parser) parseLoopRange(header loopHeader, id token.Token) (ast.Node, error) {
	identifier := ast.NewStatement(id.Text, id.Line)
	pos := ast.Position{Line: header.line}

	if !p.segmentHasRange() {
		object, err := p.capture(token.Colon, token.Comma, token.RSquare)
		if err != nil {
			return nil, err
		}
		if object.Statement == "" {
			return nil, p.errorf("Missing range in for statement")
		}
		return &ast.RangedLoop{IDType: header.idType, Identifier: identifier, Object: object, Pos: pos}, nil
	}

	loop := &ast.ForLoop{IDType: header.idType, Identifier: identifier, Pos: pos}
	var err error
	if loop.Start, err = p.capture(token.ForRange); err != nil {
		return nil, err
	}
	if loop.Start.Statement == "" {
		return nil, p.errorf("Missing range start in for statement")
	}
	p.advance() // ..

	if loop.End, err = p.capture(token.Step, token.Colon, token.Comma, token.RSquare); err != nil {
		return nil, err
	}
	if loop.End.Statement == "" {
		return nil, p.errorf("Missing range end in for statement")
	}
	if p.match(token.Step) {
		p.advance()
		if loop.Step, err = p.capture(token.Colon, token.Comma, token.RSquare); err != nil {
			return nil, err
		}
		if loop.Step.Statement == "" {
			return nil, p.errorf("Missing step value in for statement")
		}
	}
	return loop, nil
}

// segmentHasRange scans ahead to the end of the current range segment and
// reports whether it contains '..'.
func (p *Parser) segmentHasRange() bool {
	depth := 0
	for i := p.current; i < len(p.tokens); i++ {
		switch p.tokens[i].Kind {
		case token.ForRange:
			if depth == 0 {
				return true
			}
		case token.LParen, token.LSquare, token.LCurly:
			depth++
		case token.RParen, token.RSquare, token.RCurly:
			if depth == 0 {
				return false
			}
			depth--
		case token.Comma, token.Colon:
			if depth == 0 {
				return false
			}
		case token.Newline:
			if p.bracket == 0 {
				return false
			}
		case token.EOF:
			return false
		}
	}
	return false
}
