package parser

import (
	"github.com/jinnovation/jinja/ast"
	"github.com/jinnovation/jinja/token"
)

// parseStatement parses one "{% ... %}" block, including its closing
// "{% endif %}" / "{% endfor %}" tag where the statement has one.
func (p *Parser) parseStatement() (ast.Node, error) {
	p.next() // consume "{%"
	switch p.cur().Type {
	case token.SET:
		p.next()
		stmt, err := p.parseSetStatement()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.CLOSE_STMT, "a set statement"); err != nil {
			return nil, err
		}
		return stmt, nil
	case token.IF:
		p.next()
		stmt, err := p.parseIfStatement()
		if err != nil {
			return nil, err
		}
		// The endif triad closes the whole elif/else chain and is
		// consumed here, by the outermost caller only.
		for _, t := range []token.Type{token.OPEN_STMT, token.ENDIF, token.CLOSE_STMT} {
			if _, err := p.expect(t, "an if statement"); err != nil {
				return nil, err
			}
		}
		return stmt, nil
	case token.FOR:
		p.next()
		stmt, err := p.parseForStatement()
		if err != nil {
			return nil, err
		}
		for _, t := range []token.Type{token.OPEN_STMT, token.ENDFOR, token.CLOSE_STMT} {
			if _, err := p.expect(t, "a for statement"); err != nil {
				return nil, err
			}
		}
		return stmt, nil
	}
	return nil, newError(ErrUnexpectedToken, p.cur(), "unknown statement %s", describe(p.cur()))
}

// parseSetStatement parses the contents of a set tag:
//
//	SetStmt := Expr ('=' SetStmt)?
//
// The left side is a full expression, which permits member-expression
// assignment targets such as "x.y = 1". Without an "=", the bare
// expression itself is the result.
func (p *Parser) parseSetStatement() (ast.Node, error) {
	left, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.curIs(token.ASSIGN) {
		return left, nil
	}
	p.next()
	value, err := p.parseSetStatement()
	if err != nil {
		return nil, err
	}
	return &ast.Set{Target: left, Value: value}, nil
}

// parseIfStatement parses an if statement beginning after the "if" (or
// "elif") keyword. Elif chains recurse: each elif becomes a nested If
// that is the sole element of the parent's Else. The caller consumes the
// final "{% endif %}" triad.
func (p *Parser) parseIfStatement() (*ast.If, error) {
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.CLOSE_STMT, "an if statement"); err != nil {
		return nil, err
	}

	var body []ast.Node
	for !p.matchesAt(token.OPEN_STMT, token.ELIF) &&
		!p.matchesAt(token.OPEN_STMT, token.ELSE) &&
		!p.matchesAt(token.OPEN_STMT, token.ENDIF) {
		if p.curIs(token.EOF) {
			return nil, expectedError(token.ENDIF, p.cur(), "an if statement")
		}
		stmt, err := p.parseAny()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}

	var alternate []ast.Node
	switch {
	case p.matchesAt(token.OPEN_STMT, token.ELIF):
		p.next() // consume "{%"
		p.next() // consume "elif"
		nested, err := p.parseIfStatement()
		if err != nil {
			return nil, err
		}
		alternate = []ast.Node{nested}
	case p.matchesAt(token.OPEN_STMT, token.ELSE):
		p.next() // consume "{%"
		p.next() // consume "else"
		if _, err := p.expect(token.CLOSE_STMT, "an else clause"); err != nil {
			return nil, err
		}
		for !p.matchesAt(token.OPEN_STMT, token.ENDIF) {
			if p.curIs(token.EOF) {
				return nil, expectedError(token.ENDIF, p.cur(), "an else clause")
			}
			stmt, err := p.parseAny()
			if err != nil {
				return nil, err
			}
			alternate = append(alternate, stmt)
		}
	}
	return &ast.If{Cond: cond, Body: body, Else: alternate}, nil
}

// parseForStatement parses a for statement beginning after the "for"
// keyword. The loop variable must be a bare identifier. The caller
// consumes the final "{% endfor %}" triad.
func (p *Parser) parseForStatement() (*ast.For, error) {
	target, err := p.parseCallMember()
	if err != nil {
		return nil, err
	}
	loopVar, ok := target.(*ast.Ident)
	if !ok {
		return nil, newError(ErrInvalidLoopVariable, p.cur(),
			"expected a bare identifier as loop variable (got %s)", target.String())
	}
	if _, err := p.expect(token.IN, "a for statement"); err != nil {
		return nil, err
	}
	iter, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.CLOSE_STMT, "a for statement"); err != nil {
		return nil, err
	}

	var body []ast.Node
	for !p.matchesAt(token.OPEN_STMT, token.ENDFOR) {
		if p.curIs(token.EOF) {
			return nil, expectedError(token.ENDFOR, p.cur(), "a for statement")
		}
		stmt, err := p.parseAny()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	return &ast.For{Var: loopVar, Iter: iter, Body: body}, nil
}
