package parser

import (
	"strconv"
	"strings"

	"github.com/jinnovation/jinja/ast"
	"github.com/jinnovation/jinja/token"
)

// Expression parsing is a cascade of precedence tiers, loosest binding
// first. Each tier parses its operands at the next tighter tier:
//
//	ternary > or > and > not > comparison/membership > additive
//	       > multiplicative > test (is) > filter (|) > call/member > primary
//
// Two wirings are intentionally non-uniform: the comparison tier's
// operands are additive expressions, and the multiplicative tier's
// operands are test expressions, so "4 * 4 is divisibleby(2)" parses as
// "4 * (4 is divisibleby(2))".

// parseExpression parses a full expression, including the ternary form
// "a if cond else b", which builds an If node with single-element
// branches.
func (p *Parser) parseExpression() (ast.Expr, error) {
	left, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	if !p.curIs(token.IF) {
		return left, nil
	}
	p.next()
	cond, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ELSE, "a ternary expression"); err != nil {
		return nil, err
	}
	alternate, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	return &ast.If{
		Cond: cond,
		Body: []ast.Node{left},
		Else: []ast.Node{alternate},
	}, nil
}

func (p *Parser) parseLogicalOr() (ast.Expr, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for p.curIs(token.OR) {
		p.next()
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.Infix{Op: "or", X: left, Y: right}
	}
	return left, nil
}

func (p *Parser) parseLogicalAnd() (ast.Expr, error) {
	left, err := p.parseLogicalNegation()
	if err != nil {
		return nil, err
	}
	for p.curIs(token.AND) {
		p.next()
		right, err := p.parseLogicalNegation()
		if err != nil {
			return nil, err
		}
		left = &ast.Infix{Op: "and", X: left, Y: right}
	}
	return left, nil
}

// parseLogicalNegation handles unary "not", which is right-associative:
// "not not x" stacks two Prefix nodes.
func (p *Parser) parseLogicalNegation() (ast.Expr, error) {
	if !p.curIs(token.NOT) {
		return p.parseComparison()
	}
	p.next()
	operand, err := p.parseLogicalNegation()
	if err != nil {
		return nil, err
	}
	return &ast.Prefix{Op: "not", X: operand}, nil
}

// parseComparison parses the shared comparison and membership tier.
// All operators fold left: "a in b == c" parses as "(a in b) == c".
func (p *Parser) parseComparison() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch {
		case p.matchesAt(token.NOT, token.IN):
			p.next()
			p.next()
			op = "not in"
		case p.curIs(token.IN):
			p.next()
			op = "in"
		case p.curIs(token.EQ), p.curIs(token.NOT_EQ),
			p.curIs(token.LT), p.curIs(token.GT),
			p.curIs(token.LT_EQUALS), p.curIs(token.GT_EQUALS):
			op = p.next().Literal
		default:
			return left, nil
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.Infix{Op: op, X: left, Y: right}
	}
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.curIs(token.PLUS) || p.curIs(token.MINUS) {
		op := p.next().Literal
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.Infix{Op: op, X: left, Y: right}
	}
	return left, nil
}

// parseMultiplicative parses "* / // % ~". Its operands come from the
// test tier, so a test binds tighter than multiplication.
func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseTest()
	if err != nil {
		return nil, err
	}
	for p.curIs(token.ASTERISK) || p.curIs(token.SLASH) ||
		p.curIs(token.SLASH_SLASH) || p.curIs(token.MOD) || p.curIs(token.TILDE) {
		op := p.next().Literal
		right, err := p.parseTest()
		if err != nil {
			return nil, err
		}
		left = &ast.Infix{Op: op, X: left, Y: right}
	}
	return left, nil
}

// parseTest parses "x is name" and "x is not name". The test name must
// be an identifier; a boolean literal in name position is reinterpreted
// as an identifier of the same spelling ("x is true" names a test called
// "true"). The name may be immediately invoked with arguments.
func (p *Parser) parseTest() (ast.Expr, error) {
	left, err := p.parseFilter()
	if err != nil {
		return nil, err
	}
	for p.curIs(token.IS) {
		p.next()
		negate := false
		if p.curIs(token.NOT) {
			p.next()
			negate = true
		}
		name, err := p.parseTestName()
		if err != nil {
			return nil, err
		}
		left = &ast.Test{X: left, Negate: negate, Name: name}
	}
	return left, nil
}

func (p *Parser) parseTestName() (ast.Expr, error) {
	var ident *ast.Ident
	switch p.cur().Type {
	case token.IDENT, token.TRUE, token.FALSE:
		ident = &ast.Ident{Name: p.next().Literal}
	default:
		return nil, newError(ErrInvalidTestName, p.cur(),
			"expected a test name after 'is' (got %s)", describe(p.cur()))
	}
	if !p.curIs(token.LPAREN) {
		return ident, nil
	}
	args, err := p.parseCallArgs()
	if err != nil {
		return nil, err
	}
	return &ast.Call{Fun: ident, Args: args}, nil
}

// parseFilter parses chained "|" applications. Each segment wraps the
// running operand in a Filter node, so "a|f|g" is Filter(Filter(a,f),g).
func (p *Parser) parseFilter() (ast.Expr, error) {
	left, err := p.parseCallMember()
	if err != nil {
		return nil, err
	}
	for p.curIs(token.PIPE) {
		p.next()
		if !p.curIs(token.IDENT) {
			return nil, newError(ErrInvalidFilterName, p.cur(),
				"expected a filter name after '|' (got %s)", describe(p.cur()))
		}
		var name ast.Expr = &ast.Ident{Name: p.next().Literal}
		if p.curIs(token.LPAREN) {
			args, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			name = &ast.Call{Fun: name, Args: args}
		}
		left = &ast.Filter{X: left, Name: name}
	}
	return left, nil
}

// parseCallMember parses postfix member access, indexing, slicing, and
// calls, recursing as long as postfix operators follow. This allows
// arbitrary chains such as "a.b[c](d).e()".
func (p *Parser) parseCallMember() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Type {
		case token.PERIOD:
			p.next()
			if !p.curIs(token.IDENT) {
				return nil, newError(ErrInvalidPropertyAccess, p.cur(),
					"expected an identifier after '.' (got %s)", describe(p.cur()))
			}
			prop := &ast.Ident{Name: p.next().Literal}
			expr = &ast.Member{X: expr, Prop: prop, Computed: false}
		case token.LBRACKET:
			p.next()
			prop, err := p.parseIndexOrSlice()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACKET, "an index expression"); err != nil {
				return nil, err
			}
			expr = &ast.Member{X: expr, Prop: prop, Computed: true}
		case token.LPAREN:
			args, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			expr = &ast.Call{Fun: expr, Args: args}
		default:
			return expr, nil
		}
	}
}

// parseIndexOrSlice parses the contents of brackets: a single expression
// index, or a slice once any ":" appears among up to three components.
// Omitted slice components stay nil.
func (p *Parser) parseIndexOrSlice() (ast.Expr, error) {
	if p.curIs(token.RBRACKET) {
		return nil, newError(ErrEmptyIndexExpression, p.cur(), "empty index expression")
	}
	var components []ast.Expr
	isSlice := false
	for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
		if p.curIs(token.COLON) {
			components = append(components, nil)
			p.next()
			isSlice = true
			continue
		}
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		components = append(components, expr)
		if p.curIs(token.COLON) {
			p.next()
			isSlice = true
			continue
		}
		if !p.curIs(token.RBRACKET) {
			return nil, expectedError(token.RBRACKET, p.cur(), "an index expression")
		}
	}
	if len(components) == 0 {
		return nil, expectedError(token.RBRACKET, p.cur(), "an index expression")
	}
	if !isSlice {
		return components[0], nil
	}
	if len(components) > 3 {
		return nil, newError(ErrMalformedSlice, p.cur(),
			"slice takes at most 3 components (got %d)", len(components))
	}
	slice := &ast.Slice{}
	if len(components) > 0 {
		slice.Start = components[0]
	}
	if len(components) > 1 {
		slice.Stop = components[1]
	}
	if len(components) > 2 {
		slice.Step = components[2]
	}
	return slice, nil
}

// parseCallArgs parses "(args)". Each argument is a full expression; an
// argument followed by "=" is rewritten to a keyword argument, which
// requires the left side to be a bare identifier.
func (p *Parser) parseCallArgs() ([]ast.Expr, error) {
	if _, err := p.expect(token.LPAREN, "call arguments"); err != nil {
		return nil, err
	}
	args := []ast.Expr{}
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if p.curIs(token.ASSIGN) {
			key, ok := arg.(*ast.Ident)
			if !ok {
				return nil, newError(ErrInvalidKeywordArg, p.cur(),
					"keyword argument name must be an identifier (got %s)", arg.String())
			}
			p.next()
			value, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			arg = &ast.KeywordArg{Key: key, Value: value}
		}
		args = append(args, arg)
		if !p.curIs(token.RPAREN) {
			if _, err := p.expect(token.COMMA, "call arguments"); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(token.RPAREN, "call arguments"); err != nil {
		return nil, err
	}
	return args, nil
}

// parsePrimary parses literals, identifiers, parenthesized expressions,
// and list/map literals. A leading "-" negates its operand and binds
// tighter than any binary operator, so "-7 // 2" is "(-7) // 2" and
// "-x.y" is "-(x.y)".
func (p *Parser) parsePrimary() (ast.Expr, error) {
	switch p.cur().Type {
	case token.MINUS:
		p.next()
		operand, err := p.parseCallMember()
		if err != nil {
			return nil, err
		}
		return &ast.Prefix{Op: "-", X: operand}, nil
	case token.NUMBER:
		return p.parseNumber()
	case token.STRING:
		return &ast.String{Value: p.next().Literal}, nil
	case token.TRUE:
		p.next()
		return &ast.Bool{Value: true}, nil
	case token.FALSE:
		p.next()
		return &ast.Bool{Value: false}, nil
	case token.IDENT:
		return &ast.Ident{Name: p.next().Literal}, nil
	case token.LPAREN:
		p.next()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, "a parenthesized expression"); err != nil {
			return nil, err
		}
		return expr, nil
	case token.LBRACKET:
		return p.parseListLiteral()
	case token.LBRACE:
		return p.parseMapLiteral()
	}
	return nil, newError(ErrUnexpectedToken, p.cur(), "unexpected %s", describe(p.cur()))
}

func (p *Parser) parseNumber() (ast.Expr, error) {
	tok := p.next()
	if !strings.Contains(tok.Literal, ".") {
		value, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err == nil {
			return &ast.Number{Literal: tok.Literal, IsInt: true, Int: value}, nil
		}
		// Out of int64 range; fall through to float.
	}
	value, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		return nil, newError(ErrUnexpectedToken, tok, "invalid numeric literal %q", tok.Literal)
	}
	return &ast.Number{Literal: tok.Literal, Float: value}, nil
}

// parseListLiteral parses "[a, b, c]". A trailing comma is tolerated.
func (p *Parser) parseListLiteral() (ast.Expr, error) {
	p.next() // consume "["
	list := &ast.List{}
	for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
		item, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, item)
		if !p.curIs(token.RBRACKET) {
			if _, err := p.expect(token.COMMA, "a list literal"); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(token.RBRACKET, "a list literal"); err != nil {
		return nil, err
	}
	return list, nil
}

// parseMapLiteral parses "{k: v, ...}". Keys and values are full
// expressions; duplicate keys are preserved as distinct pairs. A
// trailing comma is tolerated.
func (p *Parser) parseMapLiteral() (ast.Expr, error) {
	p.next() // consume "{"
	m := &ast.Map{}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		key, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON, "an object literal"); err != nil {
			return nil, err
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		m.Items = append(m.Items, ast.MapItem{Key: key, Value: value})
		if !p.curIs(token.RBRACE) {
			if _, err := p.expect(token.COMMA, "an object literal"); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(token.RBRACE, "an object literal"); err != nil {
		return nil, err
	}
	return m, nil
}
