// Package parser generates the abstract syntax tree (AST) for a template.
//
// A parser is created by calling New() with a token stream as input. The
// parser should then be used only once, by calling parser.Parse() to
// produce the AST. Parsing is a pure function of the token stream: the
// cursor lives on the Parser value, nothing is shared between
// invocations, and the first structural violation aborts the whole parse.
package parser

import (
	"github.com/jinnovation/jinja/ast"
	"github.com/jinnovation/jinja/token"
)

// Parser consumes a token stream left-to-right, with at most two tokens
// of lookahead, and builds the template AST bottom-up in a single pass.
type Parser struct {
	tokens []token.Token
	pos    int
}

// New returns a Parser for the given token stream.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse the provided token stream and return the AST. This is a
// shorthand for creating a Parser and calling Parse on it.
func Parse(tokens []token.Token) (*ast.Program, error) {
	return New(tokens).Parse()
}

// Parse consumes the entire token stream and returns the root Program
// node. Statement order in the result is document order.
func (p *Parser) Parse() (*ast.Program, error) {
	prog := &ast.Program{}
	for !p.curIs(token.EOF) {
		stmt, err := p.parseAny()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, stmt)
	}
	return prog, nil
}

// parseAny dispatches on the current token category: literal text,
// statement block, or expression block.
func (p *Parser) parseAny() (ast.Node, error) {
	switch p.cur().Type {
	case token.TEXT:
		return &ast.String{Value: p.next().Literal}, nil
	case token.OPEN_STMT:
		return p.parseStatement()
	case token.OPEN_EXPR:
		p.next()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.CLOSE_EXPR, "an expression tag"); err != nil {
			return nil, err
		}
		return expr, nil
	}
	return nil, newError(ErrUnexpectedToken, p.cur(), "unexpected %s", describe(p.cur()))
}

// cur returns the current token without consuming it. Past the end of
// the stream it reports EOF rather than indexing out of bounds.
func (p *Parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Type: token.EOF}
	}
	return p.tokens[p.pos]
}

// curIs returns true if the current token has the given type.
func (p *Parser) curIs(t token.Type) bool {
	return p.cur().Type == t
}

// next consumes and returns the current token.
func (p *Parser) next() token.Token {
	tok := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it has the given type; otherwise
// it fails with an ExpectedToken error naming the surrounding construct.
func (p *Parser) expect(t token.Type, context string) (token.Token, error) {
	if p.curIs(t) {
		return p.next(), nil
	}
	return token.Token{}, expectedError(t, p.cur(), context)
}

// matchesAt checks whether the run of token types starting at the cursor
// matches types, without consuming anything. It returns false when fewer
// than len(types) tokens remain; lookahead never fails at end of stream.
func (p *Parser) matchesAt(types ...token.Type) bool {
	if p.pos+len(types) > len(p.tokens) {
		return false
	}
	for i, t := range types {
		if p.tokens[p.pos+i].Type != t {
			return false
		}
	}
	return true
}
