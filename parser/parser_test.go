package parser

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinnovation/jinja/lexer"
	"github.com/jinnovation/jinja/token"
)

func TestEmptyInput(t *testing.T) {
	prog := parseSource(t, "")
	assert.Empty(t, prog.Stmts)
}

func TestDocumentOrder(t *testing.T) {
	prog := parseSource(t, "a{{ x }}b{% set y = 1 %}c")
	require.Len(t, prog.Stmts, 5)
	assert.Equal(t, `"a"`, prog.Stmts[0].String())
	assert.Equal(t, "x", prog.Stmts[1].String())
	assert.Equal(t, `"b"`, prog.Stmts[2].String())
	assert.Equal(t, "{% set y = 1 %}", prog.Stmts[3].String())
	assert.Equal(t, `"c"`, prog.Stmts[4].String())
}

func TestParseIsPure(t *testing.T) {
	// Parsing the same token stream twice yields structurally identical
	// trees and leaves the input untouched.
	tokens, err := lexer.Tokenize("{% for x in items %}{{ x | upper }}{% endfor %}")
	require.NoError(t, err)
	snapshot := make([]token.Token, len(tokens))
	copy(snapshot, tokens)

	first, err := Parse(tokens)
	require.NoError(t, err)
	second, err := Parse(tokens)
	require.NoError(t, err)

	assert.True(t, reflect.DeepEqual(first, second))
	assert.Equal(t, snapshot, tokens)
}

func TestFailedParseReturnsNoTree(t *testing.T) {
	tokens, err := lexer.Tokenize("{{ a + }}")
	require.NoError(t, err)
	prog, err := Parse(tokens)
	assert.Nil(t, prog)
	assert.Error(t, err)
}

func TestMissingExpressionClose(t *testing.T) {
	// The lexer rejects an unterminated tag, so feed the parser a
	// hand-built stream to exercise its own check.
	tokens := []token.Token{
		{Type: token.OPEN_EXPR, Literal: "{{", Line: 1, Column: 1},
		{Type: token.IDENT, Literal: "x", Line: 1, Column: 4},
		{Type: token.EOF, Line: 1, Column: 8},
	}
	_, err := Parse(tokens)
	require.Error(t, err)
	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, ErrExpectedToken, syntaxErr.Kind)
	assert.Equal(t, token.Type(token.CLOSE_EXPR), syntaxErr.Expected)
}

func TestTruncatedStream(t *testing.T) {
	// A stream cut off mid-construct fails cleanly rather than indexing
	// past the end.
	tokens, err := lexer.Tokenize("{{ x[1 }}")
	require.NoError(t, err)
	for i := range tokens {
		_, parseErr := Parse(tokens[:i])
		if i == 0 {
			assert.NoError(t, parseErr)
			continue
		}
		assert.Error(t, parseErr, "prefix of length %d", i)
	}
}
