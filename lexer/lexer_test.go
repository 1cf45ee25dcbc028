package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinnovation/jinja/token"
)

func types(tokens []token.Token) []token.Type {
	out := make([]token.Type, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.Type)
	}
	return out
}

func TestTokenizeText(t *testing.T) {
	tokens, err := Tokenize("hello world")
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, token.Token{Type: token.TEXT, Literal: "hello world", Line: 1, Column: 1}, tokens[0])
	assert.Equal(t, token.Type(token.EOF), tokens[1].Type)
}

func TestTokenizeExpression(t *testing.T) {
	tokens, err := Tokenize(`Hello, {{ name }}!`)
	require.NoError(t, err)
	assert.Equal(t, []token.Type{
		token.TEXT, token.OPEN_EXPR, token.IDENT, token.CLOSE_EXPR, token.TEXT, token.EOF,
	}, types(tokens))
	assert.Equal(t, "name", tokens[2].Literal)
}

func TestTokenizeStatement(t *testing.T) {
	tokens, err := Tokenize(`{% for item in items %}{{ item }}{% endfor %}`)
	require.NoError(t, err)
	assert.Equal(t, []token.Type{
		token.OPEN_STMT, token.FOR, token.IDENT, token.IN, token.IDENT, token.CLOSE_STMT,
		token.OPEN_EXPR, token.IDENT, token.CLOSE_EXPR,
		token.OPEN_STMT, token.ENDFOR, token.CLOSE_STMT,
		token.EOF,
	}, types(tokens))
}

func TestTokenizeOperators(t *testing.T) {
	tokens, err := Tokenize(`{{ a == b != c <= d >= e // f < g }}`)
	require.NoError(t, err)
	assert.Equal(t, []token.Type{
		token.OPEN_EXPR,
		token.IDENT, token.EQ,
		token.IDENT, token.NOT_EQ,
		token.IDENT, token.LT_EQUALS,
		token.IDENT, token.GT_EQUALS,
		token.IDENT, token.SLASH_SLASH,
		token.IDENT, token.LT,
		token.IDENT,
		token.CLOSE_EXPR, token.EOF,
	}, types(tokens))
}

func TestTokenizeKeywords(t *testing.T) {
	tokens, err := Tokenize(`{{ true and False or not x is defined }}`)
	require.NoError(t, err)
	assert.Equal(t, []token.Type{
		token.OPEN_EXPR,
		token.TRUE, token.AND, token.FALSE, token.OR, token.NOT,
		token.IDENT, token.IS, token.IDENT,
		token.CLOSE_EXPR, token.EOF,
	}, types(tokens))
	// The capitalized spelling keeps its literal text.
	assert.Equal(t, "False", tokens[3].Literal)
}

func TestTokenizeStrings(t *testing.T) {
	tokens, err := Tokenize(`{{ 'single' + "double" + "esc\"aped\n" }}`)
	require.NoError(t, err)
	assert.Equal(t, "single", tokens[1].Literal)
	assert.Equal(t, "double", tokens[3].Literal)
	assert.Equal(t, "esc\"aped\n", tokens[5].Literal)
}

func TestTokenizeNumbers(t *testing.T) {
	tokens, err := Tokenize(`{{ 42 + 3.14 }}`)
	require.NoError(t, err)
	assert.Equal(t, token.Type(token.NUMBER), tokens[1].Type)
	assert.Equal(t, "42", tokens[1].Literal)
	assert.Equal(t, "3.14", tokens[3].Literal)
}

func TestIntegerMemberAccess(t *testing.T) {
	// "1.x" is an integer followed by member access, not a float.
	tokens, err := Tokenize(`{{ items.0 }}`)
	require.NoError(t, err)
	assert.Equal(t, []token.Type{
		token.OPEN_EXPR, token.IDENT, token.PERIOD, token.NUMBER, token.CLOSE_EXPR, token.EOF,
	}, types(tokens))
}

func TestNestedMapBraces(t *testing.T) {
	// The closing braces of nested map literals sit directly against each
	// other; they must lex as two RBRACE tokens, not as a tag closer.
	tokens, err := Tokenize(`{{ {'a': 1, 'b': {'c': 2}} }}`)
	require.NoError(t, err)
	assert.Equal(t, []token.Type{
		token.OPEN_EXPR,
		token.LBRACE, token.STRING, token.COLON, token.NUMBER, token.COMMA,
		token.STRING, token.COLON,
		token.LBRACE, token.STRING, token.COLON, token.NUMBER, token.RBRACE,
		token.RBRACE,
		token.CLOSE_EXPR, token.EOF,
	}, types(tokens))
}

func TestMapBraceFlushAgainstCloser(t *testing.T) {
	// Three adjacent "}": the first closes the map, the rest close the tag.
	tokens, err := Tokenize(`{{ {'a': 1}}}`)
	require.NoError(t, err)
	assert.Equal(t, []token.Type{
		token.OPEN_EXPR,
		token.LBRACE, token.STRING, token.COLON, token.NUMBER, token.RBRACE,
		token.CLOSE_EXPR, token.EOF,
	}, types(tokens))
}

func TestComments(t *testing.T) {
	tokens, err := Tokenize(`a{# ignored {{ x }} #}b`)
	require.NoError(t, err)
	assert.Equal(t, []token.Type{token.TEXT, token.TEXT, token.EOF}, types(tokens))
	assert.Equal(t, "a", tokens[0].Literal)
	assert.Equal(t, "b", tokens[1].Literal)
}

func TestPositions(t *testing.T) {
	tokens, err := Tokenize("line one\n{{ name }}")
	require.NoError(t, err)
	name := tokens[2]
	assert.Equal(t, token.Type(token.IDENT), name.Type)
	assert.Equal(t, 2, name.Line)
	assert.Equal(t, 4, name.Column)
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated expression", `{{ name `},
		{"unterminated statement", `{% if x `},
		{"unterminated comment", `{# nope`},
		{"unterminated string", `{{ 'abc }}`},
		{"unknown character", `{{ a @ b }}`},
		{"bad escape", `{{ "a\qb" }}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			require.Error(t, err)
			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Greater(t, syntaxErr.Line, 0)
		})
	}
}
