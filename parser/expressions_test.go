package parser

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinnovation/jinja/ast"
	"github.com/jinnovation/jinja/lexer"
	"github.com/jinnovation/jinja/token"
)

// parseSource lexes and parses a complete template.
func parseSource(t *testing.T, source string) *ast.Program {
	t.Helper()
	tokens, err := lexer.Tokenize(source)
	require.NoError(t, err)
	prog, err := Parse(tokens)
	require.NoError(t, err)
	return prog
}

// parseExpr parses a single expression wrapped in an expression tag and
// returns the resulting node.
func parseExpr(t *testing.T, source string) ast.Expr {
	t.Helper()
	prog := parseSource(t, "{{ "+source+" }}")
	require.Len(t, prog.Stmts, 1)
	expr, ok := prog.Stmts[0].(ast.Expr)
	require.True(t, ok, "expected an expression, got %T", prog.Stmts[0])
	return expr
}

// parseError lexes and parses a template expected to fail, returning the
// parser's error.
func parseError(t *testing.T, source string) *SyntaxError {
	t.Helper()
	tokens, err := lexer.Tokenize(source)
	require.NoError(t, err)
	_, err = Parse(tokens)
	require.Error(t, err)
	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	return syntaxErr
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 * 2 + 3", "((1 * 2) + 3)"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"a or b and c", "(a or (b and c))"},
		{"a and b or c", "((a and b) or c)"},
		{"not a and b", "((not a) and b)"},
		{"not not a", "(not (not a))"},
		{"a < b + c", "(a < (b + c))"},
		{"a + b ~ c", "(a + (b ~ c))"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"8 / 4 / 2", "((8 / 4) / 2)"},
		{"7 // 2 % 3", "((7 // 2) % 3)"},
		{"a in b == c", "((a in b) == c)"},
		{"a == b in c", "((a == b) in c)"},
		{"a not in b", "(a not in b)"},
		{"not a in b", "(not (a in b))"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr := parseExpr(t, tt.input)
			assert.Equal(t, tt.want, expr.String())
		})
	}
}

func TestUnaryMinus(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"-1", "(-1)"},
		{"-2.5", "(-2.5)"},
		{"-x", "(-x)"},
		// "-" binds tighter than any binary operator.
		{"-7 // 2", "((-7) // 2)"},
		{"2 - -3", "(2 - (-3))"},
		{"-x.y", "(-x.y)"},
		{"-f(1)", "(-f(1))"},
		{"items[-1]", "items[(-1)]"},
		{"x[:-2]", "x[:(-2)]"},
		{"x[::-1]", "x[::(-1)]"},
		{"-3 | abs", "((-3) | abs)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr := parseExpr(t, tt.input)
			assert.Equal(t, tt.want, expr.String())
		})
	}
}

func TestTestExpressions(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"x is defined", "(x is defined)"},
		{"x is not defined", "(x is not defined)"},
		{"x is divisibleby(2)", "(x is divisibleby(2))"},
		// A test binds tighter than multiplication.
		{"4 * 4 is divisibleby(2)", "(4 * (4 is divisibleby(2)))"},
		{"x + 1 is odd", "(x + (1 is odd))"},
		// Boolean literals are valid test names.
		{"x is true", "(x is true)"},
		{"x is False", "(x is False)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr := parseExpr(t, tt.input)
			assert.Equal(t, tt.want, expr.String())
		})
	}
}

func TestFilterExpressions(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"name | upper", "(name | upper)"},
		{"a | f | g", "((a | f) | g)"},
		{"items | join(', ')", `(items | join(", "))`},
		// A filter binds tighter than a test.
		{"x | length is even", "((x | length) is even)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr := parseExpr(t, tt.input)
			assert.Equal(t, tt.want, expr.String())
		})
	}
}

func TestTernaryExpression(t *testing.T) {
	expr := parseExpr(t, "'yes' if cond else 'no'")
	cond, ok := expr.(*ast.If)
	require.True(t, ok)
	assert.Equal(t, "cond", cond.Cond.String())
	require.Len(t, cond.Body, 1)
	require.Len(t, cond.Else, 1)
	assert.Equal(t, `"yes"`, cond.Body[0].String())
	assert.Equal(t, `"no"`, cond.Else[0].String())
}

func TestTernaryRequiresElse(t *testing.T) {
	err := parseError(t, "{{ a if cond }}")
	assert.Equal(t, ErrExpectedToken, err.Kind)
	assert.Equal(t, token.Type(token.ELSE), err.Expected)
}

func TestMemberAccess(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user.name", "user.name"},
		{"a.b.c", "a.b.c"},
		{"items[0]", "items[0]"},
		{"items[i + 1]", "items[(i + 1)]"},
		{"a.b[c].d", "a.b[c].d"},
		{"f(x)(y)", "f(x)(y)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr := parseExpr(t, tt.input)
			assert.Equal(t, tt.want, expr.String())
		})
	}
}

func TestSliceExpressions(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"x[1:2]", "x[1:2]"},
		{"x[1:2:3]", "x[1:2:3]"},
		{"x[:2]", "x[:2]"},
		{"x[1:]", "x[1:]"},
		{"x[:]", "x[:]"},
		{"x[::2]", "x[::2]"},
		{"x[a+1:b*2]", "x[(a + 1):(b * 2)]"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr := parseExpr(t, tt.input)
			assert.Equal(t, tt.want, expr.String())
		})
	}
}

func TestSliceComponents(t *testing.T) {
	expr := parseExpr(t, "x[:2]")
	member, ok := expr.(*ast.Member)
	require.True(t, ok)
	require.True(t, member.Computed)
	slice, ok := member.Prop.(*ast.Slice)
	require.True(t, ok)
	assert.Nil(t, slice.Start)
	require.NotNil(t, slice.Stop)
	assert.Equal(t, "2", slice.Stop.String())
	assert.Nil(t, slice.Step)
}

func TestPlainIndexIsNotSlice(t *testing.T) {
	expr := parseExpr(t, "x[2]")
	member, ok := expr.(*ast.Member)
	require.True(t, ok)
	_, isSlice := member.Prop.(*ast.Slice)
	assert.False(t, isSlice)
}

func TestCallArguments(t *testing.T) {
	expr := parseExpr(t, "f(1, x=2, y=3)")
	call, ok := expr.(*ast.Call)
	require.True(t, ok)
	require.Len(t, call.Args, 3)
	assert.Equal(t, "1", call.Args[0].String())
	kwarg, ok := call.Args[1].(*ast.KeywordArg)
	require.True(t, ok)
	assert.Equal(t, "x", kwarg.Key.Name)
	assert.Equal(t, "2", kwarg.Value.String())
	assert.Equal(t, "f(1, x=2, y=3)", call.String())
}

func TestTrailingCommas(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"f(1, 2,)", "f(1, 2)"},
		{"[1, 2,]", "[1, 2]"},
		{"{'a': 1,}", `{"a": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr := parseExpr(t, tt.input)
			assert.Equal(t, tt.want, expr.String())
		})
	}
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"42", "42"},
		{"3.14", "3.14"},
		{"'hi'", `"hi"`},
		{"true", "true"},
		{"False", "false"},
		{"[1, 'two', [3]]", `[1, "two", [3]]`},
		{"{'a': 1, 'b': {'c': 2}}", `{"a": 1, "b": {"c": 2}}`},
		{"{k: v}", "{k: v}"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr := parseExpr(t, tt.input)
			assert.Equal(t, tt.want, expr.String())
		})
	}
}

func TestNumberVariants(t *testing.T) {
	num := parseExpr(t, "42").(*ast.Number)
	assert.True(t, num.IsInt)
	assert.Equal(t, int64(42), num.Int)

	num = parseExpr(t, "3.5").(*ast.Number)
	assert.False(t, num.IsInt)
	assert.Equal(t, 3.5, num.Float)
}

func TestExpressionErrors(t *testing.T) {
	tests := []struct {
		input string
		kind  ErrKind
	}{
		{"{{ x[] }}", ErrEmptyIndexExpression},
		{"{{ x[1:2:3:4] }}", ErrMalformedSlice},
		{"{{ x[1 2] }}", ErrExpectedToken},
		{"{{ f(a.b=1) }}", ErrInvalidKeywordArg},
		{"{{ x is 2 }}", ErrInvalidTestName},
		{"{{ x | 2 }}", ErrInvalidFilterName},
		{"{{ x.2 }}", ErrInvalidPropertyAccess},
		{"{{ a.'b' }}", ErrInvalidPropertyAccess},
		{"{{ + }}", ErrUnexpectedToken},
		{"{{ a + }}", ErrUnexpectedToken},
		{"{{ (a }}", ErrExpectedToken},
		{"{{ [1, 2 }}", ErrExpectedToken},
		{"{{ {'a' 1} }}", ErrExpectedToken},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := parseError(t, tt.input)
			assert.Equal(t, tt.kind, err.Kind)
		})
	}
}

func TestErrorPositions(t *testing.T) {
	err := parseError(t, "line one\n{{ x.2 }}")
	assert.Equal(t, 2, err.Line)
	assert.Greater(t, err.Column, 1)
	assert.Contains(t, err.Error(), fmt.Sprintf("line %d", err.Line))
}
