package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpressionStrings(t *testing.T) {
	tests := []struct {
		node Node
		want string
	}{
		{&Ident{Name: "x"}, "x"},
		{&Number{Literal: "42", IsInt: true, Int: 42}, "42"},
		{&Number{Literal: "3.14", Float: 3.14}, "3.14"},
		{&String{Value: "hi"}, `"hi"`},
		{&Bool{Value: true}, "true"},
		{&Bool{Value: false}, "false"},
		{&Prefix{Op: "not", X: &Ident{Name: "x"}}, "(not x)"},
		{&Prefix{Op: "-", X: &Number{Literal: "3"}}, "(-3)"},
		{
			&Infix{Op: "+", X: &Number{Literal: "1"}, Y: &Number{Literal: "2"}},
			"(1 + 2)",
		},
		{
			&Member{X: &Ident{Name: "a"}, Prop: &Ident{Name: "b"}},
			"a.b",
		},
		{
			&Member{X: &Ident{Name: "a"}, Prop: &Number{Literal: "0"}, Computed: true},
			"a[0]",
		},
		{
			&Call{Fun: &Ident{Name: "f"}, Args: []Expr{
				&Number{Literal: "1"},
				&KeywordArg{Key: &Ident{Name: "x"}, Value: &Number{Literal: "2"}},
			}},
			"f(1, x=2)",
		},
		{
			&Slice{Start: &Number{Literal: "1"}, Stop: &Number{Literal: "2"}, Step: &Number{Literal: "3"}},
			"1:2:3",
		},
		{&Slice{Stop: &Number{Literal: "2"}}, ":2"},
		{&Slice{}, ":"},
		{
			&Filter{X: &Ident{Name: "a"}, Name: &Ident{Name: "upper"}},
			"(a | upper)",
		},
		{
			&Test{X: &Ident{Name: "a"}, Negate: true, Name: &Ident{Name: "defined"}},
			"(a is not defined)",
		},
		{
			&List{Items: []Expr{&Number{Literal: "1"}, &String{Value: "a"}}},
			`[1, "a"]`,
		},
		{
			&Map{Items: []MapItem{{Key: &String{Value: "k"}, Value: &Number{Literal: "1"}}}},
			`{"k": 1}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.node.String())
		})
	}
}

func TestStatementStrings(t *testing.T) {
	ifStmt := &If{
		Cond: &Ident{Name: "cond"},
		Body: []Node{&String{Value: "yes"}},
		Else: []Node{&String{Value: "no"}},
	}
	assert.Equal(t, `{% if cond %}"yes"{% else %}"no"{% endif %}`, ifStmt.String())

	forStmt := &For{
		Var:  &Ident{Name: "x"},
		Iter: &Ident{Name: "items"},
		Body: []Node{&Ident{Name: "x"}},
	}
	assert.Equal(t, "{% for x in items %}x{% endfor %}", forStmt.String())

	set := &Set{Target: &Ident{Name: "a"}, Value: &Number{Literal: "1"}}
	assert.Equal(t, "{% set a = 1 %}", set.String())
}

func TestInspect(t *testing.T) {
	prog := &Program{Stmts: []Node{
		&For{
			Var:  &Ident{Name: "x"},
			Iter: &Ident{Name: "items"},
			Body: []Node{
				&Filter{X: &Ident{Name: "x"}, Name: &Ident{Name: "upper"}},
			},
		},
	}}

	var idents []string
	Inspect(prog, func(n Node) bool {
		if ident, ok := n.(*Ident); ok {
			idents = append(idents, ident.Name)
		}
		return true
	})
	assert.Equal(t, []string{"x", "items", "x", "upper"}, idents)
}

func TestInspectPrune(t *testing.T) {
	infix := &Infix{
		Op: "+",
		X:  &Infix{Op: "*", X: &Number{Literal: "2"}, Y: &Number{Literal: "3"}},
		Y:  &Number{Literal: "1"},
	}

	var visited int
	Inspect(infix, func(n Node) bool {
		visited++
		// Do not descend into nested operator expressions.
		_, nested := n.(*Infix)
		return !nested || n == Node(infix)
	})
	// Root, inner infix (pruned), and the right operand.
	assert.Equal(t, 3, visited)
}

func TestWalkSliceSkipsAbsentComponents(t *testing.T) {
	slice := &Slice{Stop: &Number{Literal: "2"}}
	var count int
	Inspect(slice, func(n Node) bool {
		count++
		return true
	})
	assert.Equal(t, 2, count)
}
