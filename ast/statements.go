package ast

import "bytes"

// If is a conditional. As a statement it holds the full bodies of the
// "{% if %}" branches; an "elif" chain desugars into a nested If that is
// the sole element of Else. As a ternary expression ("a if cond else b")
// Body and Else each hold exactly one element.
type If struct {
	Cond Expr
	Body []Node
	Else []Node
}

func (x *If) exprNode() {}
func (x *If) stmtNode() {}

func (x *If) String() string {
	var out bytes.Buffer
	out.WriteString("{% if ")
	out.WriteString(x.Cond.String())
	out.WriteString(" %}")
	for _, s := range x.Body {
		out.WriteString(s.String())
	}
	if len(x.Else) > 0 {
		out.WriteString("{% else %}")
		for _, s := range x.Else {
			out.WriteString(s.String())
		}
	}
	out.WriteString("{% endif %}")
	return out.String()
}

// For is a loop statement. Var is the loop variable, always a bare
// identifier.
type For struct {
	Var  *Ident
	Iter Expr
	Body []Node
}

func (x *For) stmtNode() {}

func (x *For) String() string {
	var out bytes.Buffer
	out.WriteString("{% for ")
	out.WriteString(x.Var.Name)
	out.WriteString(" in ")
	out.WriteString(x.Iter.String())
	out.WriteString(" %}")
	for _, s := range x.Body {
		out.WriteString(s.String())
	}
	out.WriteString("{% endfor %}")
	return out.String()
}

// Set is an assignment statement. Target is an *Ident or a *Member
// (e.g. "x.y = 1"). Value is an expression, or another *Set when
// assignments are chained ("{% set a = b = 1 %}").
type Set struct {
	Target Expr
	Value  Node
}

func (x *Set) stmtNode() {}

func (x *Set) String() string {
	return "{% set " + x.Target.String() + " = " + x.Value.String() + " %}"
}
