package ast

import "bytes"

// Ident is an expression node that refers to a variable by name.
type Ident struct {
	Name string
}

func (x *Ident) exprNode() {}

func (x *Ident) String() string { return x.Name }

// Prefix is an operator expression where the operator precedes the
// operand, e.g. "not x".
type Prefix struct {
	Op string
	X  Expr
}

func (x *Prefix) exprNode() {}

func (x *Prefix) String() string {
	if x.Op == "-" {
		return "(" + x.Op + x.X.String() + ")"
	}
	return "(" + x.Op + " " + x.X.String() + ")"
}

// Infix is an operator expression where the operator is between the two
// operands, e.g. "x + y" or "a in b".
type Infix struct {
	Op string
	X  Expr
	Y  Expr
}

func (x *Infix) exprNode() {}

func (x *Infix) String() string {
	return "(" + x.X.String() + " " + x.Op + " " + x.Y.String() + ")"
}

// Member is an attribute or index access. Dot access ("x.y") has
// Computed=false and Prop is always an *Ident. Bracket access ("x[y]")
// has Computed=true and Prop may be any expression, including a *Slice.
type Member struct {
	X        Expr
	Prop     Expr
	Computed bool
}

func (x *Member) exprNode() {}

func (x *Member) String() string {
	if x.Computed {
		return x.X.String() + "[" + x.Prop.String() + "]"
	}
	return x.X.String() + "." + x.Prop.String()
}

// Call is a function invocation. Args holds positional expressions and
// *KeywordArg entries in source order.
type Call struct {
	Fun  Expr
	Args []Expr
}

func (x *Call) exprNode() {}

func (x *Call) String() string {
	var out bytes.Buffer
	out.WriteString(x.Fun.String())
	out.WriteString("(")
	for i, arg := range x.Args {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(arg.String())
	}
	out.WriteString(")")
	return out.String()
}

// KeywordArg is a call argument bound by name rather than position.
type KeywordArg struct {
	Key   *Ident
	Value Expr
}

func (x *KeywordArg) exprNode() {}

func (x *KeywordArg) String() string { return x.Key.Name + "=" + x.Value.String() }

// Slice is a bracketed start:stop:step sub-range specifier. A nil
// component means the component was omitted and its default applies.
type Slice struct {
	Start Expr
	Stop  Expr
	Step  Expr
}

func (x *Slice) exprNode() {}

func (x *Slice) String() string {
	var out bytes.Buffer
	if x.Start != nil {
		out.WriteString(x.Start.String())
	}
	out.WriteString(":")
	if x.Stop != nil {
		out.WriteString(x.Stop.String())
	}
	if x.Step != nil {
		out.WriteString(":")
		out.WriteString(x.Step.String())
	}
	return out.String()
}

// Filter applies a named transformation to a value via "|". Name is an
// *Ident, or a *Call when the filter is invoked with arguments.
type Filter struct {
	X    Expr
	Name Expr
}

func (x *Filter) exprNode() {}

func (x *Filter) String() string { return "(" + x.X.String() + " | " + x.Name.String() + ")" }

// Test applies a named boolean predicate to a value via "is". Name is an
// *Ident, or a *Call when the test takes arguments.
type Test struct {
	X      Expr
	Negate bool
	Name   Expr
}

func (x *Test) exprNode() {}

func (x *Test) String() string {
	if x.Negate {
		return "(" + x.X.String() + " is not " + x.Name.String() + ")"
	}
	return "(" + x.X.String() + " is " + x.Name.String() + ")"
}
