package ast

import (
	"bytes"
	"strconv"
	"strings"
)

// Number is an expression node holding a numeric literal. Integer and
// floating point literals share one variant; IsInt selects which of Int
// and Float carries the value.
type Number struct {
	Literal string
	IsInt   bool
	Int     int64
	Float   float64
}

func (x *Number) exprNode() {}

func (x *Number) String() string { return x.Literal }

// String is an expression node holding a string literal; Value is the
// decoded (unquoted) text. Literal template text between tags is
// represented with the same node, used in statement position.
type String struct {
	Value string
}

func (x *String) exprNode() {}
func (x *String) stmtNode() {}

func (x *String) String() string { return strconv.Quote(x.Value) }

// Bool is an expression node holding a boolean literal.
type Bool struct {
	Value bool
}

func (x *Bool) exprNode() {}

func (x *Bool) String() string {
	if x.Value {
		return "true"
	}
	return "false"
}

// List is an expression node holding an array literal. Element order is
// source order.
type List struct {
	Items []Expr
}

func (x *List) exprNode() {}

func (x *List) String() string {
	items := make([]string, 0, len(x.Items))
	for _, item := range x.Items {
		items = append(items, item.String())
	}
	return "[" + strings.Join(items, ", ") + "]"
}

// MapItem is one key-value pair of a Map literal. Keys and values are
// arbitrary expressions.
type MapItem struct {
	Key   Expr
	Value Expr
}

// Map is an expression node holding an object literal. Pairs are kept in
// source order and duplicate keys are not collapsed; whether duplicates
// are meaningful is decided at render time.
type Map struct {
	Items []MapItem
}

func (x *Map) exprNode() {}

func (x *Map) String() string {
	var out bytes.Buffer
	out.WriteString("{")
	for i, item := range x.Items {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(item.Key.String())
		out.WriteString(": ")
		out.WriteString(item.Value.String())
	}
	out.WriteString("}")
	return out.String()
}
