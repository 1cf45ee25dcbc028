// Package ast defines the abstract syntax tree for parsed templates.
//
// The node set is closed: every node is one of the variants defined in
// this package, and consumers switch exhaustively over them. Nodes are
// immutable once constructed and each node owns its children exclusively,
// so a parsed tree is always a tree, never a shared graph.
package ast

// Node represents a portion of the syntax tree.
type Node interface {
	// String returns a human friendly representation of the Node. This
	// should be similar to the original source code, but not necessarily
	// identical.
	String() string
}

// Stmt represents a statement node: an element of a template body that
// produces output or side effects when rendered.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression node. Expressions evaluate to a value
// and may be embedded within other expressions.
type Expr interface {
	Node
	exprNode()
}

// Program is the root node: the ordered sequence of top-level statements
// of one template, in document order.
type Program struct {
	Stmts []Node
}

func (p *Program) String() string {
	var out string
	for _, s := range p.Stmts {
		out += s.String()
	}
	return out
}
