package ast

// Visitor defines the interface for AST traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the non-nil children of node.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, stmt := range n.Stmts {
			Walk(v, stmt)
		}

	// Statements
	case *If:
		Walk(v, n.Cond)
		for _, stmt := range n.Body {
			Walk(v, stmt)
		}
		for _, stmt := range n.Else {
			Walk(v, stmt)
		}
	case *For:
		Walk(v, n.Var)
		Walk(v, n.Iter)
		for _, stmt := range n.Body {
			Walk(v, stmt)
		}
	case *Set:
		Walk(v, n.Target)
		Walk(v, n.Value)

	// Expressions
	case *Prefix:
		Walk(v, n.X)
	case *Infix:
		Walk(v, n.X)
		Walk(v, n.Y)
	case *Member:
		Walk(v, n.X)
		Walk(v, n.Prop)
	case *Call:
		Walk(v, n.Fun)
		for _, arg := range n.Args {
			Walk(v, arg)
		}
	case *KeywordArg:
		Walk(v, n.Key)
		Walk(v, n.Value)
	case *Slice:
		if n.Start != nil {
			Walk(v, n.Start)
		}
		if n.Stop != nil {
			Walk(v, n.Stop)
		}
		if n.Step != nil {
			Walk(v, n.Step)
		}
	case *Filter:
		Walk(v, n.X)
		Walk(v, n.Name)
	case *Test:
		Walk(v, n.X)
		Walk(v, n.Name)

	// Literals
	case *List:
		for _, item := range n.Items {
			Walk(v, item)
		}
	case *Map:
		for _, item := range n.Items {
			Walk(v, item.Key)
			Walk(v, item.Value)
		}

	// Leaves: *Ident, *Number, *String, *Bool have no children.
	}
}

// Inspect traverses an AST in depth-first order, calling f for each node.
// If f returns false, children of the node are not visited.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}
