// Package interp renders a parsed template by walking its AST against an
// environment of variables and registries of named filters and tests.
package interp

import (
	"fmt"
	"math"
	"strings"

	"github.com/jinnovation/jinja/ast"
)

// Interpreter walks template ASTs. One Interpreter may be shared across
// renders; the registries are fixed after New.
type Interpreter struct {
	filters map[string]FilterFunc
	tests   map[string]TestFunc
}

// FilterFunc transforms a value, with optional positional and keyword
// arguments from the template.
type FilterFunc func(value interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error)

// TestFunc is a named boolean predicate applied with "is".
type TestFunc func(value interface{}, args []interface{}) (bool, error)

// New returns an Interpreter with the builtin filters and tests
// registered.
func New() *Interpreter {
	return &Interpreter{filters: builtinFilters(), tests: builtinTests()}
}

// RegisterFilter adds or replaces a named filter.
func (i *Interpreter) RegisterFilter(name string, fn FilterFunc) {
	i.filters[name] = fn
}

// RegisterTest adds or replaces a named test.
func (i *Interpreter) RegisterTest(name string, fn TestFunc) {
	i.tests[name] = fn
}

// Render walks the program and returns the produced text.
func (i *Interpreter) Render(prog *ast.Program, env *Environment) (string, error) {
	return i.renderBody(prog.Stmts, env)
}

func (i *Interpreter) renderBody(stmts []ast.Node, env *Environment) (string, error) {
	var sb strings.Builder
	for _, stmt := range stmts {
		if err := i.renderStatement(&sb, stmt, env); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

func (i *Interpreter) renderStatement(sb *strings.Builder, stmt ast.Node, env *Environment) error {
	switch n := stmt.(type) {
	case *ast.String:
		sb.WriteString(n.Value)
		return nil
	case *ast.If:
		cond, err := i.evalExpr(n.Cond, env)
		if err != nil {
			return err
		}
		body := n.Body
		if !Truthy(cond) {
			body = n.Else
		}
		out, err := i.renderBody(body, env)
		if err != nil {
			return err
		}
		sb.WriteString(out)
		return nil
	case *ast.For:
		return i.renderFor(sb, n, env)
	case *ast.Set:
		_, err := i.evalSet(n, env)
		return err
	}
	expr, ok := stmt.(ast.Expr)
	if !ok {
		return fmt.Errorf("cannot render %T node", stmt)
	}
	value, err := i.evalExpr(expr, env)
	if err != nil {
		return err
	}
	sb.WriteString(Stringify(value))
	return nil
}

func (i *Interpreter) renderFor(sb *strings.Builder, n *ast.For, env *Environment) error {
	iter, err := i.evalExpr(n.Iter, env)
	if err != nil {
		return err
	}
	items, err := iterate(iter)
	if err != nil {
		return err
	}
	length := len(items)
	for idx, item := range items {
		scope := env.Child()
		scope.Set(n.Var.Name, item)
		scope.Set("loop", map[string]interface{}{
			"index":     int64(idx + 1),
			"index0":    int64(idx),
			"revindex":  int64(length - idx),
			"revindex0": int64(length - idx - 1),
			"first":     idx == 0,
			"last":      idx == length-1,
			"length":    int64(length),
		})
		out, err := i.renderBody(n.Body, scope)
		if err != nil {
			return err
		}
		sb.WriteString(out)
	}
	return nil
}

// iterate expands an iterable into its elements: list elements, string
// characters, or map keys in sorted order.
func iterate(v interface{}) ([]interface{}, error) {
	switch val := v.(type) {
	case []interface{}:
		return val, nil
	case string:
		items := make([]interface{}, 0, len(val))
		for _, r := range val {
			items = append(items, string(r))
		}
		return items, nil
	case map[string]interface{}:
		keys := sortedKeys(val)
		items := make([]interface{}, 0, len(keys))
		for _, k := range keys {
			items = append(items, k)
		}
		return items, nil
	}
	return nil, fmt.Errorf("cannot iterate over %s", typeName(v))
}

// evalSet performs an assignment and returns the assigned value, so
// chained assignments ("a = b = 1") thread it through.
func (i *Interpreter) evalSet(n *ast.Set, env *Environment) (interface{}, error) {
	var value interface{}
	var err error
	switch v := n.Value.(type) {
	case *ast.Set:
		value, err = i.evalSet(v, env)
	case ast.Expr:
		value, err = i.evalExpr(v, env)
	default:
		return nil, fmt.Errorf("invalid assignment value %T", n.Value)
	}
	if err != nil {
		return nil, err
	}
	switch target := n.Target.(type) {
	case *ast.Ident:
		env.Set(target.Name, value)
	case *ast.Member:
		obj, err := i.evalExpr(target.X, env)
		if err != nil {
			return nil, err
		}
		m, ok := obj.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("cannot assign attribute on %s", typeName(obj))
		}
		key, err := i.memberKey(target, env)
		if err != nil {
			return nil, err
		}
		name, ok := key.(string)
		if !ok {
			return nil, fmt.Errorf("attribute name must be a string (got %s)", typeName(key))
		}
		m[name] = value
	default:
		return nil, fmt.Errorf("cannot assign to %s", n.Target.String())
	}
	return value, nil
}

func (i *Interpreter) evalExpr(expr ast.Expr, env *Environment) (interface{}, error) {
	switch n := expr.(type) {
	case *ast.Number:
		if n.IsInt {
			return n.Int, nil
		}
		return n.Float, nil
	case *ast.String:
		return n.Value, nil
	case *ast.Bool:
		return n.Value, nil
	case *ast.Ident:
		if v, ok := env.Lookup(n.Name); ok {
			return v, nil
		}
		return Undefined{}, nil
	case *ast.List:
		items := make([]interface{}, 0, len(n.Items))
		for _, item := range n.Items {
			v, err := i.evalExpr(item, env)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case *ast.Map:
		m := make(map[string]interface{}, len(n.Items))
		for _, item := range n.Items {
			key, err := i.evalExpr(item.Key, env)
			if err != nil {
				return nil, err
			}
			name, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("object key must be a string (got %s)", typeName(key))
			}
			value, err := i.evalExpr(item.Value, env)
			if err != nil {
				return nil, err
			}
			m[name] = value
		}
		return m, nil
	case *ast.Prefix:
		operand, err := i.evalExpr(n.X, env)
		if err != nil {
			return nil, err
		}
		if n.Op == "-" {
			if iv, ok := asInt(operand); ok {
				return -iv, nil
			}
			if fv, ok := asFloat(operand); ok {
				return -fv, nil
			}
			return nil, fmt.Errorf("cannot negate %s", typeName(operand))
		}
		return !Truthy(operand), nil
	case *ast.Infix:
		return i.evalInfix(n, env)
	case *ast.If:
		return i.evalTernary(n, env)
	case *ast.Member:
		return i.evalMember(n, env)
	case *ast.Call:
		return i.evalCall(n, env)
	case *ast.Filter:
		return i.evalFilter(n, env)
	case *ast.Test:
		return i.evalTest(n, env)
	}
	return nil, fmt.Errorf("cannot evaluate %T node", expr)
}

// evalTernary evaluates an If node used in expression position, where
// each branch holds exactly one expression.
func (i *Interpreter) evalTernary(n *ast.If, env *Environment) (interface{}, error) {
	cond, err := i.evalExpr(n.Cond, env)
	if err != nil {
		return nil, err
	}
	branch := n.Body
	if !Truthy(cond) {
		branch = n.Else
	}
	if len(branch) == 0 {
		return Undefined{}, nil
	}
	expr, ok := branch[0].(ast.Expr)
	if !ok {
		return nil, fmt.Errorf("cannot evaluate %T node as an expression", branch[0])
	}
	return i.evalExpr(expr, env)
}

func (i *Interpreter) evalInfix(n *ast.Infix, env *Environment) (interface{}, error) {
	// and/or short-circuit and yield the deciding operand's value.
	if n.Op == "and" || n.Op == "or" {
		left, err := i.evalExpr(n.X, env)
		if err != nil {
			return nil, err
		}
		if n.Op == "and" && !Truthy(left) {
			return left, nil
		}
		if n.Op == "or" && Truthy(left) {
			return left, nil
		}
		return i.evalExpr(n.Y, env)
	}

	left, err := i.evalExpr(n.X, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpr(n.Y, env)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "==":
		return Equal(left, right), nil
	case "!=":
		return !Equal(left, right), nil
	case "<", "<=", ">", ">=":
		c, err := compare(left, right)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case "<":
			return c < 0, nil
		case "<=":
			return c <= 0, nil
		case ">":
			return c > 0, nil
		default:
			return c >= 0, nil
		}
	case "in":
		return contains(left, right)
	case "not in":
		found, err := contains(left, right)
		if err != nil {
			return nil, err
		}
		return !found, nil
	case "~":
		return Stringify(left) + Stringify(right), nil
	case "+", "-", "*", "/", "//", "%":
		return arithmetic(n.Op, left, right)
	}
	return nil, fmt.Errorf("unknown operator %q", n.Op)
}

// arithmetic applies a numeric operator, keeping integer results when
// both operands are integers. "+" also concatenates strings and lists,
// and "/" always produces a float.
func arithmetic(op string, left, right interface{}) (interface{}, error) {
	if op == "+" {
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs, nil
			}
		}
		if ll, ok := left.([]interface{}); ok {
			if rl, ok := right.([]interface{}); ok {
				out := make([]interface{}, 0, len(ll)+len(rl))
				out = append(out, ll...)
				return append(out, rl...), nil
			}
		}
	}

	li, lIsInt := asInt(left)
	ri, rIsInt := asInt(right)
	if lIsInt && rIsInt && op != "/" {
		switch op {
		case "+":
			return li + ri, nil
		case "-":
			return li - ri, nil
		case "*":
			return li * ri, nil
		case "//":
			if ri == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			q := li / ri
			if (li%ri != 0) && ((li < 0) != (ri < 0)) {
				q--
			}
			return q, nil
		case "%":
			if ri == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			m := li % ri
			if m != 0 && ((li < 0) != (ri < 0)) {
				m += ri
			}
			return m, nil
		}
	}

	lf, lok := asFloat(left)
	rf, rok := asFloat(right)
	if !lok || !rok {
		return nil, fmt.Errorf("unsupported operand types for %q: %s and %s",
			op, typeName(left), typeName(right))
	}
	switch op {
	case "+":
		return lf + rf, nil
	case "-":
		return lf - rf, nil
	case "*":
		return lf * rf, nil
	case "/":
		if rf == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return lf / rf, nil
	case "//":
		if rf == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return math.Floor(lf / rf), nil
	case "%":
		if rf == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return lf - rf*math.Floor(lf/rf), nil
	}
	return nil, fmt.Errorf("unknown operator %q", op)
}
