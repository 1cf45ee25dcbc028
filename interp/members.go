package interp

import (
	"fmt"

	"github.com/jinnovation/jinja/ast"
)

// memberKey evaluates the property of a Member node: the identifier name
// for dot access, the computed expression's value for bracket access.
func (i *Interpreter) memberKey(n *ast.Member, env *Environment) (interface{}, error) {
	if !n.Computed {
		ident, ok := n.Prop.(*ast.Ident)
		if !ok {
			return nil, fmt.Errorf("invalid attribute access %s", n.String())
		}
		return ident.Name, nil
	}
	return i.evalExpr(n.Prop, env)
}

func (i *Interpreter) evalMember(n *ast.Member, env *Environment) (interface{}, error) {
	obj, err := i.evalExpr(n.X, env)
	if err != nil {
		return nil, err
	}
	if slice, ok := n.Prop.(*ast.Slice); ok && n.Computed {
		return i.evalSlice(obj, slice, env)
	}
	key, err := i.memberKey(n, env)
	if err != nil {
		return nil, err
	}
	return access(obj, key)
}

// access resolves one attribute or index lookup. Missing map keys and
// attributes on undefined values yield Undefined rather than an error;
// out-of-range or mistyped indexing is an error.
func access(obj, key interface{}) (interface{}, error) {
	switch o := obj.(type) {
	case map[string]interface{}:
		name, ok := key.(string)
		if !ok {
			return nil, fmt.Errorf("map keys must be strings (got %s)", typeName(key))
		}
		if v, found := o[name]; found {
			return v, nil
		}
		if method, found := mapMethod(o, name); found {
			return method, nil
		}
		return Undefined{}, nil
	case []interface{}:
		idx, ok := asInt(key)
		if !ok {
			return nil, fmt.Errorf("list index must be an integer (got %s)", typeName(key))
		}
		if idx < 0 {
			idx += int64(len(o))
		}
		if idx < 0 || idx >= int64(len(o)) {
			return nil, fmt.Errorf("list index %d out of range", idx)
		}
		return o[idx], nil
	case string:
		if name, ok := key.(string); ok {
			if method, found := stringMethod(o, name); found {
				return method, nil
			}
			return Undefined{}, nil
		}
		idx, ok := asInt(key)
		if !ok {
			return nil, fmt.Errorf("string index must be an integer (got %s)", typeName(key))
		}
		runes := []rune(o)
		if idx < 0 {
			idx += int64(len(runes))
		}
		if idx < 0 || idx >= int64(len(runes)) {
			return nil, fmt.Errorf("string index %d out of range", idx)
		}
		return string(runes[idx]), nil
	case Undefined, nil:
		return Undefined{}, nil
	}
	return nil, fmt.Errorf("cannot access %v on %s", key, typeName(obj))
}

func (i *Interpreter) evalSlice(obj interface{}, n *ast.Slice, env *Environment) (interface{}, error) {
	start, stop, step, err := i.sliceBounds(n, env)
	if err != nil {
		return nil, err
	}
	switch o := obj.(type) {
	case []interface{}:
		idxs := sliceIndexes(len(o), start, stop, step)
		out := make([]interface{}, 0, len(idxs))
		for _, idx := range idxs {
			out = append(out, o[idx])
		}
		return out, nil
	case string:
		runes := []rune(o)
		idxs := sliceIndexes(len(runes), start, stop, step)
		picked := make([]rune, 0, len(idxs))
		for _, idx := range idxs {
			picked = append(picked, runes[idx])
		}
		return string(picked), nil
	}
	return nil, fmt.Errorf("cannot slice %s", typeName(obj))
}

// sliceBounds evaluates the slice components; nil components stay nil.
func (i *Interpreter) sliceBounds(n *ast.Slice, env *Environment) (start, stop, step *int64, err error) {
	eval := func(e ast.Expr) (*int64, error) {
		if e == nil {
			return nil, nil
		}
		v, err := i.evalExpr(e, env)
		if err != nil {
			return nil, err
		}
		idx, ok := asInt(v)
		if !ok {
			return nil, fmt.Errorf("slice components must be integers (got %s)", typeName(v))
		}
		return &idx, nil
	}
	if start, err = eval(n.Start); err != nil {
		return nil, nil, nil, err
	}
	if stop, err = eval(n.Stop); err != nil {
		return nil, nil, nil, err
	}
	if step, err = eval(n.Step); err != nil {
		return nil, nil, nil, err
	}
	return start, stop, step, nil
}

// sliceIndexes computes the element indexes a start:stop:step slice
// selects, with Python semantics: negative indexes count from the end,
// out-of-range bounds clamp, and a negative step walks backwards.
func sliceIndexes(length int, startp, stopp, stepp *int64) []int64 {
	step := int64(1)
	if stepp != nil && *stepp != 0 {
		step = *stepp
	}
	n := int64(length)

	clamp := func(v, lo, hi int64) int64 {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}
	normalize := func(p *int64, def int64) int64 {
		if p == nil {
			return def
		}
		v := *p
		if v < 0 {
			v += n
		}
		if step > 0 {
			return clamp(v, 0, n)
		}
		return clamp(v, -1, n-1)
	}

	var start, stop int64
	if step > 0 {
		start = normalize(startp, 0)
		stop = normalize(stopp, n)
	} else {
		start = normalize(startp, n-1)
		stop = normalize(stopp, -1)
	}

	var idxs []int64
	if step > 0 {
		for idx := start; idx < stop; idx += step {
			idxs = append(idxs, idx)
		}
	} else {
		for idx := start; idx > stop; idx += step {
			idxs = append(idxs, idx)
		}
	}
	return idxs
}

func (i *Interpreter) evalCall(n *ast.Call, env *Environment) (interface{}, error) {
	callee, err := i.evalExpr(n.Fun, env)
	if err != nil {
		return nil, err
	}
	fn, ok := callee.(Func)
	if !ok {
		return nil, fmt.Errorf("%s is not callable", typeName(callee))
	}
	args, kwargs, err := i.evalArgs(n.Args, env)
	if err != nil {
		return nil, err
	}
	return fn(args, kwargs)
}

// evalArgs splits call arguments into positional values and keyword
// values, preserving order within each group.
func (i *Interpreter) evalArgs(exprs []ast.Expr, env *Environment) ([]interface{}, map[string]interface{}, error) {
	var args []interface{}
	kwargs := map[string]interface{}{}
	for _, expr := range exprs {
		if kw, ok := expr.(*ast.KeywordArg); ok {
			v, err := i.evalExpr(kw.Value, env)
			if err != nil {
				return nil, nil, err
			}
			kwargs[kw.Key.Name] = v
			continue
		}
		v, err := i.evalExpr(expr, env)
		if err != nil {
			return nil, nil, err
		}
		args = append(args, v)
	}
	return args, kwargs, nil
}

func (i *Interpreter) evalFilter(n *ast.Filter, env *Environment) (interface{}, error) {
	value, err := i.evalExpr(n.X, env)
	if err != nil {
		return nil, err
	}
	name, args, kwargs, err := i.evalNamedApplication(n.Name, env)
	if err != nil {
		return nil, err
	}
	filter, ok := i.filters[name]
	if !ok {
		return nil, fmt.Errorf("unknown filter %q", name)
	}
	return filter(value, args, kwargs)
}

func (i *Interpreter) evalTest(n *ast.Test, env *Environment) (interface{}, error) {
	value, err := i.evalExpr(n.X, env)
	if err != nil {
		return nil, err
	}
	name, args, _, err := i.evalNamedApplication(n.Name, env)
	if err != nil {
		return nil, err
	}
	test, ok := i.tests[name]
	if !ok {
		return nil, fmt.Errorf("unknown test %q", name)
	}
	result, err := test(value, args)
	if err != nil {
		return nil, err
	}
	if n.Negate {
		result = !result
	}
	return result, nil
}

// evalNamedApplication resolves a filter or test reference: a bare
// identifier, or an identifier invoked with arguments.
func (i *Interpreter) evalNamedApplication(name ast.Expr, env *Environment) (string, []interface{}, map[string]interface{}, error) {
	switch ref := name.(type) {
	case *ast.Ident:
		return ref.Name, nil, nil, nil
	case *ast.Call:
		ident, ok := ref.Fun.(*ast.Ident)
		if !ok {
			return "", nil, nil, fmt.Errorf("invalid filter or test reference %s", name.String())
		}
		args, kwargs, err := i.evalArgs(ref.Args, env)
		if err != nil {
			return "", nil, nil, err
		}
		return ident.Name, args, kwargs, nil
	}
	return "", nil, nil, fmt.Errorf("invalid filter or test reference %s", name.String())
}
