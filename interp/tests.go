package interp

import "fmt"

// builtinTests returns the default test registry used by "is"
// expressions.
func builtinTests() map[string]TestFunc {
	return map[string]TestFunc{
		"defined": func(v interface{}, args []interface{}) (bool, error) {
			_, isUndefined := v.(Undefined)
			return !isUndefined, nil
		},
		"undefined": func(v interface{}, args []interface{}) (bool, error) {
			_, isUndefined := v.(Undefined)
			return isUndefined, nil
		},
		"none": func(v interface{}, args []interface{}) (bool, error) {
			return v == nil, nil
		},
		"boolean": func(v interface{}, args []interface{}) (bool, error) {
			_, ok := v.(bool)
			return ok, nil
		},
		"string": func(v interface{}, args []interface{}) (bool, error) {
			_, ok := v.(string)
			return ok, nil
		},
		"number": func(v interface{}, args []interface{}) (bool, error) {
			_, ok := asFloat(v)
			return ok, nil
		},
		"integer": func(v interface{}, args []interface{}) (bool, error) {
			_, ok := asInt(v)
			return ok, nil
		},
		"float": func(v interface{}, args []interface{}) (bool, error) {
			_, ok := v.(float64)
			return ok, nil
		},
		"iterable": func(v interface{}, args []interface{}) (bool, error) {
			switch v.(type) {
			case string, []interface{}, map[string]interface{}:
				return true, nil
			}
			return false, nil
		},
		"mapping": func(v interface{}, args []interface{}) (bool, error) {
			_, ok := v.(map[string]interface{})
			return ok, nil
		},
		"even": func(v interface{}, args []interface{}) (bool, error) {
			i, ok := asInt(v)
			if !ok {
				return false, fmt.Errorf("'even' requires an integer (got %s)", typeName(v))
			}
			return i%2 == 0, nil
		},
		"odd": func(v interface{}, args []interface{}) (bool, error) {
			i, ok := asInt(v)
			if !ok {
				return false, fmt.Errorf("'odd' requires an integer (got %s)", typeName(v))
			}
			return i%2 != 0, nil
		},
		"divisibleby": func(v interface{}, args []interface{}) (bool, error) {
			i, ok := asInt(v)
			if !ok {
				return false, fmt.Errorf("'divisibleby' requires an integer (got %s)", typeName(v))
			}
			if len(args) != 1 {
				return false, fmt.Errorf("'divisibleby' takes 1 argument (got %d)", len(args))
			}
			d, ok := asInt(args[0])
			if !ok {
				return false, fmt.Errorf("'divisibleby' argument must be an integer (got %s)", typeName(args[0]))
			}
			if d == 0 {
				return false, fmt.Errorf("'divisibleby' argument must not be zero")
			}
			return i%d == 0, nil
		},
		"eq": func(v interface{}, args []interface{}) (bool, error) {
			if len(args) != 1 {
				return false, fmt.Errorf("'eq' takes 1 argument (got %d)", len(args))
			}
			return Equal(v, args[0]), nil
		},
		"ne": func(v interface{}, args []interface{}) (bool, error) {
			if len(args) != 1 {
				return false, fmt.Errorf("'ne' takes 1 argument (got %d)", len(args))
			}
			return !Equal(v, args[0]), nil
		},
		"lt": testComparing(func(c int) bool { return c < 0 }),
		"le": testComparing(func(c int) bool { return c <= 0 }),
		"gt": testComparing(func(c int) bool { return c > 0 }),
		"ge": testComparing(func(c int) bool { return c >= 0 }),
	}
}

func testComparing(check func(int) bool) TestFunc {
	return func(v interface{}, args []interface{}) (bool, error) {
		if len(args) != 1 {
			return false, fmt.Errorf("comparison test takes 1 argument (got %d)", len(args))
		}
		c, err := compare(v, args[0])
		if err != nil {
			return false, err
		}
		return check(c), nil
	}
}
