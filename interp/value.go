package interp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Undefined is the value of a name that is not bound in the environment
// and of a missing attribute. It is distinct from nil: nil is an
// explicit null, Undefined marks absence.
type Undefined struct{}

func (Undefined) String() string { return "" }

// Func is the signature for callable values: builtins exposed through
// the render context, filters invoked as functions, and the like.
type Func func(args []interface{}, kwargs map[string]interface{}) (interface{}, error)

// Truthy reports template truthiness: nil, Undefined, false, zero
// numbers, and empty strings, lists, and maps are false.
func Truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil, Undefined:
		return false
	case bool:
		return val
	case int64:
		return val != 0
	case int:
		return val != 0
	case float64:
		return val != 0
	case string:
		return val != ""
	case []interface{}:
		return len(val) > 0
	case map[string]interface{}:
		return len(val) > 0
	}
	return true
}

// Stringify renders a value as template output. Undefined and nil render
// as the empty string.
func Stringify(v interface{}) string {
	switch val := v.(type) {
	case nil, Undefined:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case float64:
		return formatFloat(val)
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, repr(item))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]interface{}:
		keys := sortedKeys(val)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, strconv.Quote(k)+": "+repr(val[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return fmt.Sprintf("%v", v)
}

// repr is like Stringify except strings are quoted, as happens for
// elements inside rendered lists and maps.
func repr(v interface{}) string {
	if s, ok := v.(string); ok {
		return strconv.Quote(s)
	}
	return Stringify(v)
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	// Keep a decimal marker so floats remain distinguishable from ints.
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// asFloat converts any numeric value to float64.
func asFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case int64:
		return float64(val), true
	case int:
		return float64(val), true
	case float64:
		return val, true
	}
	return 0, false
}

// asInt converts integral values to int64.
func asInt(v interface{}) (int64, bool) {
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	}
	return 0, false
}

// Equal implements loose template equality: numbers compare numerically
// across int and float, everything else compares by kind and value.
func Equal(a, b interface{}) bool {
	if af, ok := asFloat(a); ok {
		if bf, ok := asFloat(b); ok {
			return af == bf
		}
		return false
	}
	switch av := a.(type) {
	case nil:
		_, bu := b.(Undefined)
		return b == nil || bu
	case Undefined:
		_, bu := b.(Undefined)
		return b == nil || bu
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case []interface{}:
		bv, ok := b.([]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]interface{}:
		bv, ok := b.(map[string]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bval, ok := bv[k]
			if !ok || !Equal(v, bval) {
				return false
			}
		}
		return true
	}
	return false
}

// compare orders two values, returning <0, 0, or >0. Only numbers and
// strings are ordered.
func compare(a, b interface{}) (int, error) {
	if af, ok := asFloat(a); ok {
		if bf, ok := asFloat(b); ok {
			switch {
			case af < bf:
				return -1, nil
			case af > bf:
				return 1, nil
			}
			return 0, nil
		}
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return strings.Compare(as, bs), nil
		}
	}
	return 0, fmt.Errorf("cannot compare %s with %s", typeName(a), typeName(b))
}

// contains implements the "in" operator for strings, lists, and maps.
func contains(item, container interface{}) (bool, error) {
	switch c := container.(type) {
	case string:
		s, ok := item.(string)
		if !ok {
			return false, fmt.Errorf("'in' on a string requires a string operand (got %s)", typeName(item))
		}
		return strings.Contains(c, s), nil
	case []interface{}:
		for _, elem := range c {
			if Equal(item, elem) {
				return true, nil
			}
		}
		return false, nil
	case map[string]interface{}:
		key, ok := item.(string)
		if !ok {
			return false, fmt.Errorf("'in' on a map requires a string operand (got %s)", typeName(item))
		}
		_, found := c[key]
		return found, nil
	}
	return false, fmt.Errorf("'in' is not supported on %s", typeName(container))
}

func typeName(v interface{}) string {
	switch v.(type) {
	case nil:
		return "none"
	case Undefined:
		return "undefined"
	case bool:
		return "bool"
	case int64, int:
		return "int"
	case float64:
		return "float"
	case string:
		return "string"
	case []interface{}:
		return "list"
	case map[string]interface{}:
		return "map"
	case Func:
		return "function"
	}
	return fmt.Sprintf("%T", v)
}
