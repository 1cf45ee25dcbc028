package interp

import (
	"fmt"
	"strings"
)

// stringMethod resolves the builtin methods available on string values.
// Each resolves to a Func bound to the receiver.
func stringMethod(s, name string) (Func, bool) {
	switch name {
	case "upper":
		return noArgs(name, func() interface{} { return strings.ToUpper(s) }), true
	case "lower":
		return noArgs(name, func() interface{} { return strings.ToLower(s) }), true
	case "strip":
		return noArgs(name, func() interface{} { return strings.TrimSpace(s) }), true
	case "title":
		return noArgs(name, func() interface{} { return titleCase(s) }), true
	case "split":
		return func(args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
			sep := " "
			if len(args) > 0 {
				str, ok := args[0].(string)
				if !ok {
					return nil, fmt.Errorf("split separator must be a string (got %s)", typeName(args[0]))
				}
				sep = str
			}
			parts := strings.Split(s, sep)
			out := make([]interface{}, 0, len(parts))
			for _, part := range parts {
				out = append(out, part)
			}
			return out, nil
		}, true
	case "replace":
		return func(args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("replace takes 2 arguments (got %d)", len(args))
			}
			old, ok1 := args[0].(string)
			new_, ok2 := args[1].(string)
			if !ok1 || !ok2 {
				return nil, fmt.Errorf("replace arguments must be strings")
			}
			return strings.ReplaceAll(s, old, new_), nil
		}, true
	case "startswith":
		return oneString(name, func(prefix string) interface{} { return strings.HasPrefix(s, prefix) }), true
	case "endswith":
		return oneString(name, func(suffix string) interface{} { return strings.HasSuffix(s, suffix) }), true
	}
	return nil, false
}

// mapMethod resolves the builtin methods available on map values.
func mapMethod(m map[string]interface{}, name string) (Func, bool) {
	switch name {
	case "get":
		return func(args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
			if len(args) < 1 || len(args) > 2 {
				return nil, fmt.Errorf("get takes 1 or 2 arguments (got %d)", len(args))
			}
			key, ok := args[0].(string)
			if !ok {
				return nil, fmt.Errorf("get key must be a string (got %s)", typeName(args[0]))
			}
			if v, found := m[key]; found {
				return v, nil
			}
			if len(args) == 2 {
				return args[1], nil
			}
			return nil, nil
		}, true
	case "keys":
		return noArgs(name, func() interface{} {
			keys := sortedKeys(m)
			out := make([]interface{}, 0, len(keys))
			for _, k := range keys {
				out = append(out, k)
			}
			return out
		}), true
	case "values":
		return noArgs(name, func() interface{} {
			keys := sortedKeys(m)
			out := make([]interface{}, 0, len(keys))
			for _, k := range keys {
				out = append(out, m[k])
			}
			return out
		}), true
	case "items":
		return noArgs(name, func() interface{} {
			keys := sortedKeys(m)
			out := make([]interface{}, 0, len(keys))
			for _, k := range keys {
				out = append(out, []interface{}{k, m[k]})
			}
			return out
		}), true
	}
	return nil, false
}

func noArgs(name string, fn func() interface{}) Func {
	return func(args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
		if len(args) > 0 || len(kwargs) > 0 {
			return nil, fmt.Errorf("%s takes no arguments", name)
		}
		return fn(), nil
	}
}

func oneString(name string, fn func(string) interface{}) Func {
	return func(args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%s takes 1 argument (got %d)", name, len(args))
		}
		s, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("%s argument must be a string (got %s)", name, typeName(args[0]))
		}
		return fn(s), nil
	}
}

// titleCase uppercases the first letter of each space-separated word and
// lowercases the rest.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[:1])) + strings.ToLower(string(r[1:]))
	}
	return strings.Join(words, " ")
}
