package interp

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// builtinFilters returns the default filter registry. Filter names are
// resolved at render time; the parser accepts any identifier in filter
// position.
func builtinFilters() map[string]FilterFunc {
	return map[string]FilterFunc{
		"upper": stringFilter(strings.ToUpper),
		"lower": stringFilter(strings.ToLower),
		"title": stringFilter(titleCase),
		"trim":  stringFilter(strings.TrimSpace),
		"capitalize": stringFilter(func(s string) string {
			if s == "" {
				return s
			}
			r := []rune(s)
			return strings.ToUpper(string(r[:1])) + strings.ToLower(string(r[1:]))
		}),
		"length":  filterLength,
		"count":   filterLength,
		"first":   filterFirst,
		"last":    filterLast,
		"reverse": filterReverse,
		"sort":    filterSort,
		"join":    filterJoin,
		"default": filterDefault,
		"unique":  filterUnique,
		"abs":     filterAbs,
		"int":     filterInt,
		"float":   filterFloat,
		"string": func(v interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
			return Stringify(v), nil
		},
	}
}

func stringFilter(fn func(string) string) FilterFunc {
	return func(v interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string (got %s)", typeName(v))
		}
		return fn(s), nil
	}
}

func filterLength(v interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	switch val := v.(type) {
	case string:
		return int64(len([]rune(val))), nil
	case []interface{}:
		return int64(len(val)), nil
	case map[string]interface{}:
		return int64(len(val)), nil
	}
	return nil, fmt.Errorf("%s has no length", typeName(v))
}

func filterFirst(v interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	items, err := iterate(v)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return Undefined{}, nil
	}
	return items[0], nil
}

func filterLast(v interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	items, err := iterate(v)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return Undefined{}, nil
	}
	return items[len(items)-1], nil
}

func filterReverse(v interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if s, ok := v.(string); ok {
		runes := []rune(s)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return string(runes), nil
	}
	items, err := iterate(v)
	if err != nil {
		return nil, err
	}
	out := make([]interface{}, len(items))
	for i, item := range items {
		out[len(items)-1-i] = item
	}
	return out, nil
}

func filterSort(v interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	items, err := iterate(v)
	if err != nil {
		return nil, err
	}
	out := make([]interface{}, len(items))
	copy(out, items)
	var sortErr error
	sort.SliceStable(out, func(i, j int) bool {
		c, err := compare(out[i], out[j])
		if err != nil && sortErr == nil {
			sortErr = err
		}
		return c < 0
	})
	if sortErr != nil {
		return nil, sortErr
	}
	if reverse, ok := kwargs["reverse"]; ok && Truthy(reverse) {
		return filterReverse(out, nil, nil)
	}
	return out, nil
}

func filterJoin(v interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	items, err := iterate(v)
	if err != nil {
		return nil, err
	}
	sep := ""
	if len(args) > 0 {
		s, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("join separator must be a string (got %s)", typeName(args[0]))
		}
		sep = s
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, Stringify(item))
	}
	return strings.Join(parts, sep), nil
}

// filterDefault substitutes a fallback for undefined values. With
// boolean=true (or a second truthy argument) any falsy value is
// replaced, matching Jinja's default filter.
func filterDefault(v interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("default requires a fallback argument")
	}
	falsy := false
	if len(args) > 1 {
		falsy = Truthy(args[1])
	}
	if b, ok := kwargs["boolean"]; ok {
		falsy = Truthy(b)
	}
	if _, isUndefined := v.(Undefined); isUndefined || (falsy && !Truthy(v)) {
		return args[0], nil
	}
	return v, nil
}

func filterUnique(v interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	items, err := iterate(v)
	if err != nil {
		return nil, err
	}
	var out []interface{}
	for _, item := range items {
		seen := false
		for _, kept := range out {
			if Equal(item, kept) {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, item)
		}
	}
	return out, nil
}

func filterAbs(v interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if i, ok := asInt(v); ok {
		if i < 0 {
			return -i, nil
		}
		return i, nil
	}
	if f, ok := asFloat(v); ok {
		return math.Abs(f), nil
	}
	return nil, fmt.Errorf("expected a number (got %s)", typeName(v))
}

func filterInt(v interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	switch val := v.(type) {
	case int64:
		return val, nil
	case int:
		return int64(val), nil
	case float64:
		return int64(val), nil
	case bool:
		if val {
			return int64(1), nil
		}
		return int64(0), nil
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64); err == nil {
			return i, nil
		}
	}
	if len(args) > 0 {
		return args[0], nil
	}
	return int64(0), nil
}

func filterFloat(v interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if f, ok := asFloat(v); ok {
		return f, nil
	}
	if s, ok := v.(string); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, nil
		}
	}
	if len(args) > 0 {
		return args[0], nil
	}
	return float64(0), nil
}
