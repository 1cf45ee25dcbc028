package interp

// Environment holds the variables visible while rendering, as a chain of
// lexical scopes. Lookups walk outward; Set always writes the innermost
// scope, so loop bodies cannot clobber outer bindings.
type Environment struct {
	vars   map[string]interface{}
	parent *Environment
}

// NewEnvironment returns a root scope seeded with the given variables.
// The map is not copied; callers should not mutate it while rendering.
func NewEnvironment(vars map[string]interface{}) *Environment {
	if vars == nil {
		vars = map[string]interface{}{}
	}
	return &Environment{vars: vars}
}

// Child returns a new innermost scope on top of e.
func (e *Environment) Child() *Environment {
	return &Environment{vars: map[string]interface{}{}, parent: e}
}

// Lookup resolves a name, walking outward through enclosing scopes.
func (e *Environment) Lookup(name string) (interface{}, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set binds a name in the innermost scope.
func (e *Environment) Set(name string, value interface{}) {
	e.vars[name] = value
}
