// Package jinja implements a minimal, safe subset of the Jinja template
// language: if/elif/else, for, set, and a full expression language with
// filters, tests, member access, slicing, and keyword arguments. It is
// intended for generating prompts and other formatted text from a data
// context without executing arbitrary host code.
package jinja

import (
	"github.com/jinnovation/jinja/ast"
	"github.com/jinnovation/jinja/interp"
	"github.com/jinnovation/jinja/lexer"
	"github.com/jinnovation/jinja/parser"
)

// Template is a parsed, reusable template. The underlying AST is
// immutable, so one Template may be rendered concurrently from multiple
// goroutines.
type Template struct {
	prog *ast.Program
	in   *interp.Interpreter
}

// Parse tokenizes and parses template source.
func Parse(source string) (*Template, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	prog, err := parser.Parse(tokens)
	if err != nil {
		return nil, err
	}
	return &Template{prog: prog, in: interp.New()}, nil
}

// Program exposes the template's syntax tree.
func (t *Template) Program() *ast.Program {
	return t.prog
}

// Render evaluates the template against the given variables. Each call
// uses a fresh environment; the data map itself is not mutated unless
// the template assigns into one of its nested maps.
func (t *Template) Render(data map[string]interface{}) (string, error) {
	return t.in.Render(t.prog, interp.NewEnvironment(data).Child())
}

// Render is a one-shot helper that parses and renders in a single call.
func Render(source string, data map[string]interface{}) (string, error) {
	tmpl, err := Parse(source)
	if err != nil {
		return "", err
	}
	return tmpl.Render(data)
}
