package parser

import (
	"fmt"

	"github.com/jinnovation/jinja/token"
)

// ErrKind identifies the category of a parse failure. The set is closed;
// tests and callers can switch on it.
type ErrKind string

const (
	ErrUnexpectedToken       ErrKind = "unexpected token"
	ErrExpectedToken         ErrKind = "expected token"
	ErrInvalidLoopVariable   ErrKind = "invalid loop variable"
	ErrInvalidKeywordArg     ErrKind = "invalid keyword argument"
	ErrInvalidTestName       ErrKind = "invalid test name"
	ErrInvalidFilterName     ErrKind = "invalid filter name"
	ErrInvalidPropertyAccess ErrKind = "invalid property access"
	ErrMalformedSlice        ErrKind = "malformed slice"
	ErrEmptyIndexExpression  ErrKind = "empty index expression"
)

// SyntaxError is the error type returned for every parse failure.
// Parsing is fail-fast: the first structural violation aborts the parse
// and no partial tree is returned.
type SyntaxError struct {
	Kind    ErrKind
	Message string
	// Expected is set when Kind is ErrExpectedToken.
	Expected token.Type
	// Actual is the token type the parser encountered.
	Actual token.Type
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s (line %d, column %d)", e.Message, e.Line, e.Column)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

// newError builds a SyntaxError positioned at the given token.
func newError(kind ErrKind, tok token.Token, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Actual:  tok.Type,
		Line:    tok.Line,
		Column:  tok.Column,
	}
}

// expectedError reports that a required token was absent, carrying both
// the expected and actual token types for diagnostics.
func expectedError(expected token.Type, got token.Token, context string) *SyntaxError {
	return &SyntaxError{
		Kind:     ErrExpectedToken,
		Message:  fmt.Sprintf("unexpected %s while parsing %s (expected %s)", describe(got), context, string(expected)),
		Expected: expected,
		Actual:   got.Type,
		Line:     got.Line,
		Column:   got.Column,
	}
}

// describe renders a token for an error message.
func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of template"
	case token.TEXT:
		return "template text"
	}
	if tok.Literal != "" && tok.Literal != string(tok.Type) {
		return fmt.Sprintf("%s %q", string(tok.Type), tok.Literal)
	}
	return fmt.Sprintf("%q", tok.Literal)
}
