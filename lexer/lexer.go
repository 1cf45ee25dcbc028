// Package lexer turns template source text into a stream of tokens.
//
// The lexer alternates between two modes: text mode, which accumulates
// literal output text, and tag mode, which is entered at "{{" or "{%" and
// tokenizes the expression or statement contents until the matching
// closing delimiter. Comment blocks "{# ... #}" are consumed and produce
// no tokens.
package lexer

import (
	"fmt"
	"strings"

	"github.com/jinnovation/jinja/token"
)

// SyntaxError describes a tokenization failure at a source position.
type SyntaxError struct {
	Message string
	Line    int
	Column  int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s (line %d, column %d)", e.Message, e.Line, e.Column)
}

// Lexer tokenizes one template. It should be used once, via Tokenize.
type Lexer struct {
	input  string
	pos    int
	line   int
	column int
	tokens []token.Token
}

// New returns a Lexer for the given template source.
func New(input string) *Lexer {
	return &Lexer{input: input, line: 1, column: 1}
}

// Tokenize lexes the input and returns the full token stream, terminated
// by an EOF token.
func Tokenize(input string) ([]token.Token, error) {
	return New(input).Tokenize()
}

// Tokenize lexes the entire input. On the first invalid construct it
// returns a *SyntaxError and no tokens.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	for l.pos < len(l.input) {
		if err := l.lexText(); err != nil {
			return nil, err
		}
	}
	l.emit(token.EOF, "")
	return l.tokens, nil
}

// lexText consumes literal text up to the next tag opener, then hands off
// to the appropriate tag handler.
func (l *Lexer) lexText() error {
	rest := l.input[l.pos:]
	idx := len(rest)
	for _, open := range []string{"{{", "{%", "{#"} {
		if i := strings.Index(rest, open); i >= 0 && i < idx {
			idx = i
		}
	}
	if idx > 0 {
		line, column := l.line, l.column
		text := rest[:idx]
		l.advance(len(text))
		l.tokens = append(l.tokens, token.Token{Type: token.TEXT, Literal: text, Line: line, Column: column})
	}
	if l.pos >= len(l.input) {
		return nil
	}
	switch l.input[l.pos : l.pos+2] {
	case "{#":
		return l.lexComment()
	case "{%":
		return l.lexTag(token.OPEN_STMT, "%}", token.CLOSE_STMT)
	default:
		return l.lexTag(token.OPEN_EXPR, "}}", token.CLOSE_EXPR)
	}
}

func (l *Lexer) lexComment() error {
	line, column := l.line, l.column
	end := strings.Index(l.input[l.pos:], "#}")
	if end < 0 {
		return &SyntaxError{Message: "unterminated comment", Line: line, Column: column}
	}
	l.advance(end + 2)
	return nil
}

// lexTag emits the opening delimiter, tokenizes the tag contents, and
// emits the closing delimiter.
func (l *Lexer) lexTag(open token.Type, closer string, closeType token.Type) error {
	openLine, openColumn := l.line, l.column
	l.emit(open, string(open))
	l.advance(2)
	// Open map braces are counted so that the "}" closing a nested map
	// literal is never mistaken for the start of a "}}" tag closer.
	depth := 0
	for {
		l.skipWhitespace()
		if l.pos >= len(l.input) {
			return &SyntaxError{Message: fmt.Sprintf("unterminated %q tag", string(open)), Line: openLine, Column: openColumn}
		}
		if depth == 0 && strings.HasPrefix(l.input[l.pos:], closer) {
			l.emit(closeType, closer)
			l.advance(2)
			return nil
		}
		switch l.input[l.pos] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		}
		if err := l.lexTagToken(); err != nil {
			return err
		}
	}
}

// lexTagToken lexes a single token inside a tag.
func (l *Lexer) lexTagToken() error {
	c := l.input[l.pos]
	switch {
	case c == '\'' || c == '"':
		return l.lexString(c)
	case isDigit(c):
		l.lexNumber()
		return nil
	case isIdentStart(c):
		l.lexIdent()
		return nil
	}
	// Multi-character operators take priority over their prefixes.
	for _, op := range []string{"==", "!=", "<=", ">=", "//"} {
		if strings.HasPrefix(l.input[l.pos:], op) {
			l.emit(token.Type(op), op)
			l.advance(2)
			return nil
		}
	}
	switch c {
	case '<', '>', '+', '-', '*', '/', '%', '~', '|', '.', '[', ']', '(', ')', '{', '}', ',', ':', '=':
		l.emit(token.Type(string(c)), string(c))
		l.advance(1)
		return nil
	}
	return &SyntaxError{Message: fmt.Sprintf("unexpected character %q", c), Line: l.line, Column: l.column}
}

func (l *Lexer) lexString(quote byte) error {
	line, column := l.line, l.column
	l.advance(1)
	var sb strings.Builder
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if c == quote {
			l.advance(1)
			l.tokens = append(l.tokens, token.Token{Type: token.STRING, Literal: sb.String(), Line: line, Column: column})
			return nil
		}
		if c == '\\' {
			if l.pos+1 >= len(l.input) {
				break
			}
			esc := l.input[l.pos+1]
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\\', '\'', '"':
				sb.WriteByte(esc)
			default:
				return &SyntaxError{Message: fmt.Sprintf("invalid escape sequence \\%c", esc), Line: l.line, Column: l.column}
			}
			l.advance(2)
			continue
		}
		sb.WriteByte(c)
		l.advance(1)
	}
	return &SyntaxError{Message: "unterminated string literal", Line: line, Column: column}
}

func (l *Lexer) lexNumber() {
	line, column := l.line, l.column
	start := l.pos
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.advance(1)
	}
	// A decimal point must be followed by a digit; otherwise it is a
	// member access on an integer literal.
	if l.pos+1 < len(l.input) && l.input[l.pos] == '.' && isDigit(l.input[l.pos+1]) {
		l.advance(1)
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.advance(1)
		}
	}
	l.tokens = append(l.tokens, token.Token{Type: token.NUMBER, Literal: l.input[start:l.pos], Line: line, Column: column})
}

func (l *Lexer) lexIdent() {
	line, column := l.line, l.column
	start := l.pos
	for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
		l.advance(1)
	}
	literal := l.input[start:l.pos]
	l.tokens = append(l.tokens, token.Token{
		Type:    token.LookupIdent(literal),
		Literal: literal,
		Line:    line,
		Column:  column,
	})
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\r', '\n':
			l.advance(1)
		default:
			return
		}
	}
}

// emit appends a token positioned at the current cursor.
func (l *Lexer) emit(t token.Type, literal string) {
	l.tokens = append(l.tokens, token.Token{Type: t, Literal: literal, Line: l.line, Column: l.column})
}

// advance moves the cursor forward n bytes, updating line and column.
func (l *Lexer) advance(n int) {
	for i := 0; i < n && l.pos < len(l.input); i++ {
		if l.input[l.pos] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.pos++
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
