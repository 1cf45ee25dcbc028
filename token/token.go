// Package token defines the token types produced when lexing template source.
package token

// Type describes the type of a token as a string.
type Type string

// Token represents one token lexed from template source. Line and Column
// are 1-based and refer to the first character of the token.
type Token struct {
	Type    Type
	Literal string
	Line    int
	Column  int
}

// Token types
const (
	TEXT = "TEXT"

	OPEN_STMT  = "{%"
	CLOSE_STMT = "%}"
	OPEN_EXPR  = "{{"
	CLOSE_EXPR = "}}"

	SET    = "SET"
	IF     = "IF"
	ELIF   = "ELIF"
	ELSE   = "ELSE"
	ENDIF  = "ENDIF"
	FOR    = "FOR"
	ENDFOR = "ENDFOR"
	IN     = "IN"
	IS     = "IS"
	NOT    = "NOT"
	AND    = "AND"
	OR     = "OR"

	NUMBER = "NUMBER"
	STRING = "STRING"
	TRUE   = "TRUE"
	FALSE  = "FALSE"
	IDENT  = "IDENT"

	EQ          = "=="
	NOT_EQ      = "!="
	LT          = "<"
	GT          = ">"
	LT_EQUALS   = "<="
	GT_EQUALS   = ">="
	PLUS        = "+"
	MINUS       = "-"
	ASTERISK    = "*"
	SLASH       = "/"
	SLASH_SLASH = "//"
	MOD         = "%"
	TILDE       = "~"
	PIPE        = "|"
	PERIOD      = "."
	LBRACKET    = "["
	RBRACKET    = "]"
	LPAREN      = "("
	RPAREN      = ")"
	LBRACE      = "{"
	RBRACE      = "}"
	COMMA       = ","
	COLON       = ":"
	ASSIGN      = "="
	EOF         = "EOF"
)

// Reserved words recognized inside tags. The Python-style capitalized
// booleans are accepted as aliases.
var keywords = map[string]Type{
	"set":    SET,
	"if":     IF,
	"elif":   ELIF,
	"else":   ELSE,
	"endif":  ENDIF,
	"for":    FOR,
	"endfor": ENDFOR,
	"in":     IN,
	"is":     IS,
	"not":    NOT,
	"and":    AND,
	"or":     OR,
	"true":   TRUE,
	"True":   TRUE,
	"false":  FALSE,
	"False":  FALSE,
}

// LookupIdent determines whether an identifier is a reserved word.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
