package types

import (
	"fmt"
)

type Position struct {
	Line     int
	Column   int
	Filename string
}

type TokenKind int

const (
	ILLEGAL TokenKind = iota

	IDENT
	KEYWORD

	INT
	STRING

	OPERATOR
	DELIMITER
)

func (t TokenKind) String() string {
	data := map[TokenKind]string{
		ILLEGAL:   "ILLEGAL",
		IDENT:     "IDENT",
		KEYWORD:   "KEYWORD",
		INT:       "INT",
		STRING:    "STRING",
		OPERATOR:  "OPERATOR",
		DELIMITER: "DELIMITER",
	}
	return data[t]
}

func (p Position) String() string {
	if p.Filename == "" {
		p.Filename = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

type Token struct {
	Kind     TokenKind
	Value    string
	Location Position
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%s, %d, %d)", t.Value, t.Location.Line, t.Location.Column)
}

var keywords = map[string]struct{}{
	"program":    {},
	"begin":      {},
	"end":        {},
	"if":         {},
	"then":       {},
	"else":       {},
	"while":      {},
	"do":         {},
	"print":      {},
	"print_line": {},
	"return":     {},
	"is":         {},
	"void":       {},
	"Integer":    {},
	"Boolean":    {},
	"String":     {},
	"true":       {},
	"false":      {},
	"and":        {},
	"or":         {},
	"not":        {},
}

// IsKeyword reports whether s is reserved and so can't be used as a label.
func IsKeyword(s string) bool {
	_, ok := keywords[s]
	return ok
}
