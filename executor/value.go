package executor

import (
	"strconv"

	"github.com/pontaoski/splatgo/ast"
)

// Value is a runtime value. Each variant is tagged with the static type it
// belongs to.
type Value interface {
	is_Value()
	Type() ast.Type
	String() string
}

// Integer is a signed 32-bit integer; arithmetic wraps on overflow.
type Integer int32

type Boolean bool

type String string

func (Integer) is_Value() {}
func (Boolean) is_Value() {}
func (String) is_Value()  {}

func (Integer) Type() ast.Type { return ast.Integer }
func (Boolean) Type() ast.Type { return ast.Boolean }
func (String) Type() ast.Type  { return ast.String }

func (i Integer) String() string { return strconv.FormatInt(int64(i), 10) }
func (b Boolean) String() string { return strconv.FormatBool(bool(b)) }
func (s String) String() string  { return string(s) }

// Zero returns the value a fresh variable of type t starts with.
func Zero(t ast.Type) (Value, bool) {
	switch {
	case t.Equal(ast.Integer):
		return Integer(0), true
	case t.Equal(ast.Boolean):
		return Boolean(false), true
	case t.Equal(ast.String):
		return String(""), true
	}
	return nil, false
}

// parseLiteral turns literal source text into a value. String literals keep
// their quotes in the tree and lose them here.
func parseLiteral(raw string) (Value, bool) {
	switch raw {
	case "true":
		return Boolean(true), true
	case "false":
		return Boolean(false), true
	}
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return String(raw[1 : len(raw)-1]), true
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return nil, false
	}
	return Integer(n), true
}
