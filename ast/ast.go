// Package ast holds the syntax tree produced by the parser. Nodes are built
// once and never mutated afterwards.
package ast

//go:generate sh -c "cd ../tool && go run . ../ast/nodes.adt ../ast/nodes_gen.go ast"

import "github.com/pontaoski/splatgo/types"

type Node interface {
	Pos() types.Position
	String() string
}

// Labeled is implemented by declarations, which introduce a name.
type Labeled interface {
	Name() string
}

// Base carries the token that began a node. BinaryOp and UnaryOp are the
// exception: they carry their operator token, not the opening parenthesis.
type Base struct {
	Tok types.Token
}

func (b Base) Pos() types.Position {
	return b.Tok.Location
}

type Type struct {
	Name string
}

var (
	Integer = Type{"Integer"}
	Boolean = Type{"Boolean"}
	String  = Type{"String"}
	Void    = Type{"void"}
)

func (t Type) Equal(o Type) bool {
	return t.Name == o.Name
}

func (t Type) String() string {
	return t.Name
}

type Program struct {
	Base
	Decls []Declaration
	Stmts []Statement
}

type VariableDecl struct {
	Base
	Label string
	Type  Type
}

func (v *VariableDecl) Name() string { return v.Label }

type FunctionDecl struct {
	Base
	Label      string
	Params     []*VariableDecl
	ReturnType Type
	Locals     []*VariableDecl
	Body       []Statement
}

func (f *FunctionDecl) Name() string { return f.Label }

type Assignment struct {
	Base
	Label string
	Expr  Expression
}

// IfThen has a nil Else when the source had no else branch.
type IfThen struct {
	Base
	Cond Expression
	Then []Statement
	Else []Statement
}

type WhileLoop struct {
	Base
	Cond Expression
	Body []Statement
}

type Print struct {
	Base
	Expr Expression
}

type PrintLine struct {
	Base
}

// Return has a nil Expr for a bare "return ;".
type Return struct {
	Base
	Expr Expression
}

type FunctionCallStmt struct {
	Base
	Label string
	Args  []Expression
}

// Literal keeps the raw token text; strings include their quotes.
type Literal struct {
	Base
	Raw string
}

type Variable struct {
	Base
	Label string
}

type BinaryOp struct {
	Base
	Left  Expression
	Op    string
	Right Expression
}

type UnaryOp struct {
	Base
	Op      string
	Operand Expression
}

type FunctionCallExpr struct {
	Base
	Label string
	Args  []Expression
}
