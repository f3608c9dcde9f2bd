// Package executor runs an analyzed program by walking its tree, writing
// print output to a single io.Writer.
package executor

import (
	"fmt"
	"io"
	"log"

	"github.com/pontaoski/splatgo/ast"
	"github.com/pontaoski/splatgo/errors"
	"github.com/ztrue/tracerr"
)

type Option func(*Executor)

// WithLogger traces calls and program start and finish to l.
func WithLogger(l *log.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.log = l
		}
	}
}

// WithMaxCallDepth bounds the number of nested calls. Zero means unbounded.
func WithMaxCallDepth(n int) Option {
	return func(e *Executor) {
		e.maxDepth = n
	}
}

type Executor struct {
	out      io.Writer
	log      *log.Logger
	maxDepth int

	funcs map[string]*ast.FunctionDecl
	depth int
}

func New(out io.Writer, opts ...Option) *Executor {
	e := &Executor{
		out: out,
		log: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// outcome is how a block finished. returned is set once a return statement
// ran; value is nil for a bare return.
type outcome struct {
	returned bool
	value    Value
}

func fail(n ast.Node, format string, args ...interface{}) error {
	return errors.ExecutionError{
		Message:  fmt.Sprintf(format, args...),
		Location: n.Pos(),
	}
}

// Run executes prog's body. A fresh function table and environment are
// built on every call, so an Executor can be reused.
func (e *Executor) Run(prog *ast.Program) error {
	if err := e.run(prog); err != nil {
		return tracerr.Wrap(err)
	}
	return nil
}

func (e *Executor) run(prog *ast.Program) error {
	e.funcs = map[string]*ast.FunctionDecl{}
	e.depth = 0

	env := NewEnv()
	for _, decl := range prog.Decls {
		switch d := decl.(type) {
		case *ast.FunctionDecl:
			e.funcs[d.Label] = d
		case *ast.VariableDecl:
			if err := bind(env, d); err != nil {
				return err
			}
		default:
			panic(fmt.Sprintf("unhandled declaration %T", decl))
		}
	}

	e.log.Printf("executing %s: %d function(s)", prog.Pos().Filename, len(e.funcs))

	res, err := e.execStmts(env, prog.Stmts)
	if err != nil {
		return err
	}
	if res.returned {
		return fail(prog, "Internal error: return statement escaped the program body")
	}

	e.log.Printf("finished %s", prog.Pos().Filename)
	return nil
}

// bind seeds v with the zero value of its type.
func bind(env *Env, v *ast.VariableDecl) error {
	zero, ok := Zero(v.Type)
	if !ok {
		return fail(v, "Unknown type: %s", v.Type)
	}
	env.Set(v.Label, zero)
	return nil
}

func (e *Executor) write(s string) error {
	if _, err := io.WriteString(e.out, s); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func (e *Executor) execStmts(env *Env, stmts []ast.Statement) (outcome, error) {
	for _, stmt := range stmts {
		res, err := e.execStmt(env, stmt)
		if err != nil || res.returned {
			return res, err
		}
	}
	return outcome{}, nil
}

func (e *Executor) condition(env *Env, cond ast.Expression) (bool, error) {
	val, err := e.eval(env, cond)
	if err != nil {
		return false, err
	}
	b, ok := val.(Boolean)
	if !ok {
		return false, fail(cond, "Condition must be Boolean")
	}
	return bool(b), nil
}

func (e *Executor) execStmt(env *Env, stmt ast.Statement) (outcome, error) {
	switch s := stmt.(type) {
	case *ast.Assignment:
		if !env.Has(s.Label) {
			return outcome{}, fail(s, "Variable '%s' is not defined", s.Label)
		}
		val, err := e.eval(env, s.Expr)
		if err != nil {
			return outcome{}, err
		}
		env.Set(s.Label, val)
		return outcome{}, nil

	case *ast.IfThen:
		ok, err := e.condition(env, s.Cond)
		if err != nil {
			return outcome{}, err
		}
		if ok {
			return e.execStmts(env, s.Then)
		}
		return e.execStmts(env, s.Else)

	case *ast.WhileLoop:
		for {
			ok, err := e.condition(env, s.Cond)
			if err != nil || !ok {
				return outcome{}, err
			}
			res, err := e.execStmts(env, s.Body)
			if err != nil || res.returned {
				return res, err
			}
		}

	case *ast.Print:
		val, err := e.eval(env, s.Expr)
		if err != nil {
			return outcome{}, err
		}
		return outcome{}, e.write(val.String())

	case *ast.PrintLine:
		return outcome{}, e.write("\n")

	case *ast.Return:
		if s.Expr == nil {
			return outcome{returned: true}, nil
		}
		val, err := e.eval(env, s.Expr)
		if err != nil {
			return outcome{}, err
		}
		return outcome{returned: true, value: val}, nil

	case *ast.FunctionCallStmt:
		_, err := e.call(env, s, s.Label, s.Args)
		return outcome{}, err
	}

	panic(fmt.Sprintf("unhandled statement %T", stmt))
}

// call evaluates args in the caller's environment and runs the callee in a
// fresh one. The returned value is nil when the callee produced none.
func (e *Executor) call(env *Env, n ast.Node, label string, args []ast.Expression) (Value, error) {
	fn, ok := e.funcs[label]
	if !ok {
		return nil, fail(n, "Function '%s' is not defined", label)
	}
	if len(args) != len(fn.Params) {
		return nil, fail(n, "Function '%s' expects %d argument(s), got %d", label, len(fn.Params), len(args))
	}

	vals := make([]Value, len(args))
	for i, arg := range args {
		val, err := e.eval(env, arg)
		if err != nil {
			return nil, err
		}
		vals[i] = val
	}

	e.depth++
	defer func() { e.depth-- }()
	if e.maxDepth > 0 && e.depth > e.maxDepth {
		return nil, fail(n, "Call depth limit of %d exceeded", e.maxDepth)
	}

	local := NewEnv()
	for i, p := range fn.Params {
		local.Set(p.Label, vals[i])
	}
	for _, l := range fn.Locals {
		if err := bind(local, l); err != nil {
			return nil, err
		}
	}

	e.log.Printf("call %s (depth %d)", label, e.depth)

	res, err := e.execStmts(local, fn.Body)
	if err != nil {
		return nil, err
	}
	return res.value, nil
}

func (e *Executor) eval(env *Env, expr ast.Expression) (Value, error) {
	switch x := expr.(type) {
	case *ast.Literal:
		val, ok := parseLiteral(x.Raw)
		if !ok {
			return nil, fail(x, "Invalid literal value: %s", x.Raw)
		}
		return val, nil

	case *ast.Variable:
		val, ok := env.Get(x.Label)
		if !ok {
			return nil, fail(x, "Variable '%s' is not defined", x.Label)
		}
		return val, nil

	case *ast.BinaryOp:
		left, err := e.eval(env, x.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.eval(env, x.Right)
		if err != nil {
			return nil, err
		}
		return binary(x, left, right)

	case *ast.UnaryOp:
		val, err := e.eval(env, x.Operand)
		if err != nil {
			return nil, err
		}
		return unary(x, val)

	case *ast.FunctionCallExpr:
		val, err := e.call(env, x, x.Label, x.Args)
		if err != nil {
			return nil, err
		}
		if val == nil {
			return nil, fail(x, "Function '%s' did not return a value", x.Label)
		}
		return val, nil
	}

	panic(fmt.Sprintf("unhandled expression %T", expr))
}

func unary(x *ast.UnaryOp, val Value) (Value, error) {
	switch x.Op {
	case "not":
		b, ok := val.(Boolean)
		if !ok {
			return nil, fail(x, "Unary operator 'not' requires a Boolean operand")
		}
		return !b, nil
	case "-":
		i, ok := val.(Integer)
		if !ok {
			return nil, fail(x, "Unary operator '-' requires an Integer operand")
		}
		return -i, nil
	}
	return nil, fail(x, "Unknown unary operator: %s", x.Op)
}

// binary applies x.Op to already evaluated operands; both sides are always
// evaluated, so 'and' and 'or' do not short-circuit.
func binary(x *ast.BinaryOp, left, right Value) (Value, error) {
	switch x.Op {
	case "+", "-", "*", "/", "%", ">", "<", ">=", "<=":
		l, lok := left.(Integer)
		r, rok := right.(Integer)
		if !lok || !rok {
			if isComparison(x.Op) {
				return nil, fail(x, "Comparison operator requires Integer operands")
			}
			return nil, fail(x, "Arithmetic operator requires Integer operands")
		}
		return integerOp(x, l, r)

	case "and", "or":
		l, lok := left.(Boolean)
		r, rok := right.(Boolean)
		if !lok || !rok {
			return nil, fail(x, "Logical operator requires Boolean operands")
		}
		if x.Op == "and" {
			return l && r, nil
		}
		return l || r, nil

	case "==":
		if !left.Type().Equal(right.Type()) {
			return nil, fail(x, "Equality operator requires operands of the same type")
		}
		return Boolean(left == right), nil
	}

	return nil, fail(x, "Unknown binary operator: %s", x.Op)
}

func isComparison(op string) bool {
	return op == ">" || op == "<" || op == ">=" || op == "<="
}

func integerOp(x *ast.BinaryOp, l, r Integer) (Value, error) {
	switch x.Op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return nil, fail(x, "Division by zero")
		}
		return l / r, nil
	case "%":
		if r == 0 {
			return nil, fail(x, "Modulo by zero")
		}
		return l % r, nil
	case ">":
		return Boolean(l > r), nil
	case "<":
		return Boolean(l < r), nil
	case ">=":
		return Boolean(l >= r), nil
	case "<=":
		return Boolean(l <= r), nil
	}
	panic("unreachable")
}
