package analyzer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pontaoski/splatgo/ast"
)

func (s scope) checkStmts(stmts []ast.Statement) error {
	for _, stmt := range stmts {
		if err := s.checkStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s scope) checkCondition(cond ast.Expression, where string) error {
	t, err := s.typeOf(cond)
	if err != nil {
		return err
	}
	if !t.Equal(ast.Boolean) {
		return fail(cond, "Condition in %s must be Boolean, got %s", where, t)
	}
	return nil
}

func (s scope) checkStmt(stmt ast.Statement) error {
	switch st := stmt.(type) {
	case *ast.Assignment:
		varType, ok := s.vars[st.Label]
		if !ok {
			return fail(st, "Variable '%s' is not declared", st.Label)
		}
		exprType, err := s.typeOf(st.Expr)
		if err != nil {
			return err
		}
		if !varType.Equal(exprType) {
			return fail(st, "Type mismatch: cannot assign %s to variable '%s' of type %s", exprType, st.Label, varType)
		}
		return nil

	case *ast.IfThen:
		if err := s.checkCondition(st.Cond, "if statement"); err != nil {
			return err
		}
		if err := s.checkStmts(st.Then); err != nil {
			return err
		}
		return s.checkStmts(st.Else)

	case *ast.WhileLoop:
		if err := s.checkCondition(st.Cond, "while loop"); err != nil {
			return err
		}
		return s.checkStmts(st.Body)

	case *ast.Print:
		_, err := s.typeOf(st.Expr)
		return err

	case *ast.PrintLine:
		return nil

	case *ast.Return:
		if st.Expr == nil {
			return nil
		}
		_, err := s.typeOf(st.Expr)
		return err

	case *ast.FunctionCallStmt:
		_, err := s.checkCall(st, st.Label, st.Args)
		return err
	}

	panic(fmt.Sprintf("unhandled statement %T", stmt))
}

func (s scope) checkCall(n ast.Node, label string, args []ast.Expression) (ast.Type, error) {
	fn, ok := s.funcs[label]
	if !ok {
		return ast.Type{}, fail(n, "Function '%s' is not declared", label)
	}

	if len(args) != len(fn.Params) {
		return ast.Type{}, fail(n, "Function '%s' expects %d argument(s), got %d", label, len(fn.Params), len(args))
	}

	for i, arg := range args {
		argType, err := s.typeOf(arg)
		if err != nil {
			return ast.Type{}, err
		}
		want := fn.Params[i].Type
		if !argType.Equal(want) {
			return ast.Type{}, fail(arg, "Type mismatch in argument %d of function '%s': expected %s, got %s", i+1, label, want, argType)
		}
	}

	return fn.ReturnType, nil
}

func literalType(raw string) (ast.Type, bool) {
	switch {
	case raw == "true" || raw == "false":
		return ast.Boolean, true
	case len(raw) >= 2 && strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`):
		return ast.String, true
	}
	if _, err := strconv.ParseInt(raw, 10, 32); err == nil {
		return ast.Integer, true
	}
	return ast.Type{}, false
}

func (s scope) typeOf(expr ast.Expression) (ast.Type, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		t, ok := literalType(e.Raw)
		if !ok {
			return ast.Type{}, fail(e, "Invalid literal value: %s", e.Raw)
		}
		return t, nil

	case *ast.Variable:
		t, ok := s.vars[e.Label]
		if !ok {
			return ast.Type{}, fail(e, "Variable '%s' is not declared", e.Label)
		}
		return t, nil

	case *ast.BinaryOp:
		return s.binaryType(e)

	case *ast.UnaryOp:
		t, err := s.typeOf(e.Operand)
		if err != nil {
			return ast.Type{}, err
		}
		var want ast.Type
		switch e.Op {
		case "not":
			want = ast.Boolean
		case "-":
			want = ast.Integer
		default:
			return ast.Type{}, fail(e, "Unknown unary operator: %s", e.Op)
		}
		if !t.Equal(want) {
			return ast.Type{}, fail(e, "Unary operator '%s' requires %s operand, got %s", e.Op, want, t)
		}
		return want, nil

	case *ast.FunctionCallExpr:
		return s.checkCall(e, e.Label, e.Args)
	}

	panic(fmt.Sprintf("unhandled expression %T", expr))
}

func (s scope) binaryType(e *ast.BinaryOp) (ast.Type, error) {
	left, err := s.typeOf(e.Left)
	if err != nil {
		return ast.Type{}, err
	}
	right, err := s.typeOf(e.Right)
	if err != nil {
		return ast.Type{}, err
	}

	both := func(kind string, want, result ast.Type) (ast.Type, error) {
		if !left.Equal(want) || !right.Equal(want) {
			return ast.Type{}, fail(e, "%s operator '%s' requires %s operands, got %s and %s", kind, e.Op, want, left, right)
		}
		return result, nil
	}

	switch e.Op {
	case "+", "-", "*", "/", "%":
		return both("Arithmetic", ast.Integer, ast.Integer)
	case ">", "<", ">=", "<=":
		return both("Comparison", ast.Integer, ast.Boolean)
	case "and", "or":
		return both("Logical", ast.Boolean, ast.Boolean)
	case "==":
		if !left.Equal(right) {
			return ast.Type{}, fail(e, "Equality operator '==' requires operands of the same type, got %s and %s", left, right)
		}
		if !left.Equal(ast.Integer) && !left.Equal(ast.Boolean) {
			return ast.Type{}, fail(e, "Equality operator '==' requires Integer or Boolean operands, got %s", left)
		}
		return ast.Boolean, nil
	}

	return ast.Type{}, fail(e, "Unknown binary operator: %s", e.Op)
}
