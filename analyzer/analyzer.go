// Package analyzer type-checks a parsed program. It never modifies the tree;
// the first violation found is returned as an errors.SemanticError.
package analyzer

import (
	"fmt"

	"github.com/pontaoski/splatgo/ast"
	"github.com/pontaoski/splatgo/errors"
	"github.com/ztrue/tracerr"
)

// scope is everything a statement can see: the program's functions and the
// variables of the body being checked.
type scope struct {
	funcs map[string]*ast.FunctionDecl
	vars  map[string]ast.Type
}

type Analyzer struct {
	prog   *ast.Program
	funcs  []*ast.FunctionDecl
	global scope
}

func NewAnalyzer(prog *ast.Program) *Analyzer {
	return &Analyzer{prog: prog}
}

// Analyze runs every check on prog.
func Analyze(prog *ast.Program) error {
	return NewAnalyzer(prog).Analyze()
}

func fail(n ast.Node, format string, args ...interface{}) error {
	return errors.SemanticError{
		Message:  fmt.Sprintf(format, args...),
		Location: n.Pos(),
	}
}

func (a *Analyzer) Analyze() error {
	if err := a.analyze(); err != nil {
		return tracerr.Wrap(err)
	}
	return nil
}

func (a *Analyzer) analyze() error {
	if err := a.checkNoDuplicateProgLabels(); err != nil {
		return err
	}

	a.setMaps()

	for _, fn := range a.funcs {
		if err := a.analyzeFuncBody(fn); err != nil {
			return err
		}
	}

	if err := a.checkNoFuncParamNameConflicts(); err != nil {
		return err
	}

	for _, stmt := range a.prog.Stmts {
		if err := checkNoReturn(stmt); err != nil {
			return err
		}
		if err := a.global.checkStmt(stmt); err != nil {
			return err
		}
	}

	for _, fn := range a.funcs {
		sc := scope{funcs: a.global.funcs, vars: localVars(fn)}
		if err := sc.checkReturns(fn, fn.Body); err != nil {
			return err
		}
		if !fn.ReturnType.Equal(ast.Void) && !hasReturn(fn.Body) {
			return fail(fn, "Function '%s' returns %s but has no return statement", fn.Label, fn.ReturnType)
		}
	}

	return nil
}

func (a *Analyzer) checkNoDuplicateProgLabels() error {
	labels := map[string]struct{}{}
	for _, decl := range a.prog.Decls {
		if _, ok := labels[decl.Name()]; ok {
			return fail(decl, "Cannot have duplicate label '%s' in program", decl.Name())
		}
		labels[decl.Name()] = struct{}{}
	}
	return nil
}

func (a *Analyzer) setMaps() {
	a.funcs = nil
	a.global = scope{
		funcs: map[string]*ast.FunctionDecl{},
		vars:  map[string]ast.Type{},
	}

	for _, decl := range a.prog.Decls {
		switch d := decl.(type) {
		case *ast.FunctionDecl:
			a.funcs = append(a.funcs, d)
			a.global.funcs[d.Label] = d
		case *ast.VariableDecl:
			a.global.vars[d.Label] = d.Type
		default:
			panic(fmt.Sprintf("unhandled declaration %T", decl))
		}
	}
}

func localVars(fn *ast.FunctionDecl) map[string]ast.Type {
	vars := map[string]ast.Type{}
	for _, p := range fn.Params {
		vars[p.Label] = p.Type
	}
	for _, l := range fn.Locals {
		vars[l.Label] = l.Type
	}
	return vars
}

func (a *Analyzer) analyzeFuncBody(fn *ast.FunctionDecl) error {
	labels := map[string]struct{}{fn.Label: {}}
	for _, group := range [][]*ast.VariableDecl{fn.Params, fn.Locals} {
		for _, v := range group {
			if _, ok := labels[v.Label]; ok {
				return fail(v, "Cannot have duplicate label '%s' in function '%s'", v.Label, fn.Label)
			}
			labels[v.Label] = struct{}{}
		}
	}

	sc := scope{funcs: a.global.funcs, vars: localVars(fn)}
	for _, stmt := range fn.Body {
		if err := sc.checkStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) checkNoFuncParamNameConflicts() error {
	params := map[string]struct{}{}
	for _, fn := range a.funcs {
		for _, p := range fn.Params {
			params[p.Label] = struct{}{}
		}
	}

	for _, fn := range a.funcs {
		if _, ok := params[fn.Label]; ok {
			return fail(fn, "Function name '%s' conflicts with a parameter name", fn.Label)
		}
	}
	return nil
}

// children returns the statement lists nested directly inside stmt.
func children(stmt ast.Statement) [][]ast.Statement {
	switch s := stmt.(type) {
	case *ast.IfThen:
		return [][]ast.Statement{s.Then, s.Else}
	case *ast.WhileLoop:
		return [][]ast.Statement{s.Body}
	}
	return nil
}

func checkNoReturn(stmt ast.Statement) error {
	if _, ok := stmt.(*ast.Return); ok {
		return fail(stmt, "Return statement not allowed in program body")
	}
	for _, block := range children(stmt) {
		for _, inner := range block {
			if err := checkNoReturn(inner); err != nil {
				return err
			}
		}
	}
	return nil
}

// hasReturn only looks for the presence of a return anywhere in the body,
// not whether every path reaches one.
func hasReturn(stmts []ast.Statement) bool {
	for _, stmt := range stmts {
		if _, ok := stmt.(*ast.Return); ok {
			return true
		}
		for _, block := range children(stmt) {
			if hasReturn(block) {
				return true
			}
		}
	}
	return false
}

func (s scope) checkReturns(fn *ast.FunctionDecl, stmts []ast.Statement) error {
	for _, stmt := range stmts {
		if ret, ok := stmt.(*ast.Return); ok {
			if err := s.checkReturn(fn, ret); err != nil {
				return err
			}
		}
		for _, block := range children(stmt) {
			if err := s.checkReturns(fn, block); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s scope) checkReturn(fn *ast.FunctionDecl, ret *ast.Return) error {
	if fn.ReturnType.Equal(ast.Void) {
		if ret.Expr != nil {
			return fail(ret, "Function '%s' returns void, cannot return a value", fn.Label)
		}
		return nil
	}

	if ret.Expr == nil {
		return fail(ret, "Function '%s' returns %s, must return a value", fn.Label, fn.ReturnType)
	}
	got, err := s.typeOf(ret.Expr)
	if err != nil {
		return err
	}
	if !got.Equal(fn.ReturnType) {
		return fail(ret, "Return type mismatch in function '%s': expected %s, got %s", fn.Label, fn.ReturnType, got)
	}
	return nil
}
