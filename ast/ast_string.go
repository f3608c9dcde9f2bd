package ast

import (
	"fmt"
	"strings"
)

const indent = "   "

func writeStmts(b *strings.Builder, stmts []Statement, depth int) {
	for _, s := range stmts {
		for _, line := range strings.Split(s.String(), "\n") {
			b.WriteString(strings.Repeat(indent, depth))
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
}

func joinExprs(args []Expression) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}

func (p *Program) String() string {
	var b strings.Builder
	b.WriteString("program\n")
	for _, d := range p.Decls {
		for _, line := range strings.Split(d.String(), "\n") {
			b.WriteString(indent + line + "\n")
		}
	}
	b.WriteString("begin\n")
	writeStmts(&b, p.Stmts, 1)
	b.WriteString("end ;\n")
	return b.String()
}

func (v *VariableDecl) String() string {
	return fmt.Sprintf("%s : %s ;", v.Label, v.Type)
}

func (f *FunctionDecl) String() string {
	var b strings.Builder
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = fmt.Sprintf("%s : %s", p.Label, p.Type)
	}
	fmt.Fprintf(&b, "%s(%s) : %s is\n", f.Label, strings.Join(params, ", "), f.ReturnType)
	for _, l := range f.Locals {
		b.WriteString(indent + l.String() + "\n")
	}
	b.WriteString("begin\n")
	writeStmts(&b, f.Body, 1)
	b.WriteString("end ;")
	return b.String()
}

func (a *Assignment) String() string {
	return fmt.Sprintf("%s := %s ;", a.Label, a.Expr)
}

func (i *IfThen) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "if %s then\n", i.Cond)
	writeStmts(&b, i.Then, 1)
	if i.Else != nil {
		b.WriteString("else\n")
		writeStmts(&b, i.Else, 1)
	}
	b.WriteString("end if ;")
	return b.String()
}

func (w *WhileLoop) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "while %s do\n", w.Cond)
	writeStmts(&b, w.Body, 1)
	b.WriteString("end while ;")
	return b.String()
}

func (p *Print) String() string {
	return fmt.Sprintf("print %s ;", p.Expr)
}

func (p *PrintLine) String() string {
	return "print_line ;"
}

func (r *Return) String() string {
	if r.Expr == nil {
		return "return ;"
	}
	return fmt.Sprintf("return %s ;", r.Expr)
}

func (f *FunctionCallStmt) String() string {
	return fmt.Sprintf("%s(%s) ;", f.Label, joinExprs(f.Args))
}

func (l *Literal) String() string {
	return l.Raw
}

func (v *Variable) String() string {
	return v.Label
}

func (b *BinaryOp) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

func (u *UnaryOp) String() string {
	return fmt.Sprintf("(%s %s)", u.Op, u.Operand)
}

func (f *FunctionCallExpr) String() string {
	return fmt.Sprintf("%s(%s)", f.Label, joinExprs(f.Args))
}
