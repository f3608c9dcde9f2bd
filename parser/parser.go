package parser

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/pontaoski/splatgo/ast"
	"github.com/pontaoski/splatgo/errors"
	"github.com/pontaoski/splatgo/types"
	"github.com/ztrue/tracerr"
)

// Parser walks a token slice front to back. The slice itself is never
// modified, so lookahead is just indexing past the cursor.
type Parser struct {
	tokens []types.Token
	cur    int
}

func NewParser(tokens []types.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) fail(tok types.Token, format string, args ...interface{}) {
	panic(errors.ParseError{
		Message:  fmt.Sprintf(format, args...),
		Location: tok.Location,
	})
}

// eofPos is just past the last token, or 1:1 for empty input.
func (p *Parser) eofPos() types.Position {
	if len(p.tokens) == 0 {
		return types.Position{Line: 1, Column: 1}
	}
	last := p.tokens[len(p.tokens)-1]
	pos := last.Location
	pos.Column += len([]rune(last.Value))
	return pos
}

func (p *Parser) atEnd() bool {
	return p.cur >= len(p.tokens)
}

func (p *Parser) peek() types.Token {
	if p.atEnd() {
		panic(errors.ParseError{
			Message:  "Unexpectedly reached the end of file.",
			Location: p.eofPos(),
		})
	}
	return p.tokens[p.cur]
}

func (p *Parser) next() types.Token {
	tok := p.peek()
	p.cur++
	return tok
}

func (p *Parser) expect(value string) types.Token {
	tok := p.next()
	if tok.Value != value {
		p.fail(tok, "Expected '%s', got '%s'.", value, tok.Value)
	}
	return tok
}

func (p *Parser) peekNext(value string) bool {
	return !p.atEnd() && p.tokens[p.cur].Value == value
}

func (p *Parser) peekTwoAhead(value string) bool {
	return p.cur+1 < len(p.tokens) && p.tokens[p.cur+1].Value == value
}

func isNumeric(s string) bool {
	_, err := strconv.ParseInt(s, 10, 32)
	return err == nil
}

func (p *Parser) label() (types.Token, string) {
	tok := p.next()
	v := tok.Value

	if types.IsKeyword(v) {
		p.fail(tok, "Expected identifier, got keyword '%s'.", v)
	}
	if tok.Kind == types.INT && !isNumeric(v) {
		p.fail(tok, "Integer literal '%s' is out of range.", v)
	}
	first := []rune(v)[0]
	if tok.Kind != types.IDENT || !(first == '_' || unicode.IsLetter(first)) {
		p.fail(tok, "Expected identifier, got '%s'.", v)
	}

	return tok, v
}

func (p *Parser) typeName() ast.Type {
	return ast.Type{Name: p.next().Value}
}

// Parse builds the program. Faults are panicked internally and surface here
// as a wrapped errors.ParseError.
func (p *Parser) Parse() (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(errors.ParseError)
			if !ok {
				panic(r)
			}
			prog = nil
			err = tracerr.Wrap(perr)
		}
	}()

	start := p.expect("program")
	decls := p.parseDecls()
	p.expect("begin")
	stmts := p.parseStmts()
	p.expect("end")
	p.expect(";")

	if !p.atEnd() {
		tok := p.peek()
		p.fail(tok, "Unexpected token '%s' after end of program.", tok.Value)
	}

	return &ast.Program{
		Base:  ast.Base{Tok: start},
		Decls: decls,
		Stmts: stmts,
	}, nil
}

func (p *Parser) parseDecls() []ast.Declaration {
	decls := []ast.Declaration{}
	for !p.peekNext("begin") {
		decls = append(decls, p.parseDecl())
	}
	return decls
}

func (p *Parser) parseDecl() ast.Declaration {
	switch {
	case p.peekTwoAhead(":"):
		return p.parseVarDecl()
	case p.peekTwoAhead("("):
		return p.parseFuncDecl()
	}

	tok := p.peek()
	p.fail(tok, "Declaration expected, got '%s'.", tok.Value)
	return nil
}

func (p *Parser) parseVarDecl() *ast.VariableDecl {
	tok, name := p.label()
	p.expect(":")
	kind := p.typeName()
	p.expect(";")

	return &ast.VariableDecl{Base: ast.Base{Tok: tok}, Label: name, Type: kind}
}

func (p *Parser) parseParam() *ast.VariableDecl {
	tok, name := p.label()
	p.expect(":")

	return &ast.VariableDecl{Base: ast.Base{Tok: tok}, Label: name, Type: p.typeName()}
}

func (p *Parser) parseFuncDecl() *ast.FunctionDecl {
	tok, name := p.label()

	p.expect("(")
	params := []*ast.VariableDecl{}
	if !p.peekNext(")") {
		params = append(params, p.parseParam())
		for p.peekNext(",") {
			p.expect(",")
			params = append(params, p.parseParam())
		}
	}
	p.expect(")")
	p.expect(":")
	ret := p.typeName()
	p.expect("is")

	locals := []*ast.VariableDecl{}
	for !p.peekNext("begin") {
		locals = append(locals, p.parseVarDecl())
	}

	p.expect("begin")
	body := p.parseStmts()
	p.expect("end")
	p.expect(";")

	return &ast.FunctionDecl{
		Base:       ast.Base{Tok: tok},
		Label:      name,
		Params:     params,
		ReturnType: ret,
		Locals:     locals,
		Body:       body,
	}
}

// parseStmts stops before 'end' or 'else'; the caller consumes those.
func (p *Parser) parseStmts() []ast.Statement {
	stmts := []ast.Statement{}
	for !p.atEnd() && !p.peekNext("end") && !p.peekNext("else") {
		stmts = append(stmts, p.parseStmt())
	}
	return stmts
}

func (p *Parser) parseStmt() ast.Statement {
	start := p.peek()
	base := ast.Base{Tok: start}

	switch start.Value {
	case "while":
		return p.parseWhileLoop()
	case "if":
		return p.parseIfThen()
	case "print_line":
		p.expect("print_line")
		p.expect(";")
		return &ast.PrintLine{Base: base}
	case "print":
		p.expect("print")
		expr := p.parseExpression()
		p.expect(";")
		return &ast.Print{Base: base, Expr: expr}
	case "return":
		p.expect("return")
		if p.peekNext(";") {
			p.expect(";")
			return &ast.Return{Base: base}
		}
		expr := p.parseExpression()
		p.expect(";")
		return &ast.Return{Base: base, Expr: expr}
	}

	_, name := p.label()
	switch {
	case p.peekNext(":="):
		p.expect(":=")
		expr := p.parseExpression()
		p.expect(";")
		return &ast.Assignment{Base: base, Label: name, Expr: expr}
	case p.peekNext("("):
		p.expect("(")
		args := p.parseArgs()
		p.expect(")")
		p.expect(";")
		return &ast.FunctionCallStmt{Base: base, Label: name, Args: args}
	}

	p.fail(p.peek(), "Expected ':=' or '(' after identifier")
	return nil
}

func (p *Parser) parseWhileLoop() *ast.WhileLoop {
	tok := p.expect("while")
	cond := p.parseExpression()
	p.expect("do")
	body := p.parseStmts()
	p.expect("end")
	p.expect("while")
	p.expect(";")

	return &ast.WhileLoop{Base: ast.Base{Tok: tok}, Cond: cond, Body: body}
}

func (p *Parser) parseIfThen() *ast.IfThen {
	tok := p.expect("if")
	cond := p.parseExpression()
	p.expect("then")
	then := p.parseStmts()

	var elseStmts []ast.Statement
	if p.peekNext("else") {
		p.expect("else")
		elseStmts = p.parseStmts()
	}

	p.expect("end")
	p.expect("if")
	p.expect(";")

	return &ast.IfThen{Base: ast.Base{Tok: tok}, Cond: cond, Then: then, Else: elseStmts}
}

func (p *Parser) parseArgs() []ast.Expression {
	args := []ast.Expression{}
	if !p.peekNext(")") {
		args = append(args, p.parseExpression())
		for p.peekNext(",") {
			p.expect(",")
			args = append(args, p.parseExpression())
		}
	}
	return args
}

var binaryOps = map[string]bool{
	"and": true, "or": true,
	">": true, "<": true, "==": true, ">=": true, "<=": true,
	"+": true, "-": true, "*": true, "/": true, "%": true,
}

func (p *Parser) parseExpression() ast.Expression {
	start := p.peek()
	v := start.Value

	switch {
	case v == "(":
		p.expect("(")
		if p.peekNext("not") || p.peekNext("-") {
			op := p.next()
			operand := p.parseExpression()
			p.expect(")")
			return &ast.UnaryOp{Base: ast.Base{Tok: op}, Op: op.Value, Operand: operand}
		}

		left := p.parseExpression()
		op := p.next()
		if !binaryOps[op.Value] {
			p.fail(op, "Expected binary operator, got '%s'.", op.Value)
		}
		right := p.parseExpression()
		p.expect(")")
		return &ast.BinaryOp{Base: ast.Base{Tok: op}, Left: left, Op: op.Value, Right: right}

	case v == "true" || v == "false" || start.Kind == types.STRING || (start.Kind == types.INT && isNumeric(v)):
		p.next()
		return &ast.Literal{Base: ast.Base{Tok: start}, Raw: v}

	case p.peekTwoAhead("("):
		tok, name := p.label()
		p.expect("(")
		args := p.parseArgs()
		p.expect(")")
		return &ast.FunctionCallExpr{Base: ast.Base{Tok: tok}, Label: name, Args: args}
	}

	tok, name := p.label()
	return &ast.Variable{Base: ast.Base{Tok: tok}, Label: name}
}
