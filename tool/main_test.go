package main

import (
	"strings"
	"testing"
)

func TestGenerateDecls(t *testing.T) {
	decls, err := ParseDecls([]byte(`
// comment
type Expression : Node =
	| Literal
	| Variable
	;
type Declaration : Node, Labeled = | VariableDecl ;
`))
	if err != nil {
		t.Fatal(err)
	}
	if len(decls.Declarations) != 2 {
		t.Fatalf("got %d declarations", len(decls.Declarations))
	}

	out := GenerateDecls("ast", decls)
	for _, want := range []string{
		"package ast",
		"DO NOT EDIT",
		"type Expression interface",
		"is_Expression()",
		"func (*Literal) is_Expression() {}\n\nfunc (*Variable) is_Expression() {}",
		"func (*VariableDecl) is_Declaration() {}",
		"Labeled",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("generated code lacks %q:\n%s", want, out)
		}
	}
}

func TestDuplicateCase(t *testing.T) {
	_, err := ParseDecls([]byte(`type A = | X ; type B = | X ;`))
	if err == nil {
		t.Fatal("expected an error for a case listed twice")
	}
}
