package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/alecthomas/participle"

	. "github.com/dave/jennifer/jen"
)

type TypeDecls struct {
	Declarations []*Declaration `@@*`
}

// Declaration is one closed category, e.g.
//
//	type Statement : Node = | Assignment | IfThen ;
type Declaration struct {
	Name   string   `"type" @Ident`
	Embeds []string `( ":" @Ident ( "," @Ident )* )?`
	Cases  []string `"=" ( "|" @Ident )+ ";"`
}

func ParseDecls(data []byte) (*TypeDecls, error) {
	parser, err := participle.Build(&TypeDecls{})
	if err != nil {
		return nil, err
	}

	ast := &TypeDecls{}
	if err := parser.ParseBytes(data, ast); err != nil {
		return nil, err
	}

	seen := map[string]string{}
	for _, decl := range ast.Declarations {
		for _, it := range decl.Cases {
			if other, ok := seen[it]; ok {
				return nil, fmt.Errorf("%s is listed in both %s and %s", it, other, decl.Name)
			}
			seen[it] = decl.Name
		}
	}

	return ast, nil
}

func GenerateDecls(pkgname string, t *TypeDecls) string {
	f := NewFile(pkgname)
	f.HeaderComment("Code generated by adtgen from nodes.adt. DO NOT EDIT.")

	for _, decl := range t.Declarations {
		var methods []Code
		for _, embed := range decl.Embeds {
			methods = append(methods, Id(embed))
		}
		methods = append(methods, Id("is_"+decl.Name).Params())

		f.Type().Id(decl.Name).Interface(methods...)
		f.Line()

		// A blank line after each marker keeps gofmt from aligning them.
		for _, it := range decl.Cases {
			f.Func().Params(Op("*").Id(it)).Id("is_" + decl.Name).Params().Block()
			f.Line()
		}
	}

	return fmt.Sprintf("%#v", f)
}

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintln(os.Stderr, "usage: adtGen <input.adt> <output.go> <package>")
		os.Exit(2)
	}

	in := os.Args[1]
	out := os.Args[2]
	pkgname := os.Args[3]

	inData, err := ioutil.ReadFile(in)
	if err != nil {
		panic(err)
	}

	decls, err := ParseDecls(inData)
	if err != nil {
		panic(err)
	}

	err = ioutil.WriteFile(out, []byte(GenerateDecls(pkgname, decls)), 0644)
	if err != nil {
		panic(err)
	}
}
