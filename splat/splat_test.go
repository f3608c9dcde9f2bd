package splat

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/pontaoski/splatgo/errors"
)

func TestScenarios(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		phase   errors.Phase
		output  string
		message string
	}{
		{
			name:   "print line",
			src:    "program begin print_line ; end ;",
			output: "\n",
		},
		{
			name:   "assign and print",
			src:    "program\n  x : Integer ;\nbegin\n  x := 5 ;\n  print x ;\nend ;",
			output: "5",
		},
		{
			name:    "undeclared variable",
			src:     "program begin y := 5 ; end ;",
			phase:   errors.PhaseSemantic,
			message: "Variable 'y' is not declared",
		},
		{
			name:    "missing return",
			src:     "program f() : Integer is begin end ; begin end ;",
			phase:   errors.PhaseSemantic,
			message: "Function 'f' returns Integer but has no return statement",
		},
		{
			name:    "unterminated string",
			src:     "program begin\n  print \"oops ;\nend ;",
			phase:   errors.PhaseLex,
			message: "Unfinished string literal",
		},
		{
			name:    "parse fault",
			src:     "program begin print ; end ;",
			phase:   errors.PhaseParse,
			message: "Expected identifier, got ';'.",
		},
		{
			name:    "execution fault",
			src:     "program begin print (1 / 0) ; end ;",
			phase:   errors.PhaseExecution,
			message: "Division by zero",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := Run(strings.NewReader(tt.src), &out, Options{Filename: "scenario.splat"})

			if got := errors.PhaseOf(err); got != tt.phase {
				t.Fatalf("phase = %s, want %s (%v)", got, tt.phase, err)
			}
			if tt.phase != errors.PhaseNone {
				if got := errors.Message(err); got != tt.message {
					t.Fatalf("message = %q, want %q", got, tt.message)
				}
				return
			}
			if out.String() != tt.output {
				t.Fatalf("output = %q, want %q", out.String(), tt.output)
			}
		})
	}
}

func TestLexFaultPosition(t *testing.T) {
	err := Run(strings.NewReader("program begin\n  print \"oops ;\nend ;"), &bytes.Buffer{}, Options{Filename: "e.splat"})
	loc, ok := errors.Location(err)
	if !ok || loc.Line != 2 || loc.Column != 9 || loc.Filename != "e.splat" {
		t.Fatalf("location = %v (%v)", loc, ok)
	}
}

func TestLaterPhasesDoNotRun(t *testing.T) {
	var out bytes.Buffer
	err := Run(strings.NewReader("program begin print 1 ; y := 2 ; end ;"), &out, Options{})
	if errors.PhaseOf(err) != errors.PhaseSemantic {
		t.Fatalf("err = %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("program ran after a failed analysis: %q", out.String())
	}
}

func TestCheckDoesNotExecute(t *testing.T) {
	prog, err := Check(strings.NewReader("program begin print (1 / 0) ; end ;"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(prog.Stmts) != 1 {
		t.Fatalf("got %d statements", len(prog.Stmts))
	}
}

func TestLogging(t *testing.T) {
	var trace bytes.Buffer
	opts := Options{Filename: "log.splat", Logger: log.New(&trace, "", 0)}
	if err := Run(strings.NewReader("program f() : void is begin end ; begin f() ; end ;"), &bytes.Buffer{}, opts); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"lexing log.splat", "parsing", "analyzing", "call f"} {
		if !strings.Contains(trace.String(), want) {
			t.Errorf("trace lacks %q:\n%s", want, trace.String())
		}
	}
}

func TestCallDepthOption(t *testing.T) {
	src := "program f() : void is begin f() ; end ; begin f() ; end ;"
	err := Run(strings.NewReader(src), &bytes.Buffer{}, Options{MaxCallDepth: 100})
	if got := errors.Message(err); got != "Call depth limit of 100 exceeded" {
		t.Fatalf("message = %q", got)
	}
}
