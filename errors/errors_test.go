package errors

import (
	"fmt"
	"testing"

	"github.com/pontaoski/splatgo/types"
	"github.com/ztrue/tracerr"
)

func TestPhaseOf(t *testing.T) {
	pos := types.Position{Line: 3, Column: 7, Filename: "a.splat"}

	cases := []struct {
		name string
		err  error
		want Phase
	}{
		{"nil", nil, PhaseNone},
		{"plain", fmt.Errorf("boom"), PhaseNone},
		{"lex", LexError{"Invalid character: $", pos}, PhaseLex},
		{"parse wrapped", tracerr.Wrap(ParseError{"Declaration expected", pos}), PhaseParse},
		{"semantic wrapped twice", fmt.Errorf("check: %w", tracerr.Wrap(SemanticError{"x", pos})), PhaseSemantic},
		{"execution", tracerr.Wrap(ExecutionError{"Division by zero", pos}), PhaseExecution},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := PhaseOf(c.err); got != c.want {
				t.Fatalf("PhaseOf = %s, want %s", got, c.want)
			}
		})
	}
}

func TestMessageAndLocation(t *testing.T) {
	pos := types.Position{Line: 2, Column: 9, Filename: "b.splat"}
	err := tracerr.Wrap(SemanticError{"Variable 'y' is not declared", pos})

	if got := Message(err); got != "Variable 'y' is not declared" {
		t.Fatalf("Message = %q", got)
	}
	loc, ok := Location(err)
	if !ok || loc != pos {
		t.Fatalf("Location = %v, %v", loc, ok)
	}
	if got := (LexError{"Unfinished string literal", pos}).Error(); got != "Unfinished string literal (b.splat:2:9)" {
		t.Fatalf("Error() = %q", got)
	}
}
