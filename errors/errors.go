package errors

import (
	"fmt"

	"github.com/pontaoski/splatgo/types"
	"github.com/ztrue/tracerr"
)

// Phase identifies the pipeline stage that raised a fault.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseLex
	PhaseParse
	PhaseSemantic
	PhaseExecution
)

func (p Phase) String() string {
	switch p {
	case PhaseLex:
		return "lex"
	case PhaseParse:
		return "parse"
	case PhaseSemantic:
		return "semantic"
	case PhaseExecution:
		return "execution"
	}
	return "none"
}

type LexError struct {
	Message  string
	Location types.Position
}

func (e LexError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Location)
}

type ParseError struct {
	Message  string
	Location types.Position
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Location)
}

type SemanticError struct {
	Message  string
	Location types.Position
}

func (e SemanticError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Location)
}

type ExecutionError struct {
	Message  string
	Location types.Position
}

func (e ExecutionError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Location)
}

// Fault returns the first splat fault found in err's chain, looking through
// tracerr wrappers and Unwrap methods.
func Fault(err error) (error, Phase) {
	for err != nil {
		switch err.(type) {
		case LexError:
			return err, PhaseLex
		case ParseError:
			return err, PhaseParse
		case SemanticError:
			return err, PhaseSemantic
		case ExecutionError:
			return err, PhaseExecution
		}

		if _, ok := err.(tracerr.Error); ok {
			err = tracerr.Unwrap(err)
			continue
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}

	return nil, PhaseNone
}

func PhaseOf(err error) Phase {
	_, p := Fault(err)
	return p
}

// Message returns the bare fault message, or err.Error() for anything else.
func Message(err error) string {
	fault, _ := Fault(err)
	switch e := fault.(type) {
	case LexError:
		return e.Message
	case ParseError:
		return e.Message
	case SemanticError:
		return e.Message
	case ExecutionError:
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// Location returns the source position attached to a fault in err's chain.
func Location(err error) (types.Position, bool) {
	fault, _ := Fault(err)
	switch e := fault.(type) {
	case LexError:
		return e.Location, true
	case ParseError:
		return e.Location, true
	case SemanticError:
		return e.Location, true
	case ExecutionError:
		return e.Location, true
	}
	return types.Position{}, false
}
