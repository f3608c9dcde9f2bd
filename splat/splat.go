// Package splat chains the lexer, parser, analyzer and executor. Each phase
// only runs when the one before it succeeded.
package splat

import (
	"io"
	"log"

	"github.com/pontaoski/splatgo/analyzer"
	"github.com/pontaoski/splatgo/ast"
	"github.com/pontaoski/splatgo/executor"
	"github.com/pontaoski/splatgo/lexer"
	"github.com/pontaoski/splatgo/parser"
	"github.com/pontaoski/splatgo/types"
)

type Options struct {
	// Filename is attached to every reported position.
	Filename string
	// Logger receives phase tracing. Nil discards it.
	Logger *log.Logger
	// MaxCallDepth bounds nested calls during execution. Zero is unbounded.
	MaxCallDepth int
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return o.Logger
}

// Tokenize runs the lexer alone.
func Tokenize(src io.Reader, opts Options) ([]types.Token, error) {
	opts.logger().Printf("lexing %s", opts.Filename)
	return lexer.NewLexer(src, opts.Filename).Tokenize()
}

// Parse tokenizes and parses src without analyzing it.
func Parse(src io.Reader, opts Options) (*ast.Program, error) {
	toks, err := Tokenize(src, opts)
	if err != nil {
		return nil, err
	}

	opts.logger().Printf("parsing %d token(s)", len(toks))
	return parser.NewParser(toks).Parse()
}

// Check runs every phase up to and including semantic analysis.
func Check(src io.Reader, opts Options) (*ast.Program, error) {
	prog, err := Parse(src, opts)
	if err != nil {
		return nil, err
	}

	opts.logger().Printf("analyzing %d declaration(s)", len(prog.Decls))
	if err := analyzer.Analyze(prog); err != nil {
		return nil, err
	}
	return prog, nil
}

// Run checks src and executes it, writing program output to out.
func Run(src io.Reader, out io.Writer, opts Options) error {
	prog, err := Check(src, opts)
	if err != nil {
		return err
	}

	ex := executor.New(out,
		executor.WithLogger(opts.Logger),
		executor.WithMaxCallDepth(opts.MaxCallDepth),
	)
	return ex.Run(prog)
}
