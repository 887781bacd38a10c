package vm

import (
	"io"
	"os"

	"github.com/funvibe/kite/internal/diagnostics"
	"github.com/funvibe/kite/internal/parser"
	"github.com/funvibe/kite/internal/pipeline"
)

// State is the process-wide session: it owns the root module (with the
// builtins merged in at startup) and is reused across REPL iterations.
// Parser, compiler, and VM are transient per Run.
type State struct {
	Base *Module

	PrintAst      bool
	PrintBytecode bool
	Trace         bool

	out io.Writer
	in  io.Reader
}

func NewState() *State {
	base := NewModule("base")
	RegisterBuiltins(base)

	return &State{
		Base: base,
		out:  os.Stdout,
		in:   os.Stdin,
	}
}

// SetOutput redirects program output (print, builtins, debug dumps).
func (s *State) SetOutput(w io.Writer) {
	s.out = w
}

// SetInput redirects the input builtin's line source.
func (s *State) SetInput(r io.Reader) {
	s.in = r
}

// Run takes one source text through parse, compile, and execute. The
// returned error is nil on success; the result's exit code is the
// program's status.
func (s *State) Run(source, path string) (Result, *diagnostics.Error) {
	p := pipeline.New(
		parser.Processor{},
		CompileProcessor{State: s},
		ExecProcessor{State: s},
	)

	ctx := p.Run(pipeline.NewContext(source, path))

	if ctx.Err != nil {
		return Result{ExitCode: 1}, ctx.Err
	}

	return Result{ExitCode: ctx.ExitCode}, nil
}
