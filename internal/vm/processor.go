package vm

import (
	"github.com/funvibe/kite/internal/ast"
	"github.com/funvibe/kite/internal/pipeline"
)

// CompileProcessor lowers the parsed program to a chunk as a pipeline
// stage, optionally dumping the AST and bytecode for debugging.
type CompileProcessor struct {
	State *State
}

func (p CompileProcessor) Process(ctx *pipeline.Context) *pipeline.Context {
	prog, ok := ctx.AstRoot.(*ast.Program)
	if !ok {
		return ctx
	}

	if p.State.PrintAst {
		ast.Fprint(p.State.out, prog)
	}

	compiler := NewCompiler(ctx.Path)
	chunk := compiler.Compile(prog)

	if compiler.Failed() {
		ctx.Err = compiler.Err()
		return ctx
	}

	if p.State.PrintBytecode {
		Disassemble(p.State.out, chunk, "Chunk")
	}

	ctx.Chunk = chunk
	return ctx
}

// ExecProcessor runs the compiled chunk on a fresh VM against the state's
// root module.
type ExecProcessor struct {
	State *State
}

func (p ExecProcessor) Process(ctx *pipeline.Context) *pipeline.Context {
	chunk, ok := ctx.Chunk.(*Chunk)
	if !ok {
		return ctx
	}

	machine := NewVM()
	machine.SetOutput(p.State.out)
	machine.SetInput(p.State.in)
	machine.SetTrace(p.State.Trace)

	result := machine.Interpret(p.State.Base, chunk, ctx.Path)

	if machine.Failed() {
		ctx.Err = machine.Err()
		ctx.ExitCode = 1
		return ctx
	}

	ctx.ExitCode = result.ExitCode
	return ctx
}
