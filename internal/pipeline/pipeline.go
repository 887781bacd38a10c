// Package pipeline chains the toolchain's processing stages: parse,
// compile, execute. Each stage reads and extends a shared context.
package pipeline

import "github.com/funvibe/kite/internal/diagnostics"

// Context carries one run's state between processors. AstRoot and Chunk
// are opaque here so stage packages stay decoupled; each stage asserts the
// type it expects.
type Context struct {
	Source string
	Path   string

	AstRoot any
	Chunk   any

	// Err is the single-shot error; once set, later stages are skipped.
	Err *diagnostics.Error

	// ExitCode is the program's final status once the execute stage ran.
	ExitCode int
}

func NewContext(source, path string) *Context {
	return &Context{Source: source, Path: path}
}

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *Context) *Context
}

// Pipeline is an ordered list of stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the stages in order, stopping after the stage that records
// the first error.
func (p *Pipeline) Run(initial *Context) *Context {
	ctx := initial
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		if ctx.Err != nil {
			break
		}
	}
	return ctx
}
