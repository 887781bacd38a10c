package parser

import "github.com/funvibe/kite/internal/pipeline"

// Processor runs the frontend as a pipeline stage.
type Processor struct{}

func (Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	p := New(ctx.Source, ctx.Path)
	prog := p.Parse()

	if p.Failed() {
		ctx.Err = p.Err()
		return ctx
	}

	ctx.AstRoot = prog
	return ctx
}
