package pipeline

import (
	"testing"

	"github.com/funvibe/kite/internal/diagnostics"
	"github.com/funvibe/kite/internal/token"
)

type recorder struct {
	name string
	log  *[]string
	fail bool
}

func (r recorder) Process(ctx *Context) *Context {
	*r.log = append(*r.log, r.name)
	if r.fail {
		ctx.Err = diagnostics.New(token.SourceView{}, diagnostics.CompileError, "boom")
	}
	return ctx
}

func TestStagesRunInOrder(t *testing.T) {
	var log []string

	p := New(
		recorder{name: "parse", log: &log},
		recorder{name: "compile", log: &log},
		recorder{name: "exec", log: &log},
	)
	p.Run(NewContext("src", "path"))

	if len(log) != 3 || log[0] != "parse" || log[1] != "compile" || log[2] != "exec" {
		t.Errorf("wrong stage order: %v", log)
	}
}

func TestFirstErrorStopsThePipeline(t *testing.T) {
	var log []string

	p := New(
		recorder{name: "parse", log: &log},
		recorder{name: "compile", log: &log, fail: true},
		recorder{name: "exec", log: &log},
	)
	ctx := p.Run(NewContext("src", "path"))

	if len(log) != 2 {
		t.Errorf("later stages ran after the error: %v", log)
	}
	if ctx.Err == nil {
		t.Error("error not propagated")
	}
}
