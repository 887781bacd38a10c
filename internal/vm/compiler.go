package vm

import (
	"fmt"

	"github.com/funvibe/kite/internal/ast"
	"github.com/funvibe/kite/internal/diagnostics"
	"github.com/funvibe/kite/internal/token"
	"github.com/tliron/commonlog"
)

var compilerLog = commonlog.GetLogger("kite.compiler")

// Limits shared by the constant pools, locals, and upvalues.
const maxPoolSize = 256

// Local is a named stack slot introduced by a declaration.
type Local struct {
	Name  string
	Depth int
}

// upvalueMeta describes one captured variable of the function being
// compiled: a slot index in the enclosing frame (isLocal) or an index into
// the enclosing function's upvalues.
type upvalueMeta struct {
	Index   byte
	IsLocal bool
}

// loopData tracks the innermost active loop of a chunk.
type loopData struct {
	enclosing *loopData
	start     int   // bytecode offset continue jumps back to
	breaks    []int // patch offsets of pending break jumps
	localBase int   // locals live before the loop was entered
}

// chunkData is one frame of the compiler's chunk stack; a new frame is
// pushed for every nested function declaration.
type chunkData struct {
	chunk       *Chunk
	scopeDepth  int
	localOffset int // 0 for the global chunk, 1 for functions (return slot)
	global      bool
	locals      []Local
	upvalues    []upvalueMeta
	loop        *loopData
	enclosing   *chunkData
}

// Compiler lowers a syntax tree to a chunk in a single pass. It is
// single-shot: the first error wins and the expressions and statements
// after it are not compiled.
type Compiler struct {
	path string

	data *chunkData

	hadError bool
	err      *diagnostics.Error
}

func NewCompiler(path string) *Compiler {
	return &Compiler{path: path}
}

// Compile walks the program and returns the global chunk. Check Failed
// before running the result.
func (c *Compiler) Compile(prog *ast.Program) *Chunk {
	c.newChunk()
	c.data.global = true
	c.data.localOffset = 0

	c.body(prog.Body)
	c.emitOp(OP_EXIT)
	c.emitByte(0)

	chunk := c.endChunk()
	compilerLog.Debugf("compiled %q: %d bytes, %d numbers, %d names, %d prototypes",
		c.path, chunk.Len(), len(chunk.Numbers), len(chunk.Names), len(chunk.Protos))
	return chunk
}

func (c *Compiler) Failed() bool {
	return c.hadError
}

func (c *Compiler) Err() *diagnostics.Error {
	return c.err
}

// Chunk stack

func (c *Compiler) chunk() *Chunk {
	return c.data.chunk
}

func (c *Compiler) newChunk() {
	c.data = &chunkData{
		chunk:       NewChunk(),
		localOffset: 1,
		enclosing:   c.data,
	}
}

func (c *Compiler) endChunk() *Chunk {
	chunk := c.data.chunk
	c.data = c.data.enclosing
	return chunk
}

// Errors

func (c *Compiler) errorAt(view token.SourceView, msg string) {
	if c.hadError {
		return
	}

	c.hadError = true
	c.err = &diagnostics.Error{
		View: view,
		Kind: diagnostics.CompileError,
		Msg:  msg,
		Path: c.path,
	}
}

// Constants

func (c *Compiler) makeNumberConstant(value float64, view token.SourceView) int {
	index := c.chunk().AddNumber(value)
	if index >= maxPoolSize {
		c.errorAt(view, "Too many constants in pool")
	}
	return index
}

func (c *Compiler) makeNameConstant(value string, view token.SourceView) int {
	index := c.chunk().AddName(value)
	if index >= maxPoolSize {
		c.errorAt(view, "Too many constants in pool")
	}
	return index
}

// Emit helpers

func (c *Compiler) emitOp(op Opcode) {
	c.chunk().WriteOp(op)
}

func (c *Compiler) emitByte(b byte) {
	c.chunk().Write(b)
}

func (c *Compiler) marker(view token.SourceView) {
	c.chunk().Mark(view)
}

// Jumps. Forward jumps leave a two-byte placeholder that patchJump fills
// with the distance from the byte after the operand to the current end.
// Backward jumps store the distance from the byte after the operand back
// to the target, so the VM's ip -= distance lands exactly on it.

func (c *Compiler) emitJump(op Opcode) int {
	c.emitOp(op)
	c.emitByte(0xff)
	c.emitByte(0xff)
	return c.chunk().Len() - 2
}

func (c *Compiler) patchJump(offset int) {
	distance := c.chunk().Len() - offset - 2
	if distance > 0xffff {
		c.errorAt(token.SourceView{}, "Jump distance too large")
		return
	}

	c.chunk().Code[offset] = byte(distance >> 8)
	c.chunk().Code[offset+1] = byte(distance)
}

func (c *Compiler) emitJumpBack(op Opcode, target int) {
	distance := c.chunk().Len() + 3 - target
	if distance > 0xffff {
		c.errorAt(token.SourceView{}, "Jump distance too large")
		return
	}

	c.emitOp(op)
	c.chunk().WriteShort(uint16(distance))
}

func (c *Compiler) internalError(msg string) {
	if c.hadError {
		return
	}
	c.hadError = true
	c.err = &diagnostics.Error{
		Kind: diagnostics.CompileError,
		Msg:  fmt.Sprintf("internal: %s", msg),
		Path: c.path,
	}
}
