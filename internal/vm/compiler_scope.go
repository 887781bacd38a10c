package vm

import "github.com/funvibe/kite/internal/token"

// beginScope starts a new lexical scope.
func (c *Compiler) beginScope() {
	c.data.scopeDepth++
}

// endScope emits OP_POP_LOCALS for every local introduced at the closing
// depth and drops them from the compiler's view.
func (c *Compiler) endScope() {
	count := 0
	for i := len(c.data.locals) - 1; i >= 0; i-- {
		if c.data.locals[i].Depth < c.data.scopeDepth {
			break
		}
		count++
	}

	c.emitOp(OP_POP_LOCALS)
	c.emitByte(byte(count))

	c.data.scopeDepth--
	c.data.locals = c.data.locals[:len(c.data.locals)-count]
}

// beginLoop opens a loop context. The recorded start is where continue
// jumps back to; for while loops that is the condition re-evaluation.
func (c *Compiler) beginLoop() {
	c.beginScope()
	c.data.loop = &loopData{
		enclosing: c.data.loop,
		start:     c.chunk().Len(),
		localBase: len(c.data.locals),
	}
}

// endLoop closes the loop scope and lands all pending break jumps here.
func (c *Compiler) endLoop() {
	c.endScope()
	for _, offset := range c.data.loop.breaks {
		c.patchJump(offset)
	}
	c.data.loop = c.data.loop.enclosing
}

// popLoopLocals emits cleanup for locals declared since loop entry, used
// on the break/continue exit paths.
func (c *Compiler) popLoopLocals() {
	count := len(c.data.locals) - c.data.loop.localBase
	if count > 0 {
		c.emitOp(OP_POP_LOCALS)
		c.emitByte(byte(count))
	}
}

// addLocal declares a local in the current scope. Redeclaring a name at
// the same depth is an error.
func (c *Compiler) addLocal(name string, view token.SourceView) {
	for _, local := range c.data.locals {
		if local.Name == name && local.Depth == c.data.scopeDepth {
			c.errorAt(view, "Already a local called '"+name+"'")
			return
		}
	}

	if len(c.data.locals) >= maxPoolSize {
		c.errorAt(view, "Too many locals in scope")
		return
	}

	c.data.locals = append(c.data.locals, Local{Name: name, Depth: c.data.scopeDepth})
}

// findLocal resolves a name to a stack slot in the given chunk, or -1.
// The most recent declaration wins so deeper scopes shadow outer ones.
func (c *Compiler) findLocal(data *chunkData, name string) int {
	for i := len(data.locals) - 1; i >= 0; i-- {
		if data.locals[i].Name == name {
			return i + data.localOffset
		}
	}

	return -1
}

// findUpvalue resolves a name through the enclosing chunks: a local of the
// direct encloser becomes a local upvalue; otherwise the search recurses
// and the result is re-captured as a non-local upvalue.
func (c *Compiler) findUpvalue(data *chunkData, name string, view token.SourceView) int {
	if data.enclosing == nil {
		return -1
	}

	if local := c.findLocal(data.enclosing, name); local != -1 {
		return c.addUpvalue(data, byte(local), true, view)
	}

	if upvalue := c.findUpvalue(data.enclosing, name, view); upvalue != -1 {
		return c.addUpvalue(data, byte(upvalue), false, view)
	}

	return -1
}

// addUpvalue registers a capture, reusing an existing entry for the same
// slot or upvalue index.
func (c *Compiler) addUpvalue(data *chunkData, index byte, isLocal bool, view token.SourceView) int {
	for i, upvalue := range data.upvalues {
		if upvalue.Index == index && upvalue.IsLocal == isLocal {
			return i
		}
	}

	if len(data.upvalues) >= maxPoolSize {
		c.errorAt(view, "Too many captured locals in scope")
		return -1
	}

	data.upvalues = append(data.upvalues, upvalueMeta{Index: index, IsLocal: isLocal})
	return len(data.upvalues) - 1
}

// declare binds a name for the value currently on top of the stack: at
// depth zero it becomes a module global, otherwise the slot itself becomes
// the local.
func (c *Compiler) declare(name string, view token.SourceView) {
	if c.data.scopeDepth == 0 {
		idx := c.makeNameConstant(name, view)
		c.emitOp(OP_DEFINE_GLOBAL)
		c.emitByte(byte(idx))
		return
	}

	c.addLocal(name, view)
}
