package vm

import (
	"fmt"

	"github.com/funvibe/kite/internal/ast"
)

func (c *Compiler) body(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		if c.hadError {
			return
		}
		c.statement(stmt)
	}
}

func (c *Compiler) statement(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.EmptyStmt:
		// nothing to emit

	case *ast.BreakStmt:
		c.breakStmt(s)

	case *ast.ContinueStmt:
		c.continueStmt(s)

	case *ast.ExitStmt:
		c.exitStmt(s)

	case *ast.ExprStmt:
		c.expression(s.Expr)
		c.emitOp(OP_POP)

	case *ast.ReturnStmt:
		c.returnStmt(s)

	case *ast.PrintStmt:
		c.printStmt(s)

	case *ast.IfStmt:
		c.ifStmt(s)

	case *ast.LoopBlock:
		c.loopBlock(s)

	case *ast.WhileLoop:
		c.whileLoop(s)

	case *ast.ForLoop:
		c.errorAt(s.Span, "For loops are not supported yet")

	case *ast.TypeDeclaration:
		c.typeDeclaration(s)

	case *ast.FuncDeclaration:
		c.funcDeclaration(s)

	case *ast.VarDeclaration:
		c.varDeclaration(s)

	case *ast.BlockStmt:
		c.beginScope()
		c.body(s.Body)
		c.endScope()

	default:
		c.internalError("invalid statement")
	}
}

func (c *Compiler) breakStmt(stmt *ast.BreakStmt) {
	if c.data.loop == nil {
		c.errorAt(stmt.Span, "Cannot use break statement outside of loop")
		return
	}

	c.popLoopLocals()
	c.data.loop.breaks = append(c.data.loop.breaks, c.emitJump(OP_JUMP))
}

func (c *Compiler) continueStmt(stmt *ast.ContinueStmt) {
	if c.data.loop == nil {
		c.errorAt(stmt.Span, "Cannot use continue statement outside of loop")
		return
	}

	c.popLoopLocals()
	c.emitJumpBack(OP_JUMP_BACK, c.data.loop.start)
}

func (c *Compiler) exitStmt(stmt *ast.ExitStmt) {
	if stmt.Code.Value > 255 {
		c.errorAt(stmt.Code.Span, fmt.Sprintf("Error code can't be greater than %d", 255))
		return
	}
	if stmt.Code.Value < 0 {
		c.errorAt(stmt.Code.Span, "Error code can't be negative")
		return
	}

	c.emitOp(OP_EXIT)
	c.emitByte(byte(stmt.Code.Value))
}

// returnStmt writes the value into the frame's return slot and leaves the
// frame. OP_RETURN truncates the stack to the return slot and closes any
// upvalues above it, so no OP_POP_LOCALS is needed on this path.
func (c *Compiler) returnStmt(stmt *ast.ReturnStmt) {
	if c.data.global {
		c.errorAt(stmt.Span, "Return outside function")
		return
	}

	c.expression(stmt.Value)
	c.emitOp(OP_SET_LOCAL)
	c.emitByte(0)
	c.emitOp(OP_POP)
	c.emitOp(OP_RETURN)
}

// printStmt compiles the expressions right-to-left so the VM pops them
// back in source order.
func (c *Compiler) printStmt(stmt *ast.PrintStmt) {
	for i := len(stmt.Exprs) - 1; i >= 0; i-- {
		c.expression(stmt.Exprs[i])
	}

	c.emitOp(OP_PRINT)
	c.emitByte(byte(len(stmt.Exprs)))
}

func (c *Compiler) ifStmt(stmt *ast.IfStmt) {
	c.expression(stmt.Condition)
	elseJump := c.emitJump(OP_JUMP_POP_IF_FALSE)

	c.beginScope()
	c.body(stmt.Body)
	c.endScope()

	if len(stmt.OrElse) > 0 {
		endJump := c.emitJump(OP_JUMP)
		c.patchJump(elseJump)

		c.beginScope()
		c.body(stmt.OrElse)
		c.endScope()

		c.patchJump(endJump)
	} else {
		c.patchJump(elseJump)
	}
}

// loopBlock compiles the body in its own scope so per-iteration locals pop
// before the back jump.
func (c *Compiler) loopBlock(stmt *ast.LoopBlock) {
	c.beginLoop()
	start := c.data.loop.start

	c.beginScope()
	c.body(stmt.Body)
	c.endScope()

	c.emitJumpBack(OP_JUMP_BACK, start)
	c.endLoop()
}

func (c *Compiler) whileLoop(stmt *ast.WhileLoop) {
	c.beginLoop()
	start := c.data.loop.start

	c.expression(stmt.Condition)
	exitJump := c.emitJump(OP_JUMP_POP_IF_FALSE)

	c.beginScope()
	c.body(stmt.Body)
	c.endScope()

	c.emitJumpBack(OP_JUMP_BACK, start)
	c.patchJump(exitJump)
	c.endLoop()
}

// typeDeclaration emits the reserved type opcodes; the VM reports these as
// unsupported. Method bodies are not compiled.
func (c *Compiler) typeDeclaration(stmt *ast.TypeDeclaration) {
	index := c.makeNameConstant(stmt.Name.Name, stmt.Name.Span)
	c.marker(stmt.Name.Span)
	c.emitOp(OP_TYPE)
	c.emitByte(byte(index))

	if len(stmt.Parents) > 255 {
		view := stmt.Parents[255].Span
		view = view.Union(stmt.Parents[len(stmt.Parents)-1].Span)
		c.errorAt(view, fmt.Sprintf("Too many types to inherit from (max: %d, you have %d)",
			255, len(stmt.Parents)))
		return
	}

	if len(stmt.Parents) > 0 {
		for i := range stmt.Parents {
			c.identifier(&stmt.Parents[i], true)
		}

		c.emitOp(OP_INHERIT)
		c.emitByte(byte(len(stmt.Parents)))
	}
}

// funcDeclaration emits OP_FUNCTION in the enclosing chunk, compiles the
// body into a fresh chunk, and appends the (index, isLocal) capture pairs
// right after the operand where the VM reads them at closure creation.
func (c *Compiler) funcDeclaration(stmt *ast.FuncDeclaration) {
	protoIndex := len(c.chunk().Protos)
	if protoIndex >= maxPoolSize {
		c.errorAt(stmt.Name.Span, "Too many constants in pool")
		return
	}

	c.emitOp(OP_FUNCTION)
	c.emitByte(byte(protoIndex))

	c.newChunk()
	c.beginScope()

	if len(stmt.Args) > 255 {
		view := stmt.Args[255].Span
		view = view.Union(stmt.Args[len(stmt.Args)-1].Span)
		c.errorAt(view, fmt.Sprintf("Too many arguments in function declaration (max: %d, you have %d)",
			255, len(stmt.Args)))
		return
	}

	for _, arg := range stmt.Args {
		c.addLocal(arg.Name, arg.Span)
	}

	c.body(stmt.Body)
	c.endScope()
	c.emitOp(OP_RETURN)

	upvalues := c.data.upvalues
	inner := c.endChunk()

	for _, upvalue := range upvalues {
		c.emitByte(upvalue.Index)
		if upvalue.IsLocal {
			c.emitByte(1)
		} else {
			c.emitByte(0)
		}
	}

	proto := &Prototype{
		Name:         stmt.Name.Name,
		Argc:         byte(len(stmt.Args)),
		UpvalueCount: byte(len(upvalues)),
		Chunk:        inner,
	}

	c.declare(stmt.Name.Name, stmt.Name.Span)
	c.chunk().Protos = append(c.chunk().Protos, proto)
}

// varDeclaration compiles the initializer (or None) and binds the name;
// inside a scope the value's stack slot becomes the local.
func (c *Compiler) varDeclaration(stmt *ast.VarDeclaration) {
	if _, empty := stmt.Expr.(*ast.Empty); empty {
		c.emitOp(OP_NONE)
	} else {
		c.expression(stmt.Expr)
	}

	c.declare(stmt.Target.Name, stmt.Target.Span)
}
