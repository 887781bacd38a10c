package vm

import (
	"fmt"
	"math"

	"github.com/funvibe/kite/internal/ast"
)

var binaryOpcodes = map[ast.BinaryOp]Opcode{
	ast.Add:             OP_ADD,
	ast.Subtract:        OP_SUB,
	ast.Modulous:        OP_MOD,
	ast.Multiply:        OP_MUL,
	ast.Divide:          OP_DIV,
	ast.Exponent:        OP_POW,
	ast.GreaterThan:     OP_GT,
	ast.LessThan:        OP_LT,
	ast.GreaterThanOrEq: OP_GE,
	ast.LessThanOrEq:    OP_LE,
}

func (c *Compiler) expression(expr ast.Expr) {
	if c.hadError {
		return
	}

	switch e := expr.(type) {
	case *ast.NumLiteral:
		c.numberLiteral(e)

	case *ast.BoolLiteral:
		if e.Value {
			c.emitOp(OP_TRUE)
		} else {
			c.emitOp(OP_FALSE)
		}

	case *ast.StrLiteral:
		index := c.makeNameConstant(e.Value, e.Span)
		c.emitOp(OP_NAME)
		c.emitByte(byte(index))

	case *ast.NoneLiteral:
		c.emitOp(OP_NONE)

	case *ast.Identifier:
		c.identifier(e, true)

	case *ast.AssignmentExpr:
		c.assignment(e)

	case *ast.BinaryExpr:
		c.binary(e)

	case *ast.UnaryExpr:
		c.expression(e.Operand)
		c.marker(e.OpToken.View)
		if e.Op == ast.Negative {
			c.emitOp(OP_NEG)
		} else {
			c.emitOp(OP_NOT)
		}

	case *ast.CallExpr:
		c.call(e)

	case *ast.PropertyExpr:
		c.expression(e.Expr)
		c.marker(e.Prop.Span)
		index := c.makeNameConstant(e.Prop.Name, e.Prop.Span)
		c.emitOp(OP_GET_PROPERTY)
		c.emitByte(byte(index))

	default:
		c.internalError("invalid expression")
	}
}

// numberLiteral uses the byte-number fast path for integers in [0, 255];
// everything else goes through the number pool.
func (c *Compiler) numberLiteral(num *ast.NumLiteral) {
	v := num.Value
	if v >= 0 && v <= 255 && v == math.Trunc(v) {
		c.emitOp(OP_BYTE_NUMBER)
		c.emitByte(byte(v))
		return
	}

	index := c.makeNumberConstant(v, num.Span)
	c.emitOp(OP_NUMBER)
	c.emitByte(byte(index))
}

// binary compiles both operands then a single operator opcode; != lowers
// to EQ followed by NOT. The short-circuit operators branch on the left
// value without popping it.
func (c *Compiler) binary(expr *ast.BinaryExpr) {
	switch expr.Op {
	case ast.And:
		c.expression(expr.Left)
		jump := c.emitJump(OP_JUMP_IF_FALSE)
		c.emitOp(OP_POP)
		c.expression(expr.Right)
		c.patchJump(jump)
		return

	case ast.Or:
		c.expression(expr.Left)
		jump := c.emitJump(OP_JUMP_IF_TRUE)
		c.emitOp(OP_POP)
		c.expression(expr.Right)
		c.patchJump(jump)
		return
	}

	c.expression(expr.Left)
	c.expression(expr.Right)
	c.marker(expr.OpToken.View)

	switch expr.Op {
	case ast.Equal:
		c.emitOp(OP_EQ)
	case ast.NotEqual:
		c.emitOp(OP_EQ)
		c.emitOp(OP_NOT)
	default:
		c.emitOp(binaryOpcodes[expr.Op])
	}
}

// call pre-pushes the None return slot, then the arguments, then the
// callee. The VM pops the callee and frames the call at the return slot.
func (c *Compiler) call(expr *ast.CallExpr) {
	c.emitOp(OP_NONE)

	for _, arg := range expr.Args {
		c.expression(arg)
	}

	c.expression(expr.Target)

	if len(expr.Args) > 255 {
		view := expr.Args[255].View()
		for _, arg := range expr.Args[256:] {
			view = view.Union(arg.View())
		}
		c.errorAt(view, fmt.Sprintf("Too many arguments in function call (max: %d)", 255))
		return
	}

	c.marker(expr.Span)
	c.emitOp(OP_CALL)
	c.emitByte(byte(len(expr.Args)))
}

// assignment leaves the assigned value on the stack; only identifiers and
// properties are valid targets.
func (c *Compiler) assignment(expr *ast.AssignmentExpr) {
	c.expression(expr.Value)

	switch target := expr.Target.(type) {
	case *ast.Identifier:
		c.identifier(target, false)

	case *ast.PropertyExpr:
		c.expression(target.Expr)
		c.marker(target.Prop.Span)
		index := c.makeNameConstant(target.Prop.Name, target.Prop.Span)
		c.emitOp(OP_SET_PROPERTY)
		c.emitByte(byte(index))

	default:
		c.errorAt(expr.Target.View(), "Invalid assignment target")
	}
}

// identifier resolves a name to a local slot, an upvalue, or a module
// global, in that order.
func (c *Compiler) identifier(id *ast.Identifier, get bool) {
	if local := c.findLocal(c.data, id.Name); local != -1 {
		if get {
			c.emitOp(OP_GET_LOCAL)
		} else {
			c.emitOp(OP_SET_LOCAL)
		}
		c.emitByte(byte(local))
		return
	}

	if upvalue := c.findUpvalue(c.data, id.Name, id.Span); upvalue != -1 {
		if get {
			c.emitOp(OP_GET_UPVALUE)
		} else {
			c.emitOp(OP_SET_UPVALUE)
		}
		c.emitByte(byte(upvalue))
		return
	}

	c.marker(id.Span)
	index := c.makeNameConstant(id.Name, id.Span)
	if get {
		c.emitOp(OP_GET_GLOBAL)
	} else {
		c.emitOp(OP_SET_GLOBAL)
	}
	c.emitByte(byte(index))
}
