package vm

import (
	"fmt"
	"math"
	"strings"
)

// run is the main dispatch loop. The first runtime failure stops the loop
// with exit code 1; OP_EXIT stops it cleanly with the program's code.
func (vm *VM) run() Result {
	for {
		op := Opcode(vm.readByte())
		if vm.trace {
			vm.traceOp(op)
		}

		switch op {
		case OP_EXIT:
			code := vm.readByte()
			return Result{ExitCode: int(code)}

		case OP_RETURN:
			vm.closeUpvalues(vm.frame.base)
			vm.stack = vm.stack[:vm.frame.base+1]
			vm.frames = vm.frames[:len(vm.frames)-1]
			if len(vm.frames) == 0 {
				return Result{ExitCode: 0}
			}
			vm.frame = &vm.frames[len(vm.frames)-1]

		case OP_POP:
			vm.pop()

		case OP_POP_LOCALS:
			count := int(vm.readByte())
			if count > len(vm.stack) {
				vm.runtimeError("Tried to pop on empty stack")
				break
			}
			vm.closeUpvalues(len(vm.stack) - count)
			vm.stack = vm.stack[:len(vm.stack)-count]

		case OP_NAME:
			vm.push(StringVal(vm.readNameConstant()))

		case OP_NUMBER:
			vm.push(NumberVal(vm.readNumberConstant()))

		case OP_BYTE_NUMBER:
			vm.push(NumberVal(float64(vm.readByte())))

		case OP_TRUE:
			vm.push(BoolVal(true))

		case OP_FALSE:
			vm.push(BoolVal(false))

		case OP_NONE:
			vm.push(NoneVal())

		case OP_ADD:
			b := vm.pop()
			a := vm.pop()

			if a.IsNumber() && b.IsNumber() {
				vm.push(NumberVal(a.AsNumber() + b.AsNumber()))
			} else if a.IsString() && b.IsString() {
				vm.push(StringVal(a.Str + b.Str))
			} else {
				vm.runtimeError("Can only add numbers or strings")
			}

		case OP_SUB, OP_MUL, OP_DIV, OP_MOD, OP_POW,
			OP_GT, OP_LT, OP_GE, OP_LE:
			vm.binaryNumberOp(op)

		case OP_EQ:
			b := vm.pop()
			a := vm.pop()
			vm.push(BoolVal(a.Equals(b)))

		case OP_NOT:
			vm.push(BoolVal(!vm.pop().IsTruthy()))

		case OP_NEG:
			a := vm.pop()
			if !a.IsNumber() {
				vm.runtimeError("Can only negate a number")
				break
			}
			vm.push(NumberVal(-a.AsNumber()))

		case OP_PRINT:
			count := int(vm.readByte())
			var out strings.Builder
			for i := 0; i < count; i++ {
				if i > 0 {
					out.WriteByte(' ')
				}
				out.WriteString(vm.pop().String())
			}
			fmt.Fprintln(vm.out, out.String())

		case OP_DEFINE_GLOBAL:
			vm.frame.module.Globals[vm.readNameConstant()] = vm.pop()

		case OP_GET_GLOBAL:
			name := vm.readNameConstant()
			value, ok := vm.frame.module.Globals[name]
			if !ok {
				vm.runtimeError(fmt.Sprintf("Couldn't find global named %s in current module", name))
				break
			}
			vm.push(value)

		case OP_SET_GLOBAL:
			name := vm.readNameConstant()
			if _, ok := vm.frame.module.Globals[name]; !ok {
				vm.runtimeError(fmt.Sprintf("Couldn't find global named %s in current module", name))
				break
			}
			vm.frame.module.Globals[name] = vm.peek(0)

		case OP_GET_LOCAL:
			vm.push(vm.stack[vm.frame.base+int(vm.readByte())])

		case OP_SET_LOCAL:
			vm.stack[vm.frame.base+int(vm.readByte())] = vm.peek(0)

		case OP_GET_UPVALUE:
			vm.push(vm.frame.fn.Upvalues[vm.readByte()].Get())

		case OP_SET_UPVALUE:
			vm.frame.fn.Upvalues[vm.readByte()].Set(vm.peek(0))

		case OP_GET_PROPERTY, OP_SET_PROPERTY:
			vm.readByte()
			vm.runtimeError("Properties are not supported yet")

		case OP_JUMP:
			vm.frame.ip += int(vm.readShort())

		case OP_JUMP_BACK:
			vm.frame.ip -= int(vm.readShort())

		case OP_JUMP_IF_TRUE:
			distance := int(vm.readShort())
			if vm.peek(0).IsTruthy() {
				vm.frame.ip += distance
			}

		case OP_JUMP_IF_FALSE:
			distance := int(vm.readShort())
			if !vm.peek(0).IsTruthy() {
				vm.frame.ip += distance
			}

		case OP_JUMP_POP_IF_FALSE:
			distance := int(vm.readShort())
			if !vm.pop().IsTruthy() {
				vm.frame.ip += distance
			}

		case OP_FUNCTION:
			vm.makeFunction()

		case OP_CALL:
			argc := int(vm.readByte())
			callee := vm.pop()
			vm.callValue(callee, argc)

		case OP_TYPE:
			vm.readByte()
			vm.runtimeError("Types are not supported yet")

		case OP_INHERIT:
			vm.readByte()
			vm.runtimeError("Types are not supported yet")

		default:
			vm.runtimeError(fmt.Sprintf("Unknown Instruction (%d)", int(op)))
		}

		if vm.hadError {
			return Result{ExitCode: 1}
		}
	}
}

// makeFunction builds a closure from a prototype, capturing each upvalue
// from the current frame's stack window or re-using the enclosing
// function's captures.
func (vm *VM) makeFunction() {
	proto := vm.frame.chunk.Protos[vm.readByte()]

	fn := &Function{
		Proto:    proto,
		Module:   vm.frame.module,
		Upvalues: make([]*Upvalue, proto.UpvalueCount),
	}

	for i := 0; i < int(proto.UpvalueCount); i++ {
		index := int(vm.readByte())
		isLocal := vm.readByte() == 1

		if isLocal {
			fn.Upvalues[i] = vm.captureUpvalue(vm.frame.base + index)
		} else {
			fn.Upvalues[i] = vm.frame.fn.Upvalues[index]
		}
	}

	vm.push(ObjVal(fn))
}

var numberOpErrors = map[Opcode]string{
	OP_SUB: "Can only subtract numbers",
	OP_MUL: "Can only multiply numbers",
	OP_DIV: "Can only divide numbers",
	OP_MOD: "Can only modulo numbers",
	OP_POW: "Can only exponentiate numbers",
	OP_GT:  "Can only compare numbers",
	OP_LT:  "Can only compare numbers",
	OP_GE:  "Can only compare numbers",
	OP_LE:  "Can only compare numbers",
}

// binaryNumberOp handles the operators defined on numbers only.
func (vm *VM) binaryNumberOp(op Opcode) {
	b := vm.pop()
	a := vm.pop()
	if vm.hadError {
		return
	}

	if !a.IsNumber() || !b.IsNumber() {
		vm.runtimeError(numberOpErrors[op])
		return
	}

	x, y := a.AsNumber(), b.AsNumber()

	switch op {
	case OP_SUB:
		vm.push(NumberVal(x - y))
	case OP_MUL:
		vm.push(NumberVal(x * y))
	case OP_DIV:
		vm.push(NumberVal(x / y))
	case OP_MOD:
		vm.push(NumberVal(math.Mod(x, y)))
	case OP_POW:
		vm.push(NumberVal(math.Pow(x, y)))
	case OP_GT:
		vm.push(BoolVal(x > y))
	case OP_LT:
		vm.push(BoolVal(x < y))
	case OP_GE:
		vm.push(BoolVal(x >= y))
	case OP_LE:
		vm.push(BoolVal(x <= y))
	}
}
