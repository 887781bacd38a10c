package vm

import (
	"fmt"
	"io"
	"strings"
)

// Disassemble writes a human-readable dump of a chunk and, recursively,
// the prototypes in its pool.
func Disassemble(w io.Writer, chunk *Chunk, name string) {
	fmt.Fprintf(w, ">=== %s ===<\n", name)

	for offset := 0; offset < chunk.Len(); {
		offset = disassembleInstruction(w, chunk, offset)
	}

	fmt.Fprintf(w, ">====%s====<\n", strings.Repeat("=", len(name)))

	for _, proto := range chunk.Protos {
		Disassemble(w, proto.Chunk, fmt.Sprintf("func %s/%d", proto.Name, proto.Argc))
	}
}

func disassembleInstruction(w io.Writer, chunk *Chunk, offset int) int {
	fmt.Fprintf(w, "%04d ", offset)

	op := Opcode(chunk.Code[offset])

	switch op {
	case OP_RETURN, OP_POP, OP_TRUE, OP_FALSE, OP_NONE,
		OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_MOD, OP_POW, OP_NEG,
		OP_EQ, OP_GT, OP_LT, OP_GE, OP_LE, OP_NOT:
		return simpleInstruction(w, op, offset)

	case OP_EXIT, OP_POP_LOCALS, OP_BYTE_NUMBER, OP_PRINT, OP_CALL,
		OP_GET_LOCAL, OP_SET_LOCAL, OP_GET_UPVALUE, OP_SET_UPVALUE,
		OP_INHERIT:
		return byteInstruction(w, op, chunk, offset)

	case OP_NUMBER:
		return numberInstruction(w, op, chunk, offset)

	case OP_NAME, OP_DEFINE_GLOBAL, OP_GET_GLOBAL, OP_SET_GLOBAL,
		OP_GET_PROPERTY, OP_SET_PROPERTY, OP_TYPE:
		return nameInstruction(w, op, chunk, offset)

	case OP_JUMP, OP_JUMP_BACK, OP_JUMP_IF_TRUE, OP_JUMP_IF_FALSE,
		OP_JUMP_POP_IF_FALSE:
		return shortInstruction(w, op, chunk, offset)

	case OP_FUNCTION:
		return functionInstruction(w, chunk, offset)
	}

	fmt.Fprintf(w, "Unknown Instruction (%d)\n", byte(op))
	return offset + 1
}

func simpleInstruction(w io.Writer, op Opcode, offset int) int {
	fmt.Fprintf(w, "%s\n", op)
	return offset + 1
}

func byteInstruction(w io.Writer, op Opcode, chunk *Chunk, offset int) int {
	fmt.Fprintf(w, "%-18s %4d\n", op, chunk.Code[offset+1])
	return offset + 2
}

func numberInstruction(w io.Writer, op Opcode, chunk *Chunk, offset int) int {
	index := chunk.Code[offset+1]
	fmt.Fprintf(w, "%-18s %s (%d)\n", op, formatNumber(chunk.Numbers[index]), index)
	return offset + 2
}

func nameInstruction(w io.Writer, op Opcode, chunk *Chunk, offset int) int {
	index := chunk.Code[offset+1]
	fmt.Fprintf(w, "%-18s %s (%d)\n", op, chunk.Names[index], index)
	return offset + 2
}

func shortInstruction(w io.Writer, op Opcode, chunk *Chunk, offset int) int {
	value := int(chunk.Code[offset+1])<<8 | int(chunk.Code[offset+2])
	fmt.Fprintf(w, "%-18s %4d\n", op, value)
	return offset + 3
}

// functionInstruction prints the prototype reference and the capture
// pairs that follow the operand.
func functionInstruction(w io.Writer, chunk *Chunk, offset int) int {
	index := chunk.Code[offset+1]
	proto := chunk.Protos[index]
	fmt.Fprintf(w, "%-18s %s/%d (%d)\n", OP_FUNCTION, proto.Name, proto.Argc, index)

	offset += 2
	for i := 0; i < int(proto.UpvalueCount); i++ {
		slot := chunk.Code[offset]
		kind := "upvalue"
		if chunk.Code[offset+1] == 1 {
			kind = "local"
		}
		fmt.Fprintf(w, "%04d      | capture %s %d\n", offset, kind, slot)
		offset += 2
	}

	return offset
}
