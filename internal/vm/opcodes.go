// Package vm implements the Kite bytecode compiler and virtual machine.
package vm

// Opcode represents a single VM instruction. Multi-byte operands are
// big-endian u16; constant-pool indices are single bytes.
type Opcode byte

const (
	OP_EXIT    Opcode = iota // u8 exit code; return to host
	OP_RETURN                // close upvalues at frame base, pop frame
	OP_POP                   // discard top of stack
	OP_POP_LOCALS            // u8 n: close upvalues at top-n, pop n

	// Constants and literals
	OP_NAME        // u8 idx: push names[idx]
	OP_NUMBER      // u8 idx: push numbers[idx]
	OP_BYTE_NUMBER // u8 v: push float64(v)
	OP_TRUE
	OP_FALSE
	OP_NONE

	// Arithmetic
	OP_ADD // number+number or string+string
	OP_SUB
	OP_MUL
	OP_DIV
	OP_MOD
	OP_POW
	OP_NEG // unary minus, numbers only

	// Comparison
	OP_EQ
	OP_GT
	OP_LT
	OP_GE
	OP_LE

	OP_NOT // push !truthy(pop)

	OP_PRINT // u8 n: pop n values, join with spaces, newline

	// Variables
	OP_DEFINE_GLOBAL // u8 idx: globals[names[idx]] = pop
	OP_GET_GLOBAL    // u8 idx
	OP_SET_GLOBAL    // u8 idx, peeks
	OP_GET_LOCAL     // u8 idx: push sp[idx]
	OP_SET_LOCAL     // u8 idx: sp[idx] = peek
	OP_GET_UPVALUE   // u8 idx
	OP_SET_UPVALUE   // u8 idx

	// Properties (reserved: the VM rejects these at runtime)
	OP_GET_PROPERTY // u8 idx
	OP_SET_PROPERTY // u8 idx

	// Control flow
	OP_JUMP              // u16 d: ip += d
	OP_JUMP_BACK         // u16 d: ip -= d
	OP_JUMP_IF_TRUE      // u16 d: branch on truthy(peek) without popping
	OP_JUMP_IF_FALSE     // u16 d: branch on !truthy(peek) without popping
	OP_JUMP_POP_IF_FALSE // u16 d: branch on !truthy(pop)

	// Functions
	OP_FUNCTION // u8 protoIdx, then (index, isLocal) byte pairs
	OP_CALL     // u8 argc

	// Types (reserved: the VM rejects these at runtime)
	OP_TYPE    // u8 nameIdx
	OP_INHERIT // u8 parent count
)

// OpcodeNames maps opcodes to display names for the disassembler.
var OpcodeNames = map[Opcode]string{
	OP_EXIT:              "EXIT",
	OP_RETURN:            "RETURN",
	OP_POP:               "POP",
	OP_POP_LOCALS:        "POP_LOCALS",
	OP_NAME:              "NAME",
	OP_NUMBER:            "NUMBER",
	OP_BYTE_NUMBER:       "BYTE_NUMBER",
	OP_TRUE:              "TRUE",
	OP_FALSE:             "FALSE",
	OP_NONE:              "NONE",
	OP_ADD:               "ADD",
	OP_SUB:               "SUB",
	OP_MUL:               "MUL",
	OP_DIV:               "DIV",
	OP_MOD:               "MOD",
	OP_POW:               "POW",
	OP_NEG:               "NEG",
	OP_EQ:                "EQ",
	OP_GT:                "GT",
	OP_LT:                "LT",
	OP_GE:                "GE",
	OP_LE:                "LE",
	OP_NOT:               "NOT",
	OP_PRINT:             "PRINT",
	OP_DEFINE_GLOBAL:     "DEFINE_GLOBAL",
	OP_GET_GLOBAL:        "GET_GLOBAL",
	OP_SET_GLOBAL:        "SET_GLOBAL",
	OP_GET_LOCAL:         "GET_LOCAL",
	OP_SET_LOCAL:         "SET_LOCAL",
	OP_GET_UPVALUE:       "GET_UPVALUE",
	OP_SET_UPVALUE:       "SET_UPVALUE",
	OP_GET_PROPERTY:      "GET_PROPERTY",
	OP_SET_PROPERTY:      "SET_PROPERTY",
	OP_JUMP:              "JUMP",
	OP_JUMP_BACK:         "JUMP_BACK",
	OP_JUMP_IF_TRUE:      "JUMP_IF_TRUE",
	OP_JUMP_IF_FALSE:     "JUMP_IF_FALSE",
	OP_JUMP_POP_IF_FALSE: "JUMP_POP_IF_FALSE",
	OP_FUNCTION:          "FUNCTION",
	OP_CALL:              "CALL",
	OP_TYPE:              "TYPE",
	OP_INHERIT:           "INHERIT",
}

func (op Opcode) String() string {
	if name, ok := OpcodeNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}
