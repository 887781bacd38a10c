package vm

import (
	"strconv"
	"testing"

	"github.com/funvibe/kite/internal/ast"
	"github.com/funvibe/kite/internal/parser"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()

	p := parser.New(input, "test.kite")
	prog := p.Parse()
	if p.Failed() {
		t.Fatalf("parse error: %s", p.Err().Msg)
	}

	return prog
}

func compile(t *testing.T, input string) *Chunk {
	t.Helper()

	c := NewCompiler("test.kite")
	chunk := c.Compile(parse(t, input))
	if c.Failed() {
		t.Fatalf("compile error: %s", c.Err().Msg)
	}

	return chunk
}

func compileError(t *testing.T, input string) string {
	t.Helper()

	c := NewCompiler("test.kite")
	c.Compile(parse(t, input))
	if !c.Failed() {
		t.Fatalf("expected compilation of %q to fail", input)
	}
	if c.Err().Kind != "CompileError" {
		t.Fatalf("wrong error kind. got=%s", c.Err().Kind)
	}

	return c.Err().Msg
}

func TestSmallIntegersUseByteNumbers(t *testing.T) {
	chunk := compile(t, "print 1;")

	want := []byte{
		byte(OP_BYTE_NUMBER), 1,
		byte(OP_PRINT), 1,
		byte(OP_EXIT), 0,
	}

	if len(chunk.Code) != len(want) {
		t.Fatalf("wrong bytecode length. got=%d, want=%d\n%v", len(chunk.Code), len(want), chunk.Code)
	}
	for i := range want {
		if chunk.Code[i] != want[i] {
			t.Errorf("byte %d: got=%d, want=%d", i, chunk.Code[i], want[i])
		}
	}

	if len(chunk.Numbers) != 0 {
		t.Errorf("byte numbers must not use the pool. got=%d entries", len(chunk.Numbers))
	}
}

func TestLargeAndFractionalNumbersUseThePool(t *testing.T) {
	chunk := compile(t, "print 300, 2.5, 0, 255;")

	if len(chunk.Numbers) != 2 {
		t.Fatalf("wrong pool size. got=%d, want=2 (%v)", len(chunk.Numbers), chunk.Numbers)
	}
}

func TestConstantPoolsDeduplicate(t *testing.T) {
	chunk := compile(t, `var a = 300; var b = 300; print "s", "s"; a = a; b = b;`)

	if len(chunk.Numbers) != 1 {
		t.Errorf("numbers not deduplicated: %v", chunk.Numbers)
	}

	seen := map[string]bool{}
	for _, name := range chunk.Names {
		if seen[name] {
			t.Errorf("name %q duplicated in pool %v", name, chunk.Names)
		}
		seen[name] = true
	}
}

func TestNotEqualLowersToEqualNot(t *testing.T) {
	chunk := compile(t, "1 != 2;")

	want := []byte{
		byte(OP_BYTE_NUMBER), 1,
		byte(OP_BYTE_NUMBER), 2,
		byte(OP_EQ),
		byte(OP_NOT),
		byte(OP_POP),
		byte(OP_EXIT), 0,
	}

	for i := range want {
		if chunk.Code[i] != want[i] {
			t.Fatalf("byte %d: got=%d, want=%d\n%v", i, chunk.Code[i], want[i], chunk.Code)
		}
	}
}

func TestGlobalDeclarationEmitsDefineGlobal(t *testing.T) {
	chunk := compile(t, "var x = 1;")

	want := []byte{
		byte(OP_BYTE_NUMBER), 1,
		byte(OP_DEFINE_GLOBAL), 0,
		byte(OP_EXIT), 0,
	}

	for i := range want {
		if chunk.Code[i] != want[i] {
			t.Fatalf("byte %d: got=%d, want=%d\n%v", i, chunk.Code[i], want[i], chunk.Code)
		}
	}
	if chunk.Names[0] != "x" {
		t.Errorf("wrong name constant. got=%q", chunk.Names[0])
	}
}

func TestBlockLocalsCompileToSlots(t *testing.T) {
	chunk := compile(t, "{ var a = 1; var b = 2; print a, b; }")

	// Inside the block, a and b resolve to local slots 0 and 1 and the
	// block closes with POP_LOCALS 2.
	code := chunk.Code
	foundPop := false
	for i := 0; i < len(code)-1; i++ {
		if Opcode(code[i]) == OP_POP_LOCALS && code[i+1] == 2 {
			foundPop = true
		}
		if Opcode(code[i]) == OP_DEFINE_GLOBAL {
			t.Fatal("block locals must not become globals")
		}
	}
	if !foundPop {
		t.Errorf("missing POP_LOCALS 2: %v", code)
	}
}

func TestFunctionPrototype(t *testing.T) {
	chunk := compile(t, "func add(a, b) { return a + b; }")

	if len(chunk.Protos) != 1 {
		t.Fatalf("wrong prototype count. got=%d", len(chunk.Protos))
	}

	proto := chunk.Protos[0]
	if proto.Name != "add" {
		t.Errorf("wrong name. got=%q", proto.Name)
	}
	if proto.Argc != 2 {
		t.Errorf("wrong argc. got=%d", proto.Argc)
	}
	if proto.UpvalueCount != 0 {
		t.Errorf("wrong upvalue count. got=%d", proto.UpvalueCount)
	}

	// return a + b: args occupy slots 1 and 2 above the return slot.
	code := proto.Chunk.Code
	want := []byte{
		byte(OP_GET_LOCAL), 1,
		byte(OP_GET_LOCAL), 2,
		byte(OP_ADD),
		byte(OP_SET_LOCAL), 0,
		byte(OP_POP),
		byte(OP_RETURN),
	}
	for i := range want {
		if code[i] != want[i] {
			t.Fatalf("byte %d: got=%d, want=%d\n%v", i, code[i], want[i], code)
		}
	}
}

func TestClosureCapturesAreRecorded(t *testing.T) {
	chunk := compile(t, `
func outer() {
	var n = 0;
	func inner() { n = n + 1; return n; }
	return inner;
}
`)

	outer := chunk.Protos[0]
	if len(outer.Chunk.Protos) != 1 {
		t.Fatalf("inner prototype missing")
	}

	inner := outer.Chunk.Protos[0]
	if inner.UpvalueCount != 1 {
		t.Fatalf("wrong upvalue count. got=%d, want=1", inner.UpvalueCount)
	}

	// The capture pair (slot, isLocal) follows OP_FUNCTION's operand in
	// the outer chunk: n lives at slot 1 of outer's frame.
	code := outer.Chunk.Code
	for i := 0; i < len(code)-3; i++ {
		if Opcode(code[i]) == OP_FUNCTION {
			if code[i+2] != 1 || code[i+3] != 1 {
				t.Errorf("wrong capture pair. got=(%d,%d), want=(1,1)", code[i+2], code[i+3])
			}
			return
		}
	}
	t.Fatal("OP_FUNCTION not found in outer chunk")
}

func TestBackwardJumpLandsOnLoopStart(t *testing.T) {
	chunk := compile(t, "loop { }")

	// Find the JUMP_BACK and simulate the VM's read: ip after the operand
	// minus the distance must equal the loop start.
	code := chunk.Code
	for i := 0; i < len(code)-2; i++ {
		if Opcode(code[i]) == OP_JUMP_BACK {
			distance := int(code[i+1])<<8 | int(code[i+2])
			landing := i + 3 - distance
			if Opcode(code[landing]) != OP_POP_LOCALS {
				t.Errorf("back jump lands at %d (%s), want the body start",
					landing, Opcode(code[landing]))
			}
			return
		}
	}
	t.Fatal("OP_JUMP_BACK not found")
}

func TestMarkersAreRecordedForFailableOps(t *testing.T) {
	chunk := compile(t, "print missing;")

	if len(chunk.Markers) == 0 {
		t.Fatal("no markers recorded")
	}

	view, ok := chunk.MarkerAt(chunk.Markers[0].Offset)
	if !ok {
		t.Fatal("marker lookup failed")
	}
	if view.Length != len("missing") {
		t.Errorf("marker view has wrong length. got=%d", view.Length)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{"break;", "Cannot use break statement outside of loop"},
		{"continue;", "Cannot use continue statement outside of loop"},
		{"return 1;", "Return outside function"},
		{"1 = 2;", "Invalid assignment target"},
		{"(a) + 1 = 2;", "Invalid assignment target"},
		{"for x in y { }", "For loops are not supported yet"},
		{"exit 300;", "Error code can't be greater than 255"},
		{"{ var a; var a; }", "Already a local called 'a'"},
	}

	for _, tt := range tests {
		if msg := compileError(t, tt.input); msg != tt.msg {
			t.Errorf("input %q: wrong message.\ngot:  %s\nwant: %s", tt.input, msg, tt.msg)
		}
	}
}

func TestBreakInsideFunctionInsideLoopIsAnError(t *testing.T) {
	// The loop context does not cross function boundaries.
	msg := compileError(t, "loop { func f() { break; } }")
	if msg != "Cannot use break statement outside of loop" {
		t.Errorf("wrong message: %s", msg)
	}
}

func TestTooManyNumberConstants(t *testing.T) {
	src := ""
	for i := 0; i < 300; i++ {
		// Fractional values bypass the byte-number fast path.
		src += "0.5 + " + strconv.Itoa(i) + ".5;\n"
	}

	msg := compileError(t, src)
	if msg != "Too many constants in pool" {
		t.Errorf("wrong message: %s", msg)
	}
}

