package vm

import (
	"bytes"
	"testing"
)

func TestArgCountMismatch(t *testing.T) {
	msg := runFail(t, "func f(a, b) { return a + b; } f(1);")
	if msg != "Expected 2 arguments, got 1" {
		t.Errorf("wrong message: %s", msg)
	}

	msg = runFail(t, "func g(a) { return a; } g(1, 2);")
	if msg != "Expected 1 argument, got 2" {
		t.Errorf("singular form expected: %s", msg)
	}
}

func TestInvalidCallTarget(t *testing.T) {
	for _, src := range []string{"var x = 1; x();", `"s"();`, "true();", "var n; n();"} {
		if msg := runFail(t, src); msg != "Invalid call target" {
			t.Errorf("input %q: wrong message: %s", src, msg)
		}
	}
}

func TestMissingGlobal(t *testing.T) {
	msg := runFail(t, "print missing;")
	if msg != "Couldn't find global named missing in current module" {
		t.Errorf("wrong message: %s", msg)
	}

	msg = runFail(t, "missing = 1;")
	if msg != "Couldn't find global named missing in current module" {
		t.Errorf("assignment to undeclared global: %s", msg)
	}
}

func TestTypeMismatches(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{`print 1 + "s";`, "Can only add numbers or strings"},
		{`print none + none;`, "Can only add numbers or strings"},
		{`print "a" - "b";`, "Can only subtract numbers"},
		{`print "a" * 2;`, "Can only multiply numbers"},
		{`print true / 2;`, "Can only divide numbers"},
		{`print "a" % 2;`, "Can only modulo numbers"},
		{`print "a" ^ 2;`, "Can only exponentiate numbers"},
		{`print "a" < "b";`, "Can only compare numbers"},
		{`print 1 > none;`, "Can only compare numbers"},
		{`print -"s";`, "Can only negate a number"},
	}

	for _, tt := range tests {
		if msg := runFail(t, tt.input); msg != tt.msg {
			t.Errorf("input %q: wrong message.\ngot:  %s\nwant: %s", tt.input, msg, tt.msg)
		}
	}
}

func TestPropertiesAreRejectedAtRuntime(t *testing.T) {
	msg := runFail(t, "var x = 1; print x.field;")
	if msg != "Properties are not supported yet" {
		t.Errorf("wrong message: %s", msg)
	}
}

func TestTypesAreRejectedAtRuntime(t *testing.T) {
	msg := runFail(t, "type Shape { }")
	if msg != "Types are not supported yet" {
		t.Errorf("wrong message: %s", msg)
	}
}

func TestCallStackOverflow(t *testing.T) {
	msg := runFail(t, "func f() { return f(); } f();")
	if msg != "Call stack overflow" {
		t.Errorf("wrong message: %s", msg)
	}
}

func TestBuiltinArgumentErrors(t *testing.T) {
	msg := runFail(t, "input(1);")
	if msg != "Expected argument 0 to be of type 'String', got 'Number' instead" {
		t.Errorf("wrong message: %s", msg)
	}

	msg = runFail(t, `random("a", 2);`)
	if msg != "Expected argument 0 to be of type 'Number', got 'String' instead" {
		t.Errorf("wrong message: %s", msg)
	}

	msg = runFail(t, "random(1);")
	if msg != "Expected 2 arguments, got 1" {
		t.Errorf("wrong message: %s", msg)
	}

	msg = runFail(t, "random(6, 1);")
	if msg != "Expected min to be less than or equal to max" {
		t.Errorf("wrong message: %s", msg)
	}
}

func TestRuntimeErrorCarriesAMarkerView(t *testing.T) {
	state := NewState()
	var out bytes.Buffer
	state.SetOutput(&out)

	source := "var ok = 1;\nprint ok + missing;"
	_, err := state.Run(source, "test.kite")
	if err == nil {
		t.Fatal("expected failure")
	}

	if err.View.Line != 2 {
		t.Errorf("wrong line. got=%d, want=2", err.View.Line)
	}

	start := err.View.Index
	end := err.View.End()
	if source[start:end] != "missing" {
		t.Errorf("view does not cover the name. got=%q", source[start:end])
	}
}

func TestRuntimeErrorStopsExecution(t *testing.T) {
	state := NewState()
	var out bytes.Buffer
	state.SetOutput(&out)

	result, err := state.Run("print 1;\nprint missing;\nprint 2;", "test.kite")
	if err == nil {
		t.Fatal("expected failure")
	}
	if result.ExitCode != 1 {
		t.Errorf("wrong exit code. got=%d, want=1", result.ExitCode)
	}
	if out.String() != "1\n" {
		t.Errorf("execution continued after the error. got=%q", out.String())
	}
}

func TestErrorExitCodeIsOne(t *testing.T) {
	state := NewState()
	var out bytes.Buffer
	state.SetOutput(&out)

	// Syntax, compile, and runtime failures all exit 1.
	for _, src := range []string{"print 1", "break;", "print missing;"} {
		result, err := state.Run(src, "test.kite")
		if err == nil {
			t.Fatalf("expected %q to fail", src)
		}
		if result.ExitCode != 1 {
			t.Errorf("input %q: wrong exit code. got=%d", src, result.ExitCode)
		}
	}
}
