package vm

import (
	"math/rand"
	"strings"

	"github.com/funvibe/kite/internal/config"
)

// builtinInput writes the prompt (no newline) and reads one line from the
// VM's input, without the trailing newline.
func builtinInput(h *BuiltinHelper, argc int) bool {
	if h.AssertArgc(argc, 1) {
		return false
	}
	if h.AssertArgType(0, ValString, "String") {
		return false
	}

	h.vm.out.Write([]byte(h.Arg(0).Str))

	line, err := h.vm.in.ReadString('\n')
	if err != nil && line == "" {
		h.Error("Failed to read from input")
		return false
	}

	line = strings.TrimRight(line, "\r\n")
	h.SetReturn(StringVal(line))
	return true
}

// builtinRandom returns a uniform integer in [min, max], inclusive.
func builtinRandom(h *BuiltinHelper, argc int) bool {
	if h.AssertArgc(argc, 2) {
		return false
	}
	if h.AssertArgType(0, ValNumber, "Number") {
		return false
	}
	if h.AssertArgType(1, ValNumber, "Number") {
		return false
	}

	lo := int64(h.Arg(0).AsNumber())
	hi := int64(h.Arg(1).AsNumber())
	if hi < lo {
		h.Error("Expected min to be less than or equal to max")
		return false
	}

	h.SetReturn(NumberVal(float64(lo + rand.Int63n(hi-lo+1))))
	return true
}

// RegisterBuiltins merges the host-provided functions into a module's
// globals.
func RegisterBuiltins(mod *Module) {
	builtins := []*BuiltinFunction{
		{Name: config.InputFuncName, Fn: builtinInput},
		{Name: config.RandomFuncName, Fn: builtinRandom},
	}

	for _, fn := range builtins {
		mod.Globals[fn.Name] = ObjVal(fn)
	}
}
