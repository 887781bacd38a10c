package vm

import "fmt"

// Object is implemented by the shared heap kinds. Lifetime is handled by
// the Go runtime; the reference graph is acyclic (functions reference
// modules and upvalues, upvalues never reference functions).
type Object interface {
	Kind() string
	Inspect() string
}

// Prototype is a function template: everything about a function except its
// captured environment. Prototypes live in the enclosing chunk's pool.
type Prototype struct {
	Name         string
	Argc         byte
	UpvalueCount byte
	Chunk        *Chunk
}

// Function is a closure: a prototype bound to its module and captured
// upvalues. Upvalues are captured when OP_FUNCTION executes.
type Function struct {
	Proto    *Prototype
	Module   *Module
	Upvalues []*Upvalue
}

func (f *Function) Kind() string    { return "Function" }
func (f *Function) Inspect() string { return fmt.Sprintf("<func %s>", f.Proto.Name) }

// Upvalue is a captured variable. While open, Location indexes the VM
// value stack; once closed, Location is -1 and Closed owns the value.
// Open upvalues form a singly-linked list sorted by descending Location.
type Upvalue struct {
	Location int
	Closed   Value
	Next     *Upvalue

	stack *[]Value // the owning VM's value stack, valid while open
}

func (u *Upvalue) Kind() string    { return "Upvalue" }
func (u *Upvalue) Inspect() string { return "<upvalue>" }

// IsOpen reports whether the upvalue still points into the value stack.
func (u *Upvalue) IsOpen() bool {
	return u.Location >= 0
}

// Get reads the captured value from wherever it currently lives.
func (u *Upvalue) Get() Value {
	if u.IsOpen() {
		return (*u.stack)[u.Location]
	}
	return u.Closed
}

// Set writes the captured value to wherever it currently lives.
func (u *Upvalue) Set(v Value) {
	if u.IsOpen() {
		(*u.stack)[u.Location] = v
		return
	}
	u.Closed = v
}

// Close copies the stack slot into the upvalue. Closing an already closed
// upvalue is a no-op.
func (u *Upvalue) Close() {
	if !u.IsOpen() {
		return
	}
	u.Closed = (*u.stack)[u.Location]
	u.Location = -1
	u.stack = nil
}

// BuiltinFn is the host ABI: the helper wraps the callee's stack window,
// and the function reports success. On failure the helper has already
// recorded the VM error.
type BuiltinFn func(h *BuiltinHelper, argc int) bool

// BuiltinFunction is a host-provided function bound into module globals.
type BuiltinFunction struct {
	Name string
	Fn   BuiltinFn
}

func (b *BuiltinFunction) Kind() string    { return "BuiltInFunction" }
func (b *BuiltinFunction) Inspect() string { return fmt.Sprintf("<built-in %s>", b.Name) }

// Module is a namespace: a name plus a globals mapping. The State owns the
// root module; a single VM is the only writer.
type Module struct {
	Name    string
	Globals map[string]Value
}

func NewModule(name string) *Module {
	return &Module{Name: name, Globals: make(map[string]Value)}
}

func (m *Module) Kind() string    { return "Module" }
func (m *Module) Inspect() string { return fmt.Sprintf("<module %s>", m.Name) }
