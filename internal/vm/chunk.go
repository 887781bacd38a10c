package vm

import "github.com/funvibe/kite/internal/token"

// Marker attributes a bytecode offset to a source range so the VM can
// report runtime faults against the original text.
type Marker struct {
	Offset int
	View   token.SourceView
}

// Chunk is a compiled unit: bytecode plus constant pools plus markers.
// One chunk exists per function, plus one for the top level.
type Chunk struct {
	Code []byte

	// Constant pools, deduplicated within the chunk
	Numbers []float64
	Names   []string
	Protos  []*Prototype

	Markers []Marker
}

func NewChunk() *Chunk {
	return &Chunk{Code: make([]byte, 0, 64)}
}

// Write appends a raw byte.
func (c *Chunk) Write(b byte) {
	c.Code = append(c.Code, b)
}

// WriteOp appends an opcode.
func (c *Chunk) WriteOp(op Opcode) {
	c.Write(byte(op))
}

// WriteShort appends a big-endian u16 operand.
func (c *Chunk) WriteShort(v uint16) {
	c.Write(byte(v >> 8))
	c.Write(byte(v))
}

// AddNumber interns a number constant and returns its pool index.
func (c *Chunk) AddNumber(value float64) int {
	for i, existing := range c.Numbers {
		if existing == value {
			return i
		}
	}

	c.Numbers = append(c.Numbers, value)
	return len(c.Numbers) - 1
}

// AddName interns a name (or string literal) constant and returns its
// pool index.
func (c *Chunk) AddName(value string) int {
	for i, existing := range c.Names {
		if existing == value {
			return i
		}
	}

	c.Names = append(c.Names, value)
	return len(c.Names) - 1
}

// Mark records that the next instruction to be emitted originates from
// the given source range.
func (c *Chunk) Mark(view token.SourceView) {
	c.Markers = append(c.Markers, Marker{Offset: len(c.Code), View: view})
}

// MarkerAt returns the source view of the nearest marker at or before the
// given offset.
func (c *Chunk) MarkerAt(offset int) (token.SourceView, bool) {
	best := -1
	for i, marker := range c.Markers {
		if marker.Offset <= offset {
			best = i
		} else {
			break
		}
	}

	if best < 0 {
		return token.SourceView{}, false
	}
	return c.Markers[best].View, true
}

// Len returns the number of bytecode bytes.
func (c *Chunk) Len() int {
	return len(c.Code)
}
