// Package domain provides core domain models and types.
package domain

import (
	"fmt"
	"math/bits"
)

// Qubit identifies a single qubit. It carries no state; two qubits are the
// same qubit when their coordinates match.
type Qubit struct {
	Row int `json:"row" msgpack:"row"`
	Col int `json:"col" msgpack:"col"`
}

// GridQubit returns the qubit at the given grid coordinate.
func GridQubit(row, col int) Qubit {
	return Qubit{Row: row, Col: col}
}

// LineQubits returns n qubits laid out on row 0.
func LineQubits(n int) []Qubit {
	qubits := make([]Qubit, n)
	for i := range qubits {
		qubits[i] = Qubit{Row: 0, Col: i}
	}
	return qubits
}

// String renders the qubit as q(row, col)
func (q Qubit) String() string {
	return fmt.Sprintf("q(%d, %d)", q.Row, q.Col)
}

// Register is an ordered, immutable set of qubits.
//
// The position of a qubit in the register fixes its place in every state
// vector and matrix built against the register: qubit 0 is the most
// significant bit of a basis-state index. Simulation, expectation values and
// matrix construction all go through Mask, so they cannot disagree.
type Register struct {
	qubits []Qubit
	index  map[Qubit]int
}

// MaxRegisterSize is the largest register whose dimension 2^n fits in an int.
const MaxRegisterSize = bits.UintSize - 2

// NewRegister creates a register from the given qubit order.
func NewRegister(qubits []Qubit) (*Register, error) {
	if len(qubits) == 0 {
		return nil, NewConfigError("register", ErrQubitCount, "at least one qubit required")
	}
	if len(qubits) > MaxRegisterSize {
		return nil, NewConfigError("register", ErrTooLarge,
			fmt.Sprintf("%d qubits, at most %d", len(qubits), MaxRegisterSize))
	}

	index := make(map[Qubit]int, len(qubits))
	ordered := make([]Qubit, len(qubits))
	for i, q := range qubits {
		if _, dup := index[q]; dup {
			return nil, NewConfigError("register", ErrDuplicateQubit, q.String())
		}
		index[q] = i
		ordered[i] = q
	}

	return &Register{qubits: ordered, index: index}, nil
}

// Size returns the number of qubits.
func (r *Register) Size() int {
	return len(r.qubits)
}

// Dimension returns 2^Size.
func (r *Register) Dimension() int {
	return 1 << len(r.qubits)
}

// Qubits returns a copy of the ordered qubit list.
func (r *Register) Qubits() []Qubit {
	out := make([]Qubit, len(r.qubits))
	copy(out, r.qubits)
	return out
}

// Index returns the position of q, or false if q is not in the register.
func (r *Register) Index(q Qubit) (int, bool) {
	i, ok := r.index[q]
	return i, ok
}

// Contains reports whether q belongs to the register.
func (r *Register) Contains(q Qubit) bool {
	_, ok := r.index[q]
	return ok
}

// Mask returns the basis-index bit for the qubit at position i.
func (r *Register) Mask(i int) int {
	return 1 << (len(r.qubits) - 1 - i)
}

// MaskOf returns the basis-index bit for q.
func (r *Register) MaskOf(q Qubit) (int, error) {
	i, ok := r.index[q]
	if !ok {
		return 0, NewConfigError("register", ErrUnknownQubit, q.String())
	}
	return r.Mask(i), nil
}

// IndexMap returns a copy of the qubit to position map.
func (r *Register) IndexMap() map[Qubit]int {
	out := make(map[Qubit]int, len(r.index))
	for q, i := range r.index {
		out[q] = i
	}
	return out
}
