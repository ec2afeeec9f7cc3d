// Package circuit provides parameterized quantum circuits, parameter binding
// and an exact state-vector simulator with measurement sampling.
package circuit

import (
	"math"
	"math/cmplx"

	"github.com/aristath/qalgo/internal/domain"
)

// Gate names an operation kind.
type Gate string

const (
	GateH       Gate = "H"
	GateX       Gate = "X"
	GateY       Gate = "Y"
	GateZ       Gate = "Z"
	GateS       Gate = "S"
	GateT       Gate = "T"
	GateSqrtX   Gate = "X^0.5"
	GateRX      Gate = "Rx"
	GateRY      Gate = "Ry"
	GateRZ      Gate = "Rz"
	GateCNOT    Gate = "CNOT"
	GateCZ      Gate = "CZ"
	GateSWAP    Gate = "SWAP"
	GateMeasure Gate = "M"
)

// Angle is either a fixed rotation angle or a named parameter resolved at
// binding time.
type Angle struct {
	Symbol string  `json:"symbol,omitempty"`
	Value  float64 `json:"value"`
}

// Param returns a symbolic angle.
func Param(name string) Angle {
	return Angle{Symbol: name}
}

// Const returns a fixed angle.
func Const(v float64) Angle {
	return Angle{Value: v}
}

// IsSymbolic reports whether the angle still needs a binding.
func (a Angle) IsSymbolic() bool {
	return a.Symbol != ""
}

// Operation is a gate applied to specific qubits.
type Operation struct {
	Gate   Gate           `json:"gate"`
	Qubits []domain.Qubit `json:"qubits"`
	Angle  Angle          `json:"angle"`
	Key    string         `json:"key,omitempty"`
}

func single(g Gate, q domain.Qubit) Operation {
	return Operation{Gate: g, Qubits: []domain.Qubit{q}}
}

func H(q domain.Qubit) Operation     { return single(GateH, q) }
func X(q domain.Qubit) Operation     { return single(GateX, q) }
func Y(q domain.Qubit) Operation     { return single(GateY, q) }
func Z(q domain.Qubit) Operation     { return single(GateZ, q) }
func S(q domain.Qubit) Operation     { return single(GateS, q) }
func T(q domain.Qubit) Operation     { return single(GateT, q) }
func SqrtX(q domain.Qubit) Operation { return single(GateSqrtX, q) }

// RX rotates about the X axis: exp(-i*theta*X/2).
func RX(theta Angle, q domain.Qubit) Operation {
	return Operation{Gate: GateRX, Qubits: []domain.Qubit{q}, Angle: theta}
}

// RY rotates about the Y axis: exp(-i*theta*Y/2).
func RY(theta Angle, q domain.Qubit) Operation {
	return Operation{Gate: GateRY, Qubits: []domain.Qubit{q}, Angle: theta}
}

// RZ rotates about the Z axis: exp(-i*theta*Z/2).
func RZ(theta Angle, q domain.Qubit) Operation {
	return Operation{Gate: GateRZ, Qubits: []domain.Qubit{q}, Angle: theta}
}

// CNOT flips target when control is |1>.
func CNOT(control, target domain.Qubit) Operation {
	return Operation{Gate: GateCNOT, Qubits: []domain.Qubit{control, target}}
}

// CZ applies a phase of -1 to |11>.
func CZ(a, b domain.Qubit) Operation {
	return Operation{Gate: GateCZ, Qubits: []domain.Qubit{a, b}}
}

// SWAP exchanges two qubits.
func SWAP(a, b domain.Qubit) Operation {
	return Operation{Gate: GateSWAP, Qubits: []domain.Qubit{a, b}}
}

// HOnEach applies H to every qubit.
func HOnEach(qubits []domain.Qubit) []Operation {
	ops := make([]Operation, len(qubits))
	for i, q := range qubits {
		ops[i] = H(q)
	}
	return ops
}

// Measure records the listed qubits under key.
func Measure(key string, qubits ...domain.Qubit) Operation {
	qs := make([]domain.Qubit, len(qubits))
	copy(qs, qubits)
	return Operation{Gate: GateMeasure, Qubits: qs, Key: key}
}

// unitary returns the 2x2 matrix of a resolved single-qubit gate, row-major.
func unitary(g Gate, theta float64) ([4]complex128, bool) {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	r := complex(1/math.Sqrt2, 0)
	switch g {
	case GateH:
		return [4]complex128{r, r, r, -r}, true
	case GateX:
		return [4]complex128{0, 1, 1, 0}, true
	case GateY:
		return [4]complex128{0, -1i, 1i, 0}, true
	case GateZ:
		return [4]complex128{1, 0, 0, -1}, true
	case GateS:
		return [4]complex128{1, 0, 0, 1i}, true
	case GateT:
		return [4]complex128{1, 0, 0, cmplx.Exp(complex(0, math.Pi/4))}, true
	case GateSqrtX:
		return [4]complex128{(1 + 1i) / 2, (1 - 1i) / 2, (1 - 1i) / 2, (1 + 1i) / 2}, true
	case GateRX:
		return [4]complex128{c, -1i * s, -1i * s, c}, true
	case GateRY:
		return [4]complex128{c, -s, s, c}, true
	case GateRZ:
		return [4]complex128{cmplx.Exp(complex(0, -theta/2)), 0, 0, cmplx.Exp(complex(0, theta/2))}, true
	}
	return [4]complex128{}, false
}

// applySingle applies u to the qubit with basis bit mask.
func applySingle(state domain.StateVector, mask int, u [4]complex128) {
	for i := range state {
		if i&mask != 0 {
			continue
		}
		j := i | mask
		a, b := state[i], state[j]
		state[i] = u[0]*a + u[1]*b
		state[j] = u[2]*a + u[3]*b
	}
}

func applyCNOT(state domain.StateVector, control, target int) {
	for i := range state {
		if i&control != 0 && i&target == 0 {
			j := i | target
			state[i], state[j] = state[j], state[i]
		}
	}
}

func applyCZ(state domain.StateVector, a, b int) {
	for i := range state {
		if i&a != 0 && i&b != 0 {
			state[i] = -state[i]
		}
	}
}

func applySWAP(state domain.StateVector, a, b int) {
	for i := range state {
		if i&a != 0 && i&b == 0 {
			j := (i &^ a) | b
			state[i], state[j] = state[j], state[i]
		}
	}
}
