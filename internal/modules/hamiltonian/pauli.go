// Package hamiltonian models Hamiltonians as weighted sums of Pauli strings
// over a declared qubit register.
package hamiltonian

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/aristath/qalgo/internal/domain"
)

// Pauli is a single-qubit Pauli operator.
type Pauli byte

const (
	PauliI Pauli = iota
	PauliX
	PauliY
	PauliZ
)

// String returns the operator letter
func (p Pauli) String() string {
	switch p {
	case PauliX:
		return "X"
	case PauliY:
		return "Y"
	case PauliZ:
		return "Z"
	default:
		return "I"
	}
}

// ParsePauli parses "X", "Y", "Z" or "I" (case-insensitive).
func ParsePauli(s string) (Pauli, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "I":
		return PauliI, nil
	case "X":
		return PauliX, nil
	case "Y":
		return PauliY, nil
	case "Z":
		return PauliZ, nil
	}
	return PauliI, domain.NewConfigError("hamiltonian", fmt.Errorf("unknown pauli %q", s), "")
}

// Matrix returns the 2x2 matrix of the operator in the computational basis.
func (p Pauli) Matrix() *mat.CDense {
	switch p {
	case PauliX:
		return mat.NewCDense(2, 2, []complex128{0, 1, 1, 0})
	case PauliY:
		return mat.NewCDense(2, 2, []complex128{0, -1i, 1i, 0})
	case PauliZ:
		return mat.NewCDense(2, 2, []complex128{1, 0, 0, -1})
	default:
		return mat.NewCDense(2, 2, []complex128{1, 0, 0, 1})
	}
}

// flips reports whether the operator maps |b> to |1-b>.
func (p Pauli) flips() bool {
	return p == PauliX || p == PauliY
}

// signs reports whether the operator contributes (-1)^b to the phase.
func (p Pauli) signs() bool {
	return p == PauliY || p == PauliZ
}
