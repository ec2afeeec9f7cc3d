package hamiltonian

import (
	"fmt"

	"github.com/aristath/qalgo/internal/domain"
)

// IsingChain builds the open transverse-field Ising chain
//
//	H = -J * sum_i Z_i Z_{i+1} - sum_i g_i X_i
//
// fields must hold one g_i per qubit; zero fields add no term.
func IsingChain(qubits []domain.Qubit, coupling float64, fields []float64) (*Hamiltonian, error) {
	if len(fields) != len(qubits) {
		return nil, domain.NewConfigError("hamiltonian", domain.ErrQubitCount,
			fmt.Sprintf("%d fields for %d qubits", len(fields), len(qubits)))
	}

	var terms []Term
	for i := 0; i+1 < len(qubits); i++ {
		zz, err := Z(qubits[i]).Mul(Z(qubits[i+1]))
		if err != nil {
			return nil, err
		}
		terms = append(terms, zz.Scale(-coupling))
	}
	for i, g := range fields {
		if g == 0 {
			continue
		}
		terms = append(terms, X(qubits[i]).Scale(-g))
	}
	return New(qubits, terms...)
}

// LongitudinalField builds H = sum_i h_i Z_i with one h_i per qubit.
func LongitudinalField(qubits []domain.Qubit, fields []float64) (*Hamiltonian, error) {
	if len(fields) != len(qubits) {
		return nil, domain.NewConfigError("hamiltonian", domain.ErrQubitCount,
			fmt.Sprintf("%d fields for %d qubits", len(fields), len(qubits)))
	}

	terms := make([]Term, 0, len(qubits))
	for i, q := range qubits {
		terms = append(terms, Z(q).Scale(fields[i]))
	}
	return New(qubits, terms...)
}

// TwoQubitIsing is -Z0*Z1 - X0, the two-qubit demo model.
func TwoQubitIsing(qubits []domain.Qubit) (*Hamiltonian, error) {
	return IsingChain(qubits, 1, []float64{1, 0})
}

// ThreeQubitIsing is -Z0*Z1 - Z1*Z2 - X0, the three-qubit demo model.
func ThreeQubitIsing(qubits []domain.Qubit) (*Hamiltonian, error) {
	return IsingChain(qubits, 1, []float64{1, 0, 0})
}

// FromValues builds sum_i -(-1)^{v_i} Z_i, whose ground state is the basis
// state |v> with energy -n. values must be 0 or 1, one per qubit.
func FromValues(qubits []domain.Qubit, values []int) (*Hamiltonian, error) {
	if len(values) != len(qubits) {
		return nil, domain.NewConfigError("hamiltonian", domain.ErrQubitCount,
			fmt.Sprintf("%d values for %d qubits", len(values), len(qubits)))
	}
	fields := make([]float64, len(values))
	for i, v := range values {
		switch v {
		case 0:
			fields[i] = -1
		case 1:
			fields[i] = 1
		default:
			return nil, domain.NewConfigError("hamiltonian", domain.ErrOracleValue,
				fmt.Sprintf("value %d at position %d", v, i))
		}
	}
	return LongitudinalField(qubits, fields)
}
