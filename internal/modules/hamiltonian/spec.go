package hamiltonian

import (
	"fmt"

	"github.com/aristath/qalgo/internal/domain"
)

// TermSpec is the serialisable form of a term: one Pauli letter per qubit in
// register order, "I" where the term does not act.
type TermSpec struct {
	Coefficient float64 `json:"coefficient" msgpack:"coefficient"`
	Paulis      string  `json:"paulis" msgpack:"paulis"`
}

// FromSpecs builds a Hamiltonian over qubits from Pauli strings. Every
// string must have exactly one letter per qubit.
func FromSpecs(qubits []domain.Qubit, specs []TermSpec) (*Hamiltonian, error) {
	terms := make([]Term, 0, len(specs))
	for i, s := range specs {
		if len(s.Paulis) != len(qubits) {
			return nil, domain.NewConfigError("hamiltonian", domain.ErrQubitCount,
				fmt.Sprintf("term %d has %d letters for %d qubits", i, len(s.Paulis), len(qubits)))
		}
		factors := make([]Factor, 0, len(qubits))
		for j, letter := range s.Paulis {
			p, err := ParsePauli(string(letter))
			if err != nil {
				return nil, err
			}
			factors = append(factors, Factor{Qubit: qubits[j], Pauli: p})
		}
		t, err := NewTerm(s.Coefficient, factors...)
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return New(qubits, terms...)
}

// Specs returns the terms of h as Pauli strings over its register.
func (h *Hamiltonian) Specs() []TermSpec {
	n := h.register.Size()
	out := make([]TermSpec, len(h.terms))
	for i, t := range h.terms {
		letters := make([]byte, n)
		for j := range letters {
			letters[j] = 'I'
		}
		for _, f := range t.Factors {
			idx, _ := h.register.Index(f.Qubit)
			letters[idx] = f.Pauli.String()[0]
		}
		out[i] = TermSpec{Coefficient: t.Coefficient, Paulis: string(letters)}
	}
	return out
}
