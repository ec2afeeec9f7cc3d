package hamiltonian

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/aristath/qalgo/internal/domain"
	"github.com/aristath/qalgo/internal/modules/linalg"
)

// Hamiltonian is an ordered sum of Pauli terms over a declared register.
// Term order never changes the operator, but it is kept stable so that
// matrix construction is reproducible.
type Hamiltonian struct {
	register *domain.Register
	terms    []Term
	masks    []pauliMasks
}

// New creates a Hamiltonian over qubits. Every qubit referenced by a term must
// be one of qubits.
func New(qubits []domain.Qubit, terms ...Term) (*Hamiltonian, error) {
	reg, err := domain.NewRegister(qubits)
	if err != nil {
		return nil, err
	}
	return NewOnRegister(reg, terms...)
}

// NewOnRegister creates a Hamiltonian over an existing register.
func NewOnRegister(reg *domain.Register, terms ...Term) (*Hamiltonian, error) {
	h := &Hamiltonian{register: reg}
	for _, t := range terms {
		if err := h.validateTerm(t); err != nil {
			return nil, err
		}
		m, err := t.compile(reg)
		if err != nil {
			return nil, err
		}
		h.terms = append(h.terms, Term{Coefficient: t.Coefficient, Factors: t.copyFactors()})
		h.masks = append(h.masks, m)
	}
	return h, nil
}

func (h *Hamiltonian) validateTerm(t Term) error {
	if math.IsNaN(t.Coefficient) || math.IsInf(t.Coefficient, 0) {
		return domain.NewConfigError("hamiltonian", fmt.Errorf("non-finite coefficient"), t.String())
	}
	seen := make(map[domain.Qubit]bool, len(t.Factors))
	for _, f := range t.Factors {
		if !h.register.Contains(f.Qubit) {
			return domain.NewConfigError("hamiltonian", domain.ErrUnknownQubit, f.Qubit.String())
		}
		if seen[f.Qubit] {
			return domain.NewConfigError("hamiltonian", domain.ErrDuplicateQubit, f.Qubit.String())
		}
		seen[f.Qubit] = true
	}
	return nil
}

// Register returns the declared qubit register.
func (h *Hamiltonian) Register() *domain.Register {
	return h.register
}

// Qubits returns the declared qubits in order.
func (h *Hamiltonian) Qubits() []domain.Qubit {
	return h.register.Qubits()
}

// Dimension returns the matrix dimension 2^n.
func (h *Hamiltonian) Dimension() int {
	return h.register.Dimension()
}

// Terms returns a copy of the terms in order.
func (h *Hamiltonian) Terms() []Term {
	out := make([]Term, len(h.terms))
	for i, t := range h.terms {
		out[i] = Term{Coefficient: t.Coefficient, Factors: t.copyFactors()}
	}
	return out
}

// Add returns h + terms as a new Hamiltonian over the same register.
func (h *Hamiltonian) Add(terms ...Term) (*Hamiltonian, error) {
	return NewOnRegister(h.register, append(h.Terms(), terms...)...)
}

// Scale returns c*h.
func (h *Hamiltonian) Scale(c float64) *Hamiltonian {
	out := &Hamiltonian{register: h.register, terms: make([]Term, len(h.terms)), masks: h.masks}
	for i, t := range h.terms {
		out.terms[i] = t.Scale(c)
	}
	return out
}

// coefficientNorm is the sum of |coefficient| over all terms.
func (h *Hamiltonian) coefficientNorm() float64 {
	var n float64
	for _, t := range h.terms {
		n += math.Abs(t.Coefficient)
	}
	return n
}

// Expectation returns <state|H|state> for a state laid out on reg. reg may
// order the qubits differently from the Hamiltonian's own register, but it
// must contain every qubit the terms touch.
//
// A Hermitian operator has a real expectation value; an imaginary part beyond
// float rounding means the operator or the state is malformed and is reported
// as a numerical error.
func (h *Hamiltonian) Expectation(state domain.StateVector, reg *domain.Register) (float64, error) {
	if len(state) != reg.Dimension() {
		return 0, domain.NewConfigError("hamiltonian", domain.ErrQubitCount,
			fmt.Sprintf("state has %d amplitudes, register needs %d", len(state), reg.Dimension()))
	}

	var total complex128
	for _, t := range h.terms {
		m, err := t.compile(reg)
		if err != nil {
			return 0, err
		}
		var sum complex128
		for k, amp := range state {
			if amp == 0 {
				continue
			}
			sum += cmplx.Conj(state[k^m.flip]) * m.phase(k) * amp
		}
		total += complex(t.Coefficient, 0) * sum
	}

	tol := 1e-8 * (1 + h.coefficientNorm()) * math.Max(1, state.Norm2())
	if math.Abs(imag(total)) > tol {
		return 0, domain.NewNumericalError("hamiltonian", domain.ErrNonHermitian,
			fmt.Sprintf("imaginary expectation residue %g", imag(total)))
	}
	return real(total), nil
}

// Dense materialises H as a 2^n x 2^n matrix by tensoring each term's Pauli
// matrices in register order, identity on untouched qubits.
func (h *Hamiltonian) Dense() *mat.CDense {
	n := h.register.Size()
	dim := h.register.Dimension()
	out := mat.NewCDense(dim, dim, nil)

	for _, t := range h.terms {
		ops := make([]Pauli, n)
		for _, f := range t.Factors {
			i, _ := h.register.Index(f.Qubit)
			ops[i] = f.Pauli
		}
		m := ops[0].Matrix()
		for _, p := range ops[1:] {
			m = linalg.Kron(m, p.Matrix())
		}
		linalg.AddScaled(out, complex(t.Coefficient, 0), m)
	}
	return out
}

// Sparse assembles H directly in compressed form from each term's bit masks.
// The result equals Dense entry for entry.
func (h *Hamiltonian) Sparse() *linalg.Sparse {
	dim := h.register.Dimension()
	b := linalg.NewSparseBuilder(dim)
	for i, t := range h.terms {
		m := h.masks[i]
		c := complex(t.Coefficient, 0)
		for k := 0; k < dim; k++ {
			b.Add(k^m.flip, k, c*m.phase(k))
		}
	}
	return b.Build()
}

// String renders the sum of terms.
func (h *Hamiltonian) String() string {
	if len(h.terms) == 0 {
		return "0"
	}
	parts := make([]string, len(h.terms))
	for i, t := range h.terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " + ")
}
