package hamiltonian

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"github.com/aristath/qalgo/internal/domain"
)

// Factor is one single-qubit operator inside a Pauli string.
type Factor struct {
	Qubit domain.Qubit `json:"qubit"`
	Pauli Pauli        `json:"pauli"`
}

// Term is a real coefficient times a tensor product of Pauli operators, each
// on a distinct qubit. A term without factors is a multiple of the identity.
type Term struct {
	Coefficient float64
	Factors     []Factor
}

// X returns the term 1*X(q).
func X(q domain.Qubit) Term {
	return Term{Coefficient: 1, Factors: []Factor{{Qubit: q, Pauli: PauliX}}}
}

// Y returns the term 1*Y(q).
func Y(q domain.Qubit) Term {
	return Term{Coefficient: 1, Factors: []Factor{{Qubit: q, Pauli: PauliY}}}
}

// Z returns the term 1*Z(q).
func Z(q domain.Qubit) Term {
	return Term{Coefficient: 1, Factors: []Factor{{Qubit: q, Pauli: PauliZ}}}
}

// Identity returns c times the identity.
func Identity(c float64) Term {
	return Term{Coefficient: c}
}

// NewTerm builds a term from explicit factors. Identity factors are dropped.
func NewTerm(coefficient float64, factors ...Factor) (Term, error) {
	t := Term{Coefficient: coefficient}
	seen := make(map[domain.Qubit]bool, len(factors))
	for _, f := range factors {
		if f.Pauli == PauliI {
			continue
		}
		if seen[f.Qubit] {
			return Term{}, domain.NewConfigError("hamiltonian", domain.ErrDuplicateQubit, f.Qubit.String())
		}
		seen[f.Qubit] = true
		t.Factors = append(t.Factors, f)
	}
	return t, nil
}

// Scale returns the term with its coefficient multiplied by c.
func (t Term) Scale(c float64) Term {
	return Term{Coefficient: t.Coefficient * c, Factors: t.copyFactors()}
}

// Mul returns the tensor product t*o. Both terms must act on disjoint qubits;
// products on a shared qubit would need operator algebra, which is not done.
func (t Term) Mul(o Term) (Term, error) {
	factors := append(t.copyFactors(), o.Factors...)
	return NewTerm(t.Coefficient*o.Coefficient, factors...)
}

// MustMul is Mul for literals known to be valid. It panics on overlap.
func (t Term) MustMul(o Term) Term {
	out, err := t.Mul(o)
	if err != nil {
		panic(err)
	}
	return out
}

func (t Term) copyFactors() []Factor {
	out := make([]Factor, len(t.Factors))
	copy(out, t.Factors)
	return out
}

// String renders the term as coefficient*P(q)*...
func (t Term) String() string {
	var b strings.Builder
	b.WriteString(strconv.FormatFloat(t.Coefficient, 'f', 3, 64))
	for _, f := range t.Factors {
		fmt.Fprintf(&b, "*%s(%s)", f.Pauli, f.Qubit)
	}
	return b.String()
}

// pauliMasks is a term compiled against a register: P|k> = phase(k)|k^flip>
// where phase(k) = i^ys * (-1)^popcount(k&sign).
type pauliMasks struct {
	flip int
	sign int
	ys   int
}

func (t Term) compile(reg *domain.Register) (pauliMasks, error) {
	var m pauliMasks
	for _, f := range t.Factors {
		bit, err := reg.MaskOf(f.Qubit)
		if err != nil {
			return pauliMasks{}, err
		}
		if f.Pauli.flips() {
			m.flip |= bit
		}
		if f.Pauli.signs() {
			m.sign |= bit
		}
		if f.Pauli == PauliY {
			m.ys++
		}
	}
	return m, nil
}

var iPowers = [4]complex128{1, 1i, -1, -1i}

func (m pauliMasks) phase(k int) complex128 {
	p := iPowers[m.ys%4]
	if bits.OnesCount(uint(k&m.sign))%2 == 1 {
		return -p
	}
	return p
}
