// Package vqe implements the variational quantum eigensolver loop: an exact
// expectation evaluator, a derivative-free optimizer capability and a
// comparison against the exact ground-state energy.
package vqe

import (
	"fmt"

	"github.com/aristath/qalgo/internal/domain"
	"github.com/aristath/qalgo/internal/modules/ansatz"
	"github.com/aristath/qalgo/internal/modules/circuit"
	"github.com/aristath/qalgo/internal/modules/hamiltonian"
)

// Simulator produces the final state vector of a circuit resolved with a
// binding, laid out on reg.
type Simulator interface {
	Simulate(c *circuit.Circuit, b circuit.Binding, reg *domain.Register) (domain.StateVector, error)
}

// Evaluator computes <psi(params)|H|psi(params)> by exact simulation. It holds
// no mutable state; concurrent calls with different parameters are safe if
// the Simulator is.
type Evaluator struct {
	ham    *hamiltonian.Hamiltonian
	build  ansatz.Func
	qubits []domain.Qubit
	reg    *domain.Register
	sim    Simulator
}

// NewEvaluator fixes the qubit ordering for every later evaluation. Every
// qubit the Hamiltonian acts on must be in qubits.
func NewEvaluator(qubits []domain.Qubit, build ansatz.Func, ham *hamiltonian.Hamiltonian, sim Simulator) (*Evaluator, error) {
	reg, err := domain.NewRegister(qubits)
	if err != nil {
		return nil, err
	}
	for _, q := range ham.Qubits() {
		if !reg.Contains(q) {
			return nil, domain.NewConfigError("vqe", domain.ErrUnknownQubit,
				fmt.Sprintf("hamiltonian qubit %s is not in the ansatz qubits", q))
		}
	}
	if build == nil {
		return nil, domain.NewConfigError("vqe", domain.ErrUnknownAnsatz, "nil ansatz")
	}
	if sim == nil {
		sim = circuit.NewStateVectorSimulator()
	}
	return &Evaluator{
		ham:    ham,
		build:  build,
		qubits: reg.Qubits(),
		reg:    reg,
		sim:    sim,
	}, nil
}

// Register returns the fixed qubit ordering.
func (e *Evaluator) Register() *domain.Register {
	return e.reg
}

// Evaluate returns the energy at params, bound to names by position.
func (e *Evaluator) Evaluate(params []float64, names []string) (float64, error) {
	if len(params) != len(names) {
		return 0, domain.NewConfigError("vqe", domain.ErrParameterCount,
			fmt.Sprintf("%d values for %d parameter names", len(params), len(names)))
	}

	c, err := e.build(e.qubits, names)
	if err != nil {
		return 0, fmt.Errorf("failed to build ansatz: %w", err)
	}
	binding, err := circuit.Bind(names, params)
	if err != nil {
		return 0, err
	}

	state, err := e.sim.Simulate(c, binding, e.reg)
	if err != nil {
		return 0, fmt.Errorf("failed to simulate ansatz: %w", err)
	}
	return e.ham.Expectation(state, e.reg)
}
