package circuit

import (
	"fmt"

	"github.com/aristath/qalgo/internal/domain"
)

// StateVectorSimulator computes exact final amplitudes. Measurement
// operations are skipped so the returned state is the pre-measurement state.
type StateVectorSimulator struct{}

// NewStateVectorSimulator creates a simulator.
func NewStateVectorSimulator() *StateVectorSimulator {
	return &StateVectorSimulator{}
}

// Simulate resolves c with b and evolves |0...0> on reg. Amplitude index
// bits follow reg order, first qubit most significant.
func (s *StateVectorSimulator) Simulate(c *Circuit, b Binding, reg *domain.Register) (domain.StateVector, error) {
	resolved, err := c.Resolve(b)
	if err != nil {
		return nil, err
	}

	state := make(domain.StateVector, reg.Dimension())
	state[0] = 1
	for _, op := range resolved.ops {
		if err := applyOperation(state, op, reg); err != nil {
			return nil, err
		}
	}
	return state, nil
}

func applyOperation(state domain.StateVector, op Operation, reg *domain.Register) error {
	masks := make([]int, len(op.Qubits))
	for i, q := range op.Qubits {
		m, err := reg.MaskOf(q)
		if err != nil {
			return err
		}
		masks[i] = m
	}

	switch op.Gate {
	case GateMeasure:
		return nil
	case GateCNOT, GateCZ, GateSWAP:
		if len(masks) != 2 || masks[0] == masks[1] {
			return domain.NewConfigError("circuit", domain.ErrDuplicateQubit,
				fmt.Sprintf("%s needs two distinct qubits", op.Gate))
		}
		switch op.Gate {
		case GateCNOT:
			applyCNOT(state, masks[0], masks[1])
		case GateCZ:
			applyCZ(state, masks[0], masks[1])
		default:
			applySWAP(state, masks[0], masks[1])
		}
		return nil
	}

	u, ok := unitary(op.Gate, op.Angle.Value)
	if !ok {
		return domain.NewConfigError("circuit", fmt.Errorf("unsupported gate %q", op.Gate), "")
	}
	if len(masks) != 1 {
		return domain.NewConfigError("circuit", domain.ErrQubitCount,
			fmt.Sprintf("%s acts on one qubit, got %d", op.Gate, len(masks)))
	}
	applySingle(state, masks[0], u)
	return nil
}
