// Package ansatz builds the parameterized trial circuits used by VQE.
package ansatz

import (
	"fmt"
	"sort"

	"github.com/aristath/qalgo/internal/domain"
	"github.com/aristath/qalgo/internal/modules/circuit"
)

// Func builds a trial circuit over qubits whose rotation angles are the named
// parameters. Builders are deterministic: the same inputs always produce the
// same circuit.
type Func func(qubits []domain.Qubit, params []string) (*circuit.Circuit, error)

func checkCounts(name string, qubits []domain.Qubit, params []string, wantQubits, wantParams int) error {
	if wantQubits > 0 && len(qubits) != wantQubits {
		return domain.NewConfigError("ansatz", domain.ErrQubitCount,
			fmt.Sprintf("%s needs %d qubits, got %d", name, wantQubits, len(qubits)))
	}
	if len(params) != wantParams {
		return domain.NewConfigError("ansatz", domain.ErrParameterCount,
			fmt.Sprintf("%s needs %d parameters, got %d", name, wantParams, len(params)))
	}
	return nil
}

// SingleRy is Ry(p0) on one qubit.
func SingleRy(qubits []domain.Qubit, params []string) (*circuit.Circuit, error) {
	if err := checkCounts("single-ry", qubits, params, 1, 1); err != nil {
		return nil, err
	}
	return circuit.New(circuit.RY(circuit.Param(params[0]), qubits[0])), nil
}

// RyLayer applies Ry(p_i) to qubit i, one parameter per qubit.
func RyLayer(qubits []domain.Qubit, params []string) (*circuit.Circuit, error) {
	if len(qubits) == 0 {
		return nil, domain.NewConfigError("ansatz", domain.ErrQubitCount, "ry-layer needs at least one qubit")
	}
	if err := checkCounts("ry-layer", qubits, params, 0, len(qubits)); err != nil {
		return nil, err
	}
	ops := make([]circuit.Operation, len(qubits))
	for i, q := range qubits {
		ops[i] = circuit.RY(circuit.Param(params[i]), q)
	}
	return circuit.New(ops...), nil
}

// HardwareEfficient2 is Ry(p0) q0, Ry(p1) q1, CNOT(q0, q1), Ry(p2) q0.
func HardwareEfficient2(qubits []domain.Qubit, params []string) (*circuit.Circuit, error) {
	if err := checkCounts("hardware-efficient-2", qubits, params, 2, 3); err != nil {
		return nil, err
	}
	q0, q1 := qubits[0], qubits[1]
	return circuit.New(
		circuit.RY(circuit.Param(params[0]), q0),
		circuit.RY(circuit.Param(params[1]), q1),
		circuit.CNOT(q0, q1),
		circuit.RY(circuit.Param(params[2]), q0),
	), nil
}

// HardwareEfficient3 is the six-parameter entangling circuit over three
// qubits: a first Ry pair, a CNOT ladder, then a closing Ry layer.
func HardwareEfficient3(qubits []domain.Qubit, params []string) (*circuit.Circuit, error) {
	if err := checkCounts("hardware-efficient-3", qubits, params, 3, 6); err != nil {
		return nil, err
	}
	q0, q1, q2 := qubits[0], qubits[1], qubits[2]
	return circuit.New(
		circuit.RY(circuit.Param(params[0]), q0),
		circuit.RY(circuit.Param(params[1]), q1),
		circuit.CNOT(q0, q1),
		circuit.RY(circuit.Param(params[2]), q0),
		circuit.CNOT(q1, q2),
		circuit.RY(circuit.Param(params[3]), q0),
		circuit.RY(circuit.Param(params[4]), q1),
		circuit.RY(circuit.Param(params[5]), q2),
	), nil
}

// ParamNames returns n generated parameter names theta_0 ... theta_{n-1}.
func ParamNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("theta_%d", i)
	}
	return names
}

// Spec describes a registered ansatz.
type Spec struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	// Qubits is the fixed qubit count, or 0 if any count works.
	Qubits int `json:"qubits"`
	// ParamsPerQubit is used when Qubits is 0; otherwise Params is fixed.
	Params         int  `json:"params"`
	ParamsPerQubit int  `json:"params_per_qubit"`
	Build          Func `json:"-"`
}

// ParamCount returns the number of parameters for n qubits.
func (s Spec) ParamCount(n int) int {
	if s.Qubits == 0 {
		return s.ParamsPerQubit * n
	}
	return s.Params
}

// Registry holds ansatz builders by name.
type Registry struct {
	specs map[string]Spec
}

// NewRegistry creates a registry with the built-in ansätze.
func NewRegistry() *Registry {
	r := &Registry{specs: make(map[string]Spec)}
	r.Register(Spec{Name: "single-ry", Description: "Ry on one qubit", Qubits: 1, Params: 1, Build: SingleRy})
	r.Register(Spec{Name: "ry-layer", Description: "Ry on every qubit", ParamsPerQubit: 1, Build: RyLayer})
	r.Register(Spec{Name: "hardware-efficient-2", Description: "Ry, Ry, CNOT, Ry", Qubits: 2, Params: 3, Build: HardwareEfficient2})
	r.Register(Spec{Name: "hardware-efficient-3", Description: "Ry pair, CNOT ladder, Ry layer", Qubits: 3, Params: 6, Build: HardwareEfficient3})
	return r
}

// Register adds or replaces a spec.
func (r *Registry) Register(s Spec) {
	r.specs[s.Name] = s
}

// Get returns the named spec.
func (r *Registry) Get(name string) (Spec, error) {
	s, ok := r.specs[name]
	if !ok {
		return Spec{}, domain.NewConfigError("ansatz", domain.ErrUnknownAnsatz, name)
	}
	return s, nil
}

// List returns all specs sorted by name.
func (r *Registry) List() []Spec {
	out := make([]Spec, 0, len(r.specs))
	for _, s := range r.specs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
