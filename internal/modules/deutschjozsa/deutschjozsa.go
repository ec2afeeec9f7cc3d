// Package deutschjozsa classifies a promised constant-or-balanced oracle with
// a single query.
package deutschjozsa

import (
	"fmt"

	"github.com/aristath/qalgo/internal/domain"
	"github.com/aristath/qalgo/internal/modules/circuit"
)

// Classification is the algorithm's verdict.
type Classification string

const (
	Constant Classification = "Constant"
	Balanced Classification = "Balanced"
)

// ResultKey is the measurement key of the input register.
const ResultKey = "result"

// Oracle yields the operations of U_f acting on the inputs and the helper.
type Oracle func(inputs []domain.Qubit, helper domain.Qubit) []circuit.Operation

// ConstantOracle is f(x) = value. value must be 0 or 1.
func ConstantOracle(value int) (Oracle, error) {
	if value != 0 && value != 1 {
		return nil, domain.NewConfigError("deutschjozsa", domain.ErrOracleValue,
			fmt.Sprintf("constant value %d", value))
	}
	return func(_ []domain.Qubit, helper domain.Qubit) []circuit.Operation {
		if value == 1 {
			return []circuit.Operation{circuit.X(helper)}
		}
		return nil
	}, nil
}

// BalancedOracle is f(x) = x_0.
func BalancedOracle() Oracle {
	return func(inputs []domain.Qubit, helper domain.Qubit) []circuit.Operation {
		return []circuit.Operation{circuit.CNOT(inputs[0], helper)}
	}
}

// CustomOracle is f(x) = x . values (mod 2), except that all ones is taken
// as the constant f(x) = 1. All zeros is the constant f(x) = 0. Any other
// mask gives a balanced function, so the constant-or-balanced promise holds.
func CustomOracle(n int, values []int) (Oracle, error) {
	if len(values) != n {
		return nil, domain.NewConfigError("deutschjozsa", domain.ErrQubitCount,
			fmt.Sprintf("%d values for %d input qubits", len(values), n))
	}
	ones := 0
	for i, v := range values {
		switch v {
		case 0:
		case 1:
			ones++
		default:
			return nil, domain.NewConfigError("deutschjozsa", domain.ErrOracleValue,
				fmt.Sprintf("value %d at position %d", v, i))
		}
	}
	mask := append([]int(nil), values...)

	return func(inputs []domain.Qubit, helper domain.Qubit) []circuit.Operation {
		if ones == len(mask) {
			return []circuit.Operation{circuit.X(helper)}
		}
		var ops []circuit.Operation
		for i, v := range mask {
			if v == 1 {
				ops = append(ops, circuit.CNOT(inputs[i], helper))
			}
		}
		return ops
	}, nil
}

// Algorithm is a prepared Deutsch-Jozsa circuit over n input qubits and one
// helper qubit.
type Algorithm struct {
	inputs   []domain.Qubit
	helper   domain.Qubit
	register *domain.Register
	circuit  *circuit.Circuit
}

// New builds the circuit: helper to |->, H on the inputs, the oracle, H on
// the inputs again, then measure the inputs under ResultKey.
func New(n int, oracle Oracle) (*Algorithm, error) {
	if n < 1 {
		return nil, domain.NewConfigError("deutschjozsa", domain.ErrQubitCount,
			fmt.Sprintf("need at least one input qubit, got %d", n))
	}
	if oracle == nil {
		return nil, domain.NewConfigError("deutschjozsa", domain.ErrOracleValue, "nil oracle")
	}

	all := domain.LineQubits(n + 1)
	inputs, helper := all[:n], all[n]
	reg, err := domain.NewRegister(all)
	if err != nil {
		return nil, err
	}

	var ops []circuit.Operation
	ops = append(ops, circuit.X(helper), circuit.H(helper))
	ops = append(ops, circuit.HOnEach(inputs)...)
	ops = append(ops, oracle(inputs, helper)...)
	ops = append(ops, circuit.HOnEach(inputs)...)
	ops = append(ops, circuit.Measure(ResultKey, inputs...))

	return &Algorithm{
		inputs:   inputs,
		helper:   helper,
		register: reg,
		circuit:  circuit.New(ops...),
	}, nil
}

// Circuit returns the assembled circuit.
func (a *Algorithm) Circuit() *circuit.Circuit {
	return a.circuit
}

// Run samples the circuit and classifies from the first shot: all zeros is
// Constant, anything else is Balanced. The oracle must honour the
// constant-or-balanced promise; true balance is not checked.
func (a *Algorithm) Run(sampler *circuit.Sampler, repetitions int) (Classification, *circuit.Result, error) {
	res, err := sampler.Run(a.circuit, nil, a.register, repetitions)
	if err != nil {
		return "", nil, err
	}
	first := res.Measurements[ResultKey][0]
	for _, bit := range first {
		if bit != 0 {
			return Balanced, res, nil
		}
	}
	return Constant, res, nil
}
