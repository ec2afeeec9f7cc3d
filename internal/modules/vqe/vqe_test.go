package vqe

import (
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/qalgo/internal/domain"
	"github.com/aristath/qalgo/internal/modules/ansatz"
	"github.com/aristath/qalgo/internal/modules/circuit"
	"github.com/aristath/qalgo/internal/modules/eigensolver"
	"github.com/aristath/qalgo/internal/modules/hamiltonian"
)

var testLog = zerolog.New(nil).Level(zerolog.Disabled)

func singleQubit(t *testing.T, terms ...func(domain.Qubit) hamiltonian.Term) ([]domain.Qubit, *hamiltonian.Hamiltonian) {
	t.Helper()
	qubits := domain.LineQubits(1)
	ts := make([]hamiltonian.Term, len(terms))
	for i, f := range terms {
		ts[i] = f(qubits[0])
	}
	h, err := hamiltonian.New(qubits, ts...)
	require.NoError(t, err)
	return qubits, h
}

// fixedOptimizer probes a scripted list of points and reports the last one.
type fixedOptimizer struct {
	points [][]float64
}

func (f *fixedOptimizer) Minimize(cost CostFunc, initial []float64, method string) (*OptimizerResult, error) {
	var last float64
	for _, p := range f.points {
		v, err := cost(p)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return &OptimizerResult{
		X:           f.points[len(f.points)-1],
		F:           last,
		Evaluations: len(f.points),
		Status:      "scripted",
		Converged:   true,
	}, nil
}

// countingSimulator records calls and returns a fixed state.
type countingSimulator struct {
	calls int
	state domain.StateVector
}

func (s *countingSimulator) Simulate(c *circuit.Circuit, b circuit.Binding, reg *domain.Register) (domain.StateVector, error) {
	s.calls++
	return s.state, nil
}

func TestEvaluator_Deterministic(t *testing.T) {
	qubits := domain.LineQubits(2)
	h, err := hamiltonian.TwoQubitIsing(qubits)
	require.NoError(t, err)

	ev, err := NewEvaluator(qubits, ansatz.HardwareEfficient2, h, nil)
	require.NoError(t, err)

	names := ansatz.ParamNames(3)
	params := []float64{0.3, -1.1, 2.2}
	first, err := ev.Evaluate(params, names)
	require.NoError(t, err)
	second, err := ev.Evaluate(params, names)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEvaluator_ParameterCountCheckedBeforeSimulation(t *testing.T) {
	qubits, h := singleQubit(t, hamiltonian.Z)
	sim := &countingSimulator{state: domain.StateVector{1, 0}}

	ev, err := NewEvaluator(qubits, ansatz.SingleRy, h, sim)
	require.NoError(t, err)

	_, err = ev.Evaluate([]float64{0.1, 0.2}, []string{"a"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrParameterCount)
	assert.True(t, domain.IsConfigError(err))
	assert.Zero(t, sim.calls)
}

func TestEvaluator_UsesStubSimulatorState(t *testing.T) {
	qubits, h := singleQubit(t, hamiltonian.Z)
	sim := &countingSimulator{state: domain.StateVector{0, 1}}

	ev, err := NewEvaluator(qubits, ansatz.SingleRy, h, sim)
	require.NoError(t, err)

	e, err := ev.Evaluate([]float64{0.5}, []string{"t"})
	require.NoError(t, err)
	assert.Equal(t, -1.0, e)
	assert.Equal(t, 1, sim.calls)
}

func TestNewEvaluator_HamiltonianQubitOutsideAnsatz(t *testing.T) {
	qubits := domain.LineQubits(2)
	h, err := hamiltonian.New(qubits, hamiltonian.Z(qubits[1]))
	require.NoError(t, err)

	_, err = NewEvaluator(qubits[:1], ansatz.SingleRy, h, nil)
	assert.ErrorIs(t, err, domain.ErrUnknownQubit)
	assert.True(t, domain.IsConfigError(err))
}

func TestMinimize_TraceResetsBetweenRuns(t *testing.T) {
	qubits, h := singleQubit(t, hamiltonian.Z)

	opt := &fixedOptimizer{points: [][]float64{{0}, {0.5}, {1}, {1.5}, {0.5}}}
	v, err := New(qubits, ansatz.SingleRy, h, testLog, WithOptimizer(opt))
	require.NoError(t, err)

	res, err := v.Minimize([]float64{0}, []string{"t"}, "")
	require.NoError(t, err)
	assert.Equal(t, 5, res.Evaluations)
	trace := v.Trace()
	require.Len(t, trace, 5)
	assert.InDelta(t, 1.0, trace[0], 1e-12)
	// duplicate probes are kept in call order
	assert.Equal(t, trace[1], trace[4])

	opt.points = [][]float64{{math.Pi}, {0}}
	res, err = v.Minimize([]float64{0}, []string{"t"}, "")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Evaluations)
	trace = v.Trace()
	require.Len(t, trace, 2)
	assert.InDelta(t, -1.0, trace[0], 1e-12)
	assert.InDelta(t, 1.0, trace[1], 1e-12)
}

func TestMinimize_TraceIsACopy(t *testing.T) {
	qubits, h := singleQubit(t, hamiltonian.Z)
	v, err := New(qubits, ansatz.SingleRy, h, testLog, WithOptimizer(&fixedOptimizer{points: [][]float64{{0}}}))
	require.NoError(t, err)

	_, err = v.Minimize([]float64{0}, []string{"t"}, "")
	require.NoError(t, err)
	trace := v.Trace()
	trace[0] = 42
	assert.InDelta(t, 1.0, v.Trace()[0], 1e-12)
}

func TestMinimize_Observer(t *testing.T) {
	qubits, h := singleQubit(t, hamiltonian.Z)
	var seen []int
	v, err := New(qubits, ansatz.SingleRy, h, testLog,
		WithOptimizer(&fixedOptimizer{points: [][]float64{{0}, {1}, {2}}}),
		WithObserver(func(n int, params []float64, energy float64) {
			seen = append(seen, n)
			assert.InDelta(t, math.Cos(params[0]), energy, 1e-12)
		}))
	require.NoError(t, err)

	_, err = v.Minimize([]float64{0}, []string{"t"}, "")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestMinimize_ParameterCountMismatch(t *testing.T) {
	qubits, h := singleQubit(t, hamiltonian.Z)
	sim := &countingSimulator{state: domain.StateVector{1, 0}}
	v, err := New(qubits, ansatz.SingleRy, h, testLog, WithSimulator(sim))
	require.NoError(t, err)

	_, err = v.Minimize([]float64{0.1, 0.2}, []string{"t"}, "")
	assert.ErrorIs(t, err, domain.ErrParameterCount)
	assert.Zero(t, sim.calls)
	assert.Empty(t, v.Trace())
}

func TestMinimize_UnknownMethod(t *testing.T) {
	qubits, h := singleQubit(t, hamiltonian.Z)
	v, err := New(qubits, ansatz.SingleRy, h, testLog)
	require.NoError(t, err)

	_, err = v.Minimize([]float64{0.1}, []string{"t"}, "bfgs")
	assert.ErrorIs(t, err, domain.ErrUnknownMethod)
	assert.True(t, domain.IsConfigError(err))
}

func TestMinimize_RyOnZConverges(t *testing.T) {
	qubits, h := singleQubit(t, hamiltonian.Z)
	v, err := New(qubits, ansatz.SingleRy, h, testLog)
	require.NoError(t, err)

	res, err := v.Minimize([]float64{0.1}, []string{"theta"}, MethodCOBYLA)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, res.Energy, 0.1)
	assert.Equal(t, len(v.Trace()), res.Evaluations)
	assert.Equal(t, MethodCOBYLA, res.Method)
}

func TestMinimize_FieldSumWithRyLayer(t *testing.T) {
	qubits := domain.LineQubits(2)
	h, err := hamiltonian.LongitudinalField(qubits, []float64{1, 1})
	require.NoError(t, err)

	v, err := New(qubits, ansatz.RyLayer, h, testLog)
	require.NoError(t, err)

	res, err := v.Minimize([]float64{0.1, 0.1}, ansatz.ParamNames(2), MethodNelderMead)
	require.NoError(t, err)
	assert.InDelta(t, -2.0, res.Energy, 0.1)
}

func TestMinimize_CrossValidatesXPlusZ(t *testing.T) {
	qubits, h := singleQubit(t, hamiltonian.X, hamiltonian.Z)

	exact, err := eigensolver.NewSolver(eigensolver.Settings{}, testLog).GroundStateEnergy(h)
	require.NoError(t, err)
	assert.InDelta(t, -math.Sqrt2, exact, 1e-5)

	v, err := New(qubits, ansatz.SingleRy, h, testLog)
	require.NoError(t, err)
	res, err := v.Minimize([]float64{0.1}, []string{"theta"}, "")
	require.NoError(t, err)

	cmp, err := Compare(res.Energy, exact, 0.1)
	require.NoError(t, err)
	assert.True(t, cmp.WithinTolerance, "vqe=%f exact=%f", res.Energy, exact)
}

func TestMinimize_CMAES(t *testing.T) {
	qubits, h := singleQubit(t, hamiltonian.Z)
	v, err := New(qubits, ansatz.SingleRy, h, testLog,
		WithOptimizer(NewGonumOptimizer(OptimizerSettings{MaxEvaluations: 2000})))
	require.NoError(t, err)

	res, err := v.Minimize([]float64{0.1}, []string{"theta"}, MethodCMAES)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, res.Energy, 0.1)
	assert.Equal(t, len(v.Trace()), res.Evaluations)
}

func TestGonumOptimizer_CostErrorAbortsRun(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	_, err := NewGonumOptimizer(OptimizerSettings{}).Minimize(func(x []float64) (float64, error) {
		calls++
		if calls == 3 {
			return 0, boom
		}
		return x[0] * x[0], nil
	}, []float64{1}, "")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestGonumOptimizer_EvaluationLimitIsReported(t *testing.T) {
	res, err := NewGonumOptimizer(OptimizerSettings{MaxEvaluations: 5}).Minimize(func(x []float64) (float64, error) {
		return (x[0]-3)*(x[0]-3) + (x[1]+1)*(x[1]+1), nil
	}, []float64{0, 0}, MethodNelderMead)
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.LessOrEqual(t, res.Evaluations, 6)
	assert.NotEmpty(t, res.Status)
}

func TestCompare(t *testing.T) {
	cmp, err := Compare(-1.38, -math.Sqrt2, 0.1)
	require.NoError(t, err)
	assert.True(t, cmp.WithinTolerance)
	assert.InDelta(t, math.Sqrt2-1.38, cmp.Difference, 1e-12)

	cmp, err = Compare(-1.0, -math.Sqrt2, 0.1)
	require.NoError(t, err)
	assert.False(t, cmp.WithinTolerance)

	_, err = Compare(0, 0, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidTolerance)
}
