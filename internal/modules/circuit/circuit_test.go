package circuit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/qalgo/internal/domain"
)

var (
	q0 = domain.GridQubit(0, 0)
	q1 = domain.GridQubit(0, 1)
	q2 = domain.GridQubit(0, 2)
)

func register(t *testing.T, qubits ...domain.Qubit) *domain.Register {
	t.Helper()
	reg, err := domain.NewRegister(qubits)
	require.NoError(t, err)
	return reg
}

func assertState(t *testing.T, want, got domain.StateVector) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, real(want[i]), real(got[i]), 1e-12, "re[%d]", i)
		assert.InDelta(t, imag(want[i]), imag(got[i]), 1e-12, "im[%d]", i)
	}
}

func TestBind(t *testing.T) {
	b, err := Bind([]string{"a", "b"}, []float64{0.1, 0.2})
	require.NoError(t, err)
	assert.Equal(t, Binding{"a": 0.1, "b": 0.2}, b)

	_, err = Bind([]string{"a"}, []float64{0.1, 0.2})
	assert.ErrorIs(t, err, domain.ErrParameterCount)

	_, err = Bind([]string{"a", "a"}, []float64{0.1, 0.2})
	assert.True(t, domain.IsConfigError(err))
}

func TestCircuit_ParametersAndResolve(t *testing.T) {
	c := New(RY(Param("t1"), q1), RY(Param("t0"), q0), RX(Param("t0"), q1), H(q0))
	assert.Equal(t, []string{"t0", "t1"}, c.Parameters())
	assert.Equal(t, []domain.Qubit{q1, q0}, c.Qubits())
	assert.Equal(t, 4, c.Len())

	resolved, err := c.Resolve(Binding{"t0": 0.5, "t1": 1.5})
	require.NoError(t, err)
	assert.Empty(t, resolved.Parameters())
	ops := resolved.Operations()
	assert.Equal(t, 1.5, ops[0].Angle.Value)
	assert.Equal(t, 0.5, ops[2].Angle.Value)

	// the original circuit is untouched
	assert.Equal(t, []string{"t0", "t1"}, c.Parameters())

	_, err = c.Resolve(Binding{"t0": 0.5})
	assert.ErrorIs(t, err, domain.ErrUnboundParameter)

	_, err = c.Resolve(Binding{"t0": 0.5, "t1": 1, "t2": 2})
	assert.ErrorIs(t, err, domain.ErrUnboundParameter)
}

func TestCircuit_AppendDoesNotMutate(t *testing.T) {
	base := New(H(q0))
	longer := base.Append(CNOT(q0, q1))
	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, longer.Len())

	ops := longer.Operations()
	ops[0].Qubits[0] = q2
	assert.Equal(t, q0, longer.Operations()[0].Qubits[0])
}

func TestCircuit_String(t *testing.T) {
	c := New(H(q0), CNOT(q0, q1), Measure("m", q0, q1))
	diagram := c.String()
	assert.Contains(t, diagram, "(0, 0): ───H───@───M(m)───")
	assert.Contains(t, diagram, "(0, 1): ───────X───M(m)───")
}

func TestSimulate_Gates(t *testing.T) {
	r := complex(1/math.Sqrt2, 0)
	theta := 0.7
	c, s := math.Cos(theta/2), math.Sin(theta/2)

	tests := []struct {
		name     string
		circuit  *Circuit
		qubits   []domain.Qubit
		expected domain.StateVector
	}{
		{"empty", New(), []domain.Qubit{q0}, domain.StateVector{1, 0}},
		{"X", New(X(q0)), []domain.Qubit{q0}, domain.StateVector{0, 1}},
		{"H", New(H(q0)), []domain.Qubit{q0}, domain.StateVector{r, r}},
		{"HZH is X", New(H(q0), Z(q0), H(q0)), []domain.Qubit{q0}, domain.StateVector{0, 1}},
		{"Y", New(Y(q0)), []domain.Qubit{q0}, domain.StateVector{0, 1i}},
		{"S on |1>", New(X(q0), S(q0)), []domain.Qubit{q0}, domain.StateVector{0, 1i}},
		{"SqrtX twice is X", New(SqrtX(q0), SqrtX(q0)), []domain.Qubit{q0}, domain.StateVector{0, 1}},
		{"Ry", New(RY(Const(theta), q0)), []domain.Qubit{q0}, domain.StateVector{complex(c, 0), complex(s, 0)}},
		{"Rx", New(RX(Const(theta), q0)), []domain.Qubit{q0}, domain.StateVector{complex(c, 0), complex(0, -s)}},
		{"X on first qubit is MSB", New(X(q0)), []domain.Qubit{q0, q1}, domain.StateVector{0, 0, 1, 0}},
		{"X on second qubit is LSB", New(X(q1)), []domain.Qubit{q0, q1}, domain.StateVector{0, 1, 0, 0}},
		{"Bell", New(H(q0), CNOT(q0, q1)), []domain.Qubit{q0, q1}, domain.StateVector{r, 0, 0, r}},
		{"CZ on |11>", New(X(q0), X(q1), CZ(q0, q1)), []domain.Qubit{q0, q1}, domain.StateVector{0, 0, 0, -1}},
		{"SWAP", New(X(q0), SWAP(q0, q1)), []domain.Qubit{q0, q1}, domain.StateVector{0, 1, 0, 0}},
		{"measure is skipped", New(X(q0), Measure("m", q0)), []domain.Qubit{q0}, domain.StateVector{0, 1}},
	}

	sim := NewStateVectorSimulator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sim.Simulate(tt.circuit, Binding{}, register(t, tt.qubits...))
			require.NoError(t, err)
			assertState(t, tt.expected, got)
		})
	}
}

func TestSimulate_RespectsRegisterOrder(t *testing.T) {
	sim := NewStateVectorSimulator()
	got, err := sim.Simulate(New(X(q0)), nil, register(t, q1, q0))
	require.NoError(t, err)
	assertState(t, domain.StateVector{0, 1, 0, 0}, got)
}

func TestSimulate_Errors(t *testing.T) {
	sim := NewStateVectorSimulator()

	_, err := sim.Simulate(New(X(q2)), nil, register(t, q0))
	assert.ErrorIs(t, err, domain.ErrUnknownQubit)

	_, err = sim.Simulate(New(RY(Param("a"), q0)), Binding{}, register(t, q0))
	assert.ErrorIs(t, err, domain.ErrUnboundParameter)

	_, err = sim.Simulate(New(CNOT(q0, q0)), nil, register(t, q0))
	assert.ErrorIs(t, err, domain.ErrDuplicateQubit)
}

func TestSimulate_Deterministic(t *testing.T) {
	c := New(RY(Param("a"), q0), RX(Param("b"), q1), CNOT(q0, q1), RZ(Param("a"), q1))
	b := Binding{"a": 0.3, "b": -1.2}
	reg := register(t, q0, q1)
	sim := NewStateVectorSimulator()

	first, err := sim.Simulate(c, b, reg)
	require.NoError(t, err)
	second, err := sim.Simulate(c, b, reg)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.InDelta(t, 1.0, first.Norm2(), 1e-12)
}

func TestSampler_Run(t *testing.T) {
	reg := register(t, q0, q1)
	sampler := NewSampler(7)

	res, err := sampler.Run(New(X(q0), Measure("m", q0, q1)), nil, reg, 20)
	require.NoError(t, err)
	assert.Equal(t, 20, res.Repetitions)
	require.Len(t, res.Measurements["m"], 20)
	assert.Equal(t, map[string]int{"10": 20}, res.Histogram("m"))

	bell := New(H(q0), CNOT(q0, q1), Measure("m", q0, q1))
	res, err = sampler.Run(bell, nil, reg, 400)
	require.NoError(t, err)
	hist := res.Histogram("m")
	assert.Zero(t, hist["01"])
	assert.Zero(t, hist["10"])
	assert.Equal(t, 400, hist["00"]+hist["11"])
	assert.InDelta(t, 200, hist["00"], 60)
}

func TestSampler_SameSeedSameShots(t *testing.T) {
	reg := register(t, q0)
	c := New(H(q0), Measure("m", q0))

	a, err := NewSampler(42).Run(c, nil, reg, 50)
	require.NoError(t, err)
	b, err := NewSampler(42).Run(c, nil, reg, 50)
	require.NoError(t, err)
	assert.Equal(t, a.Measurements, b.Measurements)
}

func TestSampler_Errors(t *testing.T) {
	reg := register(t, q0, q1)
	sampler := NewSampler(1)

	_, err := sampler.Run(New(Measure("m", q0), X(q0)), nil, reg, 1)
	assert.True(t, domain.IsConfigError(err))

	_, err = sampler.Run(New(Measure("m", q0), Measure("m", q1)), nil, reg, 1)
	assert.True(t, domain.IsConfigError(err))

	_, err = sampler.Run(New(Measure("m", q0)), nil, reg, 0)
	assert.True(t, domain.IsConfigError(err))
}
