package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegister(t *testing.T) {
	tests := []struct {
		name    string
		qubits  []Qubit
		wantErr error
	}{
		{
			name:   "line qubits",
			qubits: LineQubits(3),
		},
		{
			name:   "grid qubits",
			qubits: []Qubit{GridQubit(0, 0), GridQubit(0, 1), GridQubit(1, 0)},
		},
		{
			name:    "empty",
			qubits:  nil,
			wantErr: ErrQubitCount,
		},
		{
			name:    "duplicate",
			qubits:  []Qubit{GridQubit(0, 0), GridQubit(0, 0)},
			wantErr: ErrDuplicateQubit,
		},
		{
			name:    "dimension overflows int",
			qubits:  LineQubits(MaxRegisterSize + 2),
			wantErr: ErrTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := NewRegister(tt.qubits)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, IsConfigError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.qubits), reg.Size())
			assert.Equal(t, 1<<len(tt.qubits), reg.Dimension())
		})
	}
}

func TestNewRegister_LargestDimensionIsPositive(t *testing.T) {
	reg, err := NewRegister(LineQubits(MaxRegisterSize))
	require.NoError(t, err)
	assert.Greater(t, reg.Dimension(), 0)

	_, err = NewRegister(LineQubits(MaxRegisterSize + 1))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestRegister_MaskIsBigEndian(t *testing.T) {
	reg, err := NewRegister(LineQubits(3))
	require.NoError(t, err)

	assert.Equal(t, 4, reg.Mask(0))
	assert.Equal(t, 2, reg.Mask(1))
	assert.Equal(t, 1, reg.Mask(2))

	m, err := reg.MaskOf(GridQubit(0, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, m)

	_, err = reg.MaskOf(GridQubit(5, 5))
	assert.ErrorIs(t, err, ErrUnknownQubit)
}

func TestRegister_QubitsIsACopy(t *testing.T) {
	reg, err := NewRegister(LineQubits(2))
	require.NoError(t, err)

	qs := reg.Qubits()
	qs[0] = GridQubit(9, 9)

	assert.True(t, reg.Contains(GridQubit(0, 0)))
	assert.False(t, reg.Contains(GridQubit(9, 9)))

	idx := reg.IndexMap()
	assert.Equal(t, map[Qubit]int{GridQubit(0, 0): 0, GridQubit(0, 1): 1}, idx)
}

func TestErrorTaxonomy(t *testing.T) {
	cfg := fmt.Errorf("evaluate: %w", NewConfigError("vqe", ErrParameterCount, "2 != 3"))
	num := fmt.Errorf("solve: %w", NewNumericalError("eigensolver", ErrNonHermitian, ""))

	assert.True(t, IsConfigError(cfg))
	assert.False(t, IsNumericalError(cfg))
	assert.True(t, errors.Is(cfg, ErrParameterCount))

	assert.True(t, IsNumericalError(num))
	assert.False(t, IsConfigError(num))
	assert.True(t, errors.Is(num, ErrNonHermitian))

	assert.Contains(t, cfg.Error(), "configuration error")
	assert.Contains(t, num.Error(), "numerical error")
}

func TestStateVector_Norm2(t *testing.T) {
	s := StateVector{complex(0.6, 0), complex(0, 0.8)}
	assert.InDelta(t, 1.0, s.Norm2(), 1e-12)

	c := s.Clone()
	c[0] = 0
	assert.Equal(t, complex(0.6, 0), s[0])
}
