package linalg

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func pauliY() *mat.CDense {
	return mat.NewCDense(2, 2, []complex128{0, -1i, 1i, 0})
}

func pauliZ() *mat.CDense {
	return mat.NewCDense(2, 2, []complex128{1, 0, 0, -1})
}

func randomHermitian(n int, seed int64) *mat.CDense {
	rng := rand.New(rand.NewSource(seed))
	h := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		h.Set(i, i, complex(rng.NormFloat64(), 0))
		for j := i + 1; j < n; j++ {
			v := complex(rng.NormFloat64(), rng.NormFloat64())
			h.Set(i, j, v)
			h.Set(j, i, complex(real(v), -imag(v)))
		}
	}
	return h
}

func TestKron(t *testing.T) {
	zz := Kron(pauliZ(), pauliZ())
	r, c := zz.Dims()
	require.Equal(t, 4, r)
	require.Equal(t, 4, c)

	expected := []complex128{1, -1, -1, 1}
	for i := 0; i < 4; i++ {
		assert.Equal(t, expected[i], zz.At(i, i))
	}
	assert.Equal(t, complex128(0), zz.At(0, 1))
}

func TestHermitianEigenvalues_ComplexEntries(t *testing.T) {
	values, err := HermitianEigenvalues(pauliY())
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.InDelta(t, -1.0, values[0], 1e-12)
	assert.InDelta(t, 1.0, values[1], 1e-12)
}

func TestHermitianEigenvalues_TraceIsPreserved(t *testing.T) {
	h := randomHermitian(12, 7)
	values, err := HermitianEigenvalues(h)
	require.NoError(t, err)

	var trace, sum float64
	for i := 0; i < 12; i++ {
		trace += real(h.At(i, i))
		sum += values[i]
	}
	assert.InDelta(t, trace, sum, 1e-9)
	for i := 1; i < len(values); i++ {
		assert.LessOrEqual(t, values[i-1], values[i]+1e-12)
	}
}

func TestIsHermitian(t *testing.T) {
	assert.True(t, IsHermitian(pauliY(), 1e-12))

	bad := mat.NewCDense(2, 2, []complex128{0, 1, 0, 0})
	assert.False(t, IsHermitian(bad, 1e-12))

	rect := mat.NewCDense(2, 3, nil)
	assert.False(t, IsHermitian(rect, 1e-12))
}

func TestSparseBuilder_SumsDuplicates(t *testing.T) {
	b := NewSparseBuilder(3)
	b.Add(0, 0, 1)
	b.Add(0, 0, 2)
	b.Add(2, 1, 1i)
	b.Add(1, 2, -1i)
	b.Add(1, 1, 1)
	b.Add(1, 1, -1)

	s := b.Build()
	assert.Equal(t, 3, s.Dimension())
	assert.Equal(t, 3, s.NNZ())
	assert.Equal(t, complex128(3), s.At(0, 0))
	assert.Equal(t, complex128(0), s.At(1, 1))
	assert.Equal(t, complex128(1i), s.At(2, 1))
	assert.True(t, s.IsHermitian(1e-12))

	dst := make([]complex128, 3)
	s.MulVec(dst, []complex128{1, 1, 1})
	assert.Equal(t, []complex128{3, -1i, 1i}, dst)
}

func TestSparse_ToDenseRoundTrip(t *testing.T) {
	h := randomHermitian(6, 3)
	b := NewSparseBuilder(6)
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			b.Add(i, j, h.At(i, j))
		}
	}
	d := b.Build().ToDense()
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			assert.Equal(t, h.At(i, j), d.At(i, j))
		}
	}
}

func TestSmallestEigenvalue_MatchesDense(t *testing.T) {
	for _, n := range []int{1, 5, 40} {
		h := randomHermitian(n, int64(n))
		b := NewSparseBuilder(n)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				b.Add(i, j, h.At(i, j))
			}
		}

		dense, err := HermitianEigenvalues(h)
		require.NoError(t, err)

		res, err := SmallestEigenvalue(b.Build(), LanczosSettings{Seed: 1})
		require.NoError(t, err)
		assert.InDelta(t, dense[0], res.Value, 1e-8, "n=%d", n)
		assert.LessOrEqual(t, res.Iterations, n)
	}
}

func TestSmallestEigenvalue_BudgetExhausted(t *testing.T) {
	n := 64
	b := NewSparseBuilder(n)
	for i := 0; i < n; i++ {
		b.Add(i, i, complex(math.Sin(float64(i)), 0))
		if i+1 < n {
			b.Add(i, i+1, 0.5)
			b.Add(i+1, i, 0.5)
		}
	}

	_, err := SmallestEigenvalue(b.Build(), LanczosSettings{MaxIterations: 2, Tolerance: 1e-14, Seed: 1})
	assert.ErrorIs(t, err, ErrLanczosNotConverged)
}
