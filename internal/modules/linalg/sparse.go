package linalg

import (
	"math"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Sparse is a square complex matrix in compressed sparse row form.
type Sparse struct {
	dim    int
	rowPtr []int
	colIdx []int
	values []complex128
}

type triplet struct {
	row, col int
	val      complex128
}

// SparseBuilder accumulates entries for a Sparse matrix. Entries added more
// than once at the same position are summed.
type SparseBuilder struct {
	dim     int
	entries []triplet
}

// NewSparseBuilder creates a builder for a dim x dim matrix.
func NewSparseBuilder(dim int) *SparseBuilder {
	return &SparseBuilder{dim: dim}
}

// Add accumulates v at (row, col).
func (b *SparseBuilder) Add(row, col int, v complex128) {
	if v == 0 {
		return
	}
	b.entries = append(b.entries, triplet{row: row, col: col, val: v})
}

// Build produces the CSR matrix. Entries that sum to exactly zero are dropped.
func (b *SparseBuilder) Build() *Sparse {
	entries := make([]triplet, len(b.entries))
	copy(entries, b.entries)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].row != entries[j].row {
			return entries[i].row < entries[j].row
		}
		return entries[i].col < entries[j].col
	})

	s := &Sparse{dim: b.dim, rowPtr: make([]int, b.dim+1)}
	for i := 0; i < len(entries); {
		cur := entries[i]
		sum := cur.val
		j := i + 1
		for j < len(entries) && entries[j].row == cur.row && entries[j].col == cur.col {
			sum += entries[j].val
			j++
		}
		if sum != 0 {
			s.colIdx = append(s.colIdx, cur.col)
			s.values = append(s.values, sum)
			s.rowPtr[cur.row+1]++
		}
		i = j
	}
	for r := 0; r < b.dim; r++ {
		s.rowPtr[r+1] += s.rowPtr[r]
	}
	return s
}

// Dimension returns the number of rows (and columns).
func (s *Sparse) Dimension() int {
	return s.dim
}

// NNZ returns the number of stored non-zero entries.
func (s *Sparse) NNZ() int {
	return len(s.values)
}

// At returns the entry at (i, j).
func (s *Sparse) At(i, j int) complex128 {
	for k := s.rowPtr[i]; k < s.rowPtr[i+1]; k++ {
		if s.colIdx[k] == j {
			return s.values[k]
		}
	}
	return 0
}

// MulVec sets dst = S*x. dst and x must have length Dimension and must not alias.
func (s *Sparse) MulVec(dst, x []complex128) {
	for r := 0; r < s.dim; r++ {
		var sum complex128
		for k := s.rowPtr[r]; k < s.rowPtr[r+1]; k++ {
			sum += s.values[k] * x[s.colIdx[k]]
		}
		dst[r] = sum
	}
}

// IsHermitian reports whether S equals its conjugate transpose within tol,
// scaled by the largest entry.
func (s *Sparse) IsHermitian(tol float64) bool {
	scale := 1.0
	for _, v := range s.values {
		scale = math.Max(scale, cmplx.Abs(v))
	}
	for r := 0; r < s.dim; r++ {
		for k := s.rowPtr[r]; k < s.rowPtr[r+1]; k++ {
			c := s.colIdx[k]
			if cmplx.IsNaN(s.values[k]) {
				return false
			}
			if cmplx.Abs(s.values[k]-cmplx.Conj(s.At(c, r))) > tol*scale {
				return false
			}
		}
	}
	return true
}

// ToDense materialises the matrix.
func (s *Sparse) ToDense() *mat.CDense {
	d := mat.NewCDense(s.dim, s.dim, nil)
	for r := 0; r < s.dim; r++ {
		for k := s.rowPtr[r]; k < s.rowPtr[r+1]; k++ {
			d.Set(r, s.colIdx[k], s.values[k])
		}
	}
	return d
}
