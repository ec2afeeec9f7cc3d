// Package linalg provides the complex linear algebra used by the Hamiltonian
// model and the eigensolver: Kronecker products, Hermitian checks, full
// Hermitian spectra and a sparse operator with a Lanczos ground-state search.
package linalg

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// Kron returns the Kronecker product a ⊗ b.
func Kron(a, b *mat.CDense) *mat.CDense {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	out := mat.NewCDense(ar*br, ac*bc, nil)
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			aij := a.At(i, j)
			if aij == 0 {
				continue
			}
			for k := 0; k < br; k++ {
				for l := 0; l < bc; l++ {
					out.Set(i*br+k, j*bc+l, aij*b.At(k, l))
				}
			}
		}
	}
	return out
}

// AddScaled sets dst = dst + alpha*m. Both matrices must have the same shape.
func AddScaled(dst *mat.CDense, alpha complex128, m *mat.CDense) {
	r, c := dst.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if v == 0 {
				continue
			}
			dst.Set(i, j, dst.At(i, j)+alpha*v)
		}
	}
}

// MaxAbs returns the largest entry magnitude of m.
func MaxAbs(m *mat.CDense) float64 {
	r, c := m.Dims()
	var max float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if a := cmplx.Abs(m.At(i, j)); a > max {
				max = a
			}
		}
	}
	return max
}

// IsHermitian reports whether m equals its conjugate transpose within tol,
// scaled by the largest entry.
func IsHermitian(m *mat.CDense, tol float64) bool {
	r, c := m.Dims()
	if r != c {
		return false
	}
	scale := math.Max(1, MaxAbs(m))
	for i := 0; i < r; i++ {
		for j := i; j < c; j++ {
			if cmplx.IsNaN(m.At(i, j)) {
				return false
			}
			if cmplx.Abs(m.At(i, j)-cmplx.Conj(m.At(j, i))) > tol*scale {
				return false
			}
		}
	}
	return true
}

// HermitianEigenvalues returns the eigenvalues of the Hermitian matrix h in
// ascending order.
//
// gonum has no complex Hermitian eigensolver, so h = A + iB is embedded in
// the real symmetric matrix [[A, -B], [B, A]], whose spectrum is the spectrum
// of h with every eigenvalue repeated twice.
func HermitianEigenvalues(h *mat.CDense) ([]float64, error) {
	n, c := h.Dims()
	if n != c {
		return nil, fmt.Errorf("matrix is %dx%d, not square", n, c)
	}

	sym := mat.NewSymDense(2*n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := h.At(i, j)
			a, b := real(v), imag(v)
			sym.SetSym(i, j, a)
			sym.SetSym(n+i, n+j, a)
			// Lower-left block holds B, upper-right holds -B = B^T.
			sym.SetSym(i, n+j, -b)
			if i != j {
				sym.SetSym(j, n+i, b)
			}
		}
	}

	var es mat.EigenSym
	if ok := es.Factorize(sym, false); !ok {
		return nil, fmt.Errorf("symmetric eigendecomposition failed")
	}
	doubled := es.Values(nil)

	values := make([]float64, n)
	for i := range values {
		values[i] = doubled[2*i]
	}
	return values, nil
}
