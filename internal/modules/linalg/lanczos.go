package linalg

import (
	"errors"
	"math"
	"math/cmplx"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrLanczosNotConverged is returned when the Krylov budget runs out before
// the smallest Ritz value settles.
var ErrLanczosNotConverged = errors.New("lanczos did not converge")

// LinearOperator is a Hermitian operator that can only be applied to vectors.
type LinearOperator interface {
	Dimension() int
	MulVec(dst, x []complex128)
}

// LanczosSettings controls SmallestEigenvalue.
type LanczosSettings struct {
	// MaxIterations caps the Krylov subspace size. Zero means 300.
	MaxIterations int
	// Tolerance is the relative residual bound for the smallest Ritz pair.
	// Zero means 1e-10.
	Tolerance float64
	// Seed fixes the random start vector.
	Seed int64
}

// LanczosResult reports the smallest eigenvalue found and how it was reached.
type LanczosResult struct {
	Value      float64
	Iterations int
	Residual   float64
}

// SmallestEigenvalue finds the smallest algebraic eigenvalue of op with the
// Lanczos method and full reorthogonalisation.
func SmallestEigenvalue(op LinearOperator, settings LanczosSettings) (LanczosResult, error) {
	n := op.Dimension()
	maxIter := settings.MaxIterations
	if maxIter <= 0 {
		maxIter = 300
	}
	if maxIter > n {
		maxIter = n
	}
	tol := settings.Tolerance
	if tol <= 0 {
		tol = 1e-10
	}

	rng := rand.New(rand.NewSource(settings.Seed))
	v := make([]complex128, n)
	for i := range v {
		v[i] = complex(rng.Float64()-0.5, rng.Float64()-0.5)
	}
	scaleVec(v, 1/vecNorm(v))

	basis := make([][]complex128, 0, maxIter)
	alphas := make([]float64, 0, maxIter)
	betas := make([]float64, 0, maxIter)

	var result LanczosResult
	for j := 0; j < maxIter; j++ {
		basis = append(basis, v)

		w := make([]complex128, n)
		op.MulVec(w, v)

		alpha := real(vecDot(v, w))
		alphas = append(alphas, alpha)

		axpy(w, complex(-alpha, 0), v)
		if j > 0 {
			axpy(w, complex(-betas[j-1], 0), basis[j-1])
		}
		// Two passes of Gram-Schmidt keep the basis orthogonal to working precision.
		for pass := 0; pass < 2; pass++ {
			for _, b := range basis {
				axpy(w, -vecDot(b, w), b)
			}
		}
		beta := vecNorm(w)

		theta, lastComponent := smallestRitz(alphas, betas)
		residual := math.Abs(beta * lastComponent)
		result = LanczosResult{Value: theta, Iterations: j + 1, Residual: residual}

		if residual <= tol*math.Max(1, math.Abs(theta)) || beta < 1e-14 {
			return result, nil
		}
		if len(basis) == n {
			// The Krylov space spans everything: T is similar to op.
			return result, nil
		}

		betas = append(betas, beta)
		scaleVec(w, 1/beta)
		v = w
	}

	return result, ErrLanczosNotConverged
}

// smallestRitz returns the smallest eigenvalue of the tridiagonal matrix with
// diagonal alphas and off-diagonal betas, plus the last component of its
// eigenvector.
func smallestRitz(alphas, betas []float64) (float64, float64) {
	m := len(alphas)
	if m == 1 {
		return alphas[0], 1
	}
	t := mat.NewSymDense(m, nil)
	for i := 0; i < m; i++ {
		t.SetSym(i, i, alphas[i])
		if i+1 < m {
			t.SetSym(i, i+1, betas[i])
		}
	}

	var es mat.EigenSym
	if ok := es.Factorize(t, true); !ok {
		return floats.Min(alphas), 1
	}
	values := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)
	return values[0], vecs.At(m-1, 0)
}

func vecDot(a, b []complex128) complex128 {
	var sum complex128
	for i := range a {
		sum += cmplx.Conj(a[i]) * b[i]
	}
	return sum
}

func vecNorm(a []complex128) float64 {
	return math.Sqrt(real(vecDot(a, a)))
}

func axpy(dst []complex128, alpha complex128, x []complex128) {
	for i := range dst {
		dst[i] += alpha * x[i]
	}
}

func scaleVec(dst []complex128, f float64) {
	c := complex(f, 0)
	for i := range dst {
		dst[i] *= c
	}
}
