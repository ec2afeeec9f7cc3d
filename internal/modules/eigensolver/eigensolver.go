// Package eigensolver computes exact ground-state energies used to validate
// variational results.
package eigensolver

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/aristath/qalgo/internal/domain"
	"github.com/aristath/qalgo/internal/modules/linalg"
	"github.com/aristath/qalgo/internal/utils"
)

// DefaultDenseMaxDim is the largest dimension solved by full diagonalisation
// (10 qubits). Larger operators use Lanczos on the sparse form.
const DefaultDenseMaxDim = 1024

const hermitianTolerance = 1e-10

// Operator is anything that can be materialised as a dense or sparse matrix.
type Operator interface {
	Dimension() int
	Dense() *mat.CDense
	Sparse() *linalg.Sparse
}

// Method names the code path used for a solve.
type Method string

const (
	MethodDense  Method = "dense"
	MethodSparse Method = "sparse"
)

// Settings configures the dense/sparse policy.
type Settings struct {
	DenseMaxDim int
	Lanczos     linalg.LanczosSettings
}

// Solution is the outcome of one ground-state solve.
type Solution struct {
	Energy     float64       `json:"energy"`
	Method     Method        `json:"method"`
	Dimension  int           `json:"dimension"`
	Iterations int           `json:"iterations,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// Solver finds the smallest eigenvalue of Hermitian operators.
type Solver struct {
	settings Settings
	log      zerolog.Logger
}

// NewSolver creates a solver. A non-positive DenseMaxDim uses the default.
func NewSolver(settings Settings, log zerolog.Logger) *Solver {
	if settings.DenseMaxDim <= 0 {
		settings.DenseMaxDim = DefaultDenseMaxDim
	}
	return &Solver{
		settings: settings,
		log:      log.With().Str("component", "eigensolver").Logger(),
	}
}

// DenseMaxDim returns the crossover dimension in use.
func (s *Solver) DenseMaxDim() int {
	return s.settings.DenseMaxDim
}

// GroundStateEnergy returns the minimum eigenvalue of op.
func (s *Solver) GroundStateEnergy(op Operator) (float64, error) {
	sol, err := s.Solve(op)
	if err != nil {
		return 0, err
	}
	return sol.Energy, nil
}

// Solve picks the dense path up to DenseMaxDim and the sparse path above it.
func (s *Solver) Solve(op Operator) (*Solution, error) {
	dim := op.Dimension()
	timer := utils.NewTimer("ground_state_energy", s.log)

	sol := &Solution{Dimension: dim}
	var err error
	if dim <= s.settings.DenseMaxDim {
		sol.Method = MethodDense
		sol.Energy, err = s.DenseGroundState(op)
	} else {
		sol.Method = MethodSparse
		sol.Energy, sol.Iterations, err = s.SparseGroundState(op)
	}
	if err != nil {
		s.log.Error().Err(err).Int("dimension", dim).Str("method", string(sol.Method)).Msg("Ground state solve failed")
		return nil, err
	}

	sol.Duration = timer.Stop(map[string]interface{}{
		"dimension": dim,
		"method":    string(sol.Method),
		"energy":    sol.Energy,
	})
	return sol, nil
}

// DenseGroundState diagonalises the full matrix and returns its smallest
// eigenvalue.
func (s *Solver) DenseGroundState(op Operator) (float64, error) {
	m := op.Dense()
	if !linalg.IsHermitian(m, hermitianTolerance) {
		return 0, domain.NewNumericalError("eigensolver", domain.ErrNonHermitian,
			fmt.Sprintf("dense %dx%d operator", op.Dimension(), op.Dimension()))
	}
	values, err := linalg.HermitianEigenvalues(m)
	if err != nil {
		return 0, domain.NewNumericalError("eigensolver", domain.ErrNotConverged, err.Error())
	}
	return floats.Min(values), nil
}

// SparseGroundState runs Lanczos on the sparse matrix for the smallest
// algebraic eigenvalue only. It also returns the Krylov iterations used.
func (s *Solver) SparseGroundState(op Operator) (float64, int, error) {
	m := op.Sparse()
	if !m.IsHermitian(hermitianTolerance) {
		return 0, 0, domain.NewNumericalError("eigensolver", domain.ErrNonHermitian,
			fmt.Sprintf("sparse operator of dimension %d", m.Dimension()))
	}
	res, err := linalg.SmallestEigenvalue(m, s.settings.Lanczos)
	if err != nil {
		if errors.Is(err, linalg.ErrLanczosNotConverged) {
			return 0, res.Iterations, domain.NewNumericalError("eigensolver", domain.ErrNotConverged,
				fmt.Sprintf("residual %.3g after %d iterations", res.Residual, res.Iterations))
		}
		return 0, res.Iterations, err
	}
	s.log.Debug().
		Int("iterations", res.Iterations).
		Float64("residual", res.Residual).
		Msg("Lanczos converged")
	return res.Value, res.Iterations, nil
}
