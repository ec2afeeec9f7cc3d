package vqe

import (
	"fmt"
	"math"

	"github.com/aristath/qalgo/internal/domain"
)

// Comparison relates a variational energy to the exact ground-state energy.
type Comparison struct {
	VQEEnergy       float64 `json:"vqe_energy"`
	ExactEnergy     float64 `json:"exact_energy"`
	Difference      float64 `json:"difference"`
	Tolerance       float64 `json:"tolerance"`
	WithinTolerance bool    `json:"within_tolerance"`
}

// Compare checks |vqe - exact| <= tolerance. The tolerance depends on how
// expressive the ansatz is, so callers choose it.
func Compare(vqeEnergy, exactEnergy, tolerance float64) (Comparison, error) {
	if tolerance < 0 || math.IsNaN(tolerance) {
		return Comparison{}, domain.NewConfigError("vqe", domain.ErrInvalidTolerance,
			fmt.Sprintf("tolerance %g", tolerance))
	}
	diff := math.Abs(vqeEnergy - exactEnergy)
	return Comparison{
		VQEEnergy:       vqeEnergy,
		ExactEnergy:     exactEnergy,
		Difference:      diff,
		Tolerance:       tolerance,
		WithinTolerance: diff <= tolerance,
	}, nil
}
