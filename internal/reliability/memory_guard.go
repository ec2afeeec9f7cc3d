// Package reliability keeps exact simulation within the machine's limits.
package reliability

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/qalgo/internal/domain"
)

// Workload is the kind of computation a request will run.
type Workload int

const (
	// Simulation holds a state vector and a scratch copy.
	Simulation Workload = iota
	// DenseSpectrum materialises the complex matrix and its real embedding.
	DenseSpectrum
	// SparseSpectrum holds the sparse operator and the Lanczos basis.
	SparseSpectrum
)

// String returns the workload name
func (w Workload) String() string {
	switch w {
	case DenseSpectrum:
		return "dense_spectrum"
	case SparseSpectrum:
		return "sparse_spectrum"
	default:
		return "simulation"
	}
}

// EstimateBytes is a rough upper bound on the memory a workload needs for n
// qubits. terms bounds the sparse operator's nonzeros per row and
// krylov bounds the Lanczos basis size.
func EstimateBytes(w Workload, n, terms, krylov int) uint64 {
	dim := uint64(1) << uint(n)
	switch w {
	case DenseSpectrum:
		// complex dim x dim, real 2dim x 2dim symmetric, eigen workspace
		return 16*dim*dim + 3*8*(2*dim)*(2*dim)
	case SparseSpectrum:
		if terms < 1 {
			terms = 1
		}
		// 16 bytes value + 8 bytes column per nonzero, krylov basis vectors
		return uint64(terms)*dim*24 + uint64(krylov+2)*dim*16
	default:
		return 2 * 16 * dim
	}
}

// MemoryGuard rejects problems beyond the configured qubit cap or the memory
// currently available.
type MemoryGuard struct {
	maxQubits int
	// fraction of available memory one request may claim
	budget    float64
	available func() (uint64, error)
	log       zerolog.Logger
}

// NewMemoryGuard creates a guard reading available memory from the OS.
func NewMemoryGuard(maxQubits int, log zerolog.Logger) *MemoryGuard {
	return &MemoryGuard{
		maxQubits: maxQubits,
		budget:    0.5,
		available: func() (uint64, error) {
			v, err := mem.VirtualMemory()
			if err != nil {
				return 0, err
			}
			return v.Available, nil
		},
		log: log.With().Str("component", "memory_guard").Logger(),
	}
}

// MaxQubits returns the configured qubit cap
func (g *MemoryGuard) MaxQubits() int {
	return g.maxQubits
}

// Check returns a configuration error wrapping domain.ErrTooLarge when the
// workload does not fit.
func (g *MemoryGuard) Check(w Workload, n, terms, krylov int) error {
	if n > g.maxQubits {
		return domain.NewConfigError("reliability", domain.ErrTooLarge,
			fmt.Sprintf("%d qubits exceeds the limit of %d", n, g.maxQubits))
	}

	need := EstimateBytes(w, n, terms, krylov)
	avail, err := g.available()
	if err != nil {
		// Without a reading only the qubit cap applies.
		g.log.Warn().Err(err).Msg("Failed to read available memory")
		return nil
	}
	if float64(need) > g.budget*float64(avail) {
		g.log.Warn().
			Str("workload", w.String()).
			Int("qubits", n).
			Uint64("need_bytes", need).
			Uint64("available_bytes", avail).
			Msg("Rejecting workload over memory budget")
		return domain.NewConfigError("reliability", domain.ErrTooLarge,
			fmt.Sprintf("%s on %d qubits needs ~%d MiB, %d MiB available",
				w, n, need>>20, avail>>20))
	}
	return nil
}
