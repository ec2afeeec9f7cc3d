package vqe

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/qalgo/internal/domain"
	"github.com/aristath/qalgo/internal/modules/ansatz"
	"github.com/aristath/qalgo/internal/modules/hamiltonian"
	"github.com/aristath/qalgo/internal/utils"
)

// Observer is notified after every cost evaluation with its position in the
// trace (starting at 1), the parameters and the energy. It runs on the
// optimizer's goroutine and must not block.
type Observer func(evaluation int, params []float64, energy float64)

// Result is the outcome of one Minimize call.
type Result struct {
	Params      []float64     `json:"params"`
	Energy      float64       `json:"energy"`
	Evaluations int           `json:"evaluations"`
	Iterations  int           `json:"iterations"`
	Status      string        `json:"status"`
	Converged   bool          `json:"converged"`
	Method      string        `json:"method"`
	Duration    time.Duration `json:"duration"`
}

// VQE minimizes <H> over an ansatz. One instance must not run Minimize from
// two goroutines at once; separate instances share nothing mutable.
type VQE struct {
	evaluator *Evaluator
	optimizer Optimizer
	observer  Observer
	trace     []float64
	log       zerolog.Logger
}

// Option configures a VQE.
type Option func(*VQE)

// WithOptimizer replaces the default gonum optimizer.
func WithOptimizer(o Optimizer) Option {
	return func(v *VQE) { v.optimizer = o }
}

// WithSimulator replaces the default state-vector simulator.
func WithSimulator(s Simulator) Option {
	return func(v *VQE) { v.evaluator.sim = s }
}

// WithObserver registers a per-evaluation callback.
func WithObserver(obs Observer) Option {
	return func(v *VQE) { v.observer = obs }
}

// New creates a VQE for ham over qubits using build as the ansatz.
func New(qubits []domain.Qubit, build ansatz.Func, ham *hamiltonian.Hamiltonian, log zerolog.Logger, opts ...Option) (*VQE, error) {
	ev, err := NewEvaluator(qubits, build, ham, nil)
	if err != nil {
		return nil, err
	}
	v := &VQE{
		evaluator: ev,
		optimizer: NewGonumOptimizer(OptimizerSettings{}),
		log:       log.With().Str("component", "vqe").Logger(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Evaluator returns the underlying expectation evaluator.
func (v *VQE) Evaluator() *Evaluator {
	return v.evaluator
}

// Minimize runs the optimizer from initial. The trace is cleared first and
// receives one entry per cost evaluation in call order.
func (v *VQE) Minimize(initial []float64, names []string, method string) (*Result, error) {
	v.trace = v.trace[:0:0]

	if len(initial) != len(names) {
		return nil, domain.NewConfigError("vqe", domain.ErrParameterCount,
			fmt.Sprintf("%d initial values for %d parameter names", len(initial), len(names)))
	}

	timer := utils.NewTimer("vqe_minimize", v.log)
	cost := func(params []float64) (float64, error) {
		e, err := v.evaluator.Evaluate(params, names)
		if err != nil {
			return 0, err
		}
		v.trace = append(v.trace, e)
		if v.observer != nil {
			v.observer(len(v.trace), append([]float64(nil), params...), e)
		}
		return e, nil
	}

	res, err := v.optimizer.Minimize(cost, initial, method)
	if err != nil {
		v.log.Warn().Err(err).Int("evaluations", len(v.trace)).Msg("VQE run aborted")
		return nil, err
	}

	if method == "" {
		method = MethodNelderMead
	}
	result := &Result{
		Params:      append([]float64(nil), res.X...),
		Energy:      res.F,
		Evaluations: len(v.trace),
		Iterations:  res.Iterations,
		Status:      res.Status,
		Converged:   res.Converged,
		Method:      method,
	}
	result.Duration = timer.Stop(map[string]interface{}{
		"evaluations": result.Evaluations,
		"energy":      result.Energy,
		"status":      result.Status,
	})
	if !result.Converged {
		v.log.Info().Str("status", result.Status).Msg("Optimizer stopped without converging")
	}
	return result, nil
}

// Trace returns a copy of the cost values recorded by the last Minimize.
func (v *VQE) Trace() []float64 {
	out := make([]float64, len(v.trace))
	copy(out, v.trace)
	return out
}
