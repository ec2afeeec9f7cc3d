package vqe

import (
	"fmt"
	"math"
	"strings"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/aristath/qalgo/internal/domain"
)

// CostFunc is the scalar objective handed to an optimizer. A returned error
// aborts the run.
type CostFunc func(params []float64) (float64, error)

// Optimizer is a derivative-free minimizer.
type Optimizer interface {
	Minimize(cost CostFunc, initial []float64, method string) (*OptimizerResult, error)
}

// OptimizerResult is what an optimizer reports for one run.
type OptimizerResult struct {
	X           []float64
	F           float64
	Evaluations int
	Iterations  int
	Status      string
	Converged   bool
}

// Supported method names.
const (
	MethodNelderMead = "nelder-mead"
	MethodCOBYLA     = "cobyla"
	MethodCMAES      = "cma-es"
)

// Methods lists the accepted method names.
func Methods() []string {
	return []string{MethodNelderMead, MethodCOBYLA, MethodCMAES}
}

// OptimizerSettings overrides gonum defaults when non-zero.
type OptimizerSettings struct {
	MaxEvaluations    int
	MaxIterations     int
	FunctionTolerance float64
	Runtime           time.Duration
}

// GonumOptimizer runs gonum/optimize derivative-free methods.
type GonumOptimizer struct {
	settings OptimizerSettings
}

// NewGonumOptimizer creates an optimizer with the given overrides.
func NewGonumOptimizer(settings OptimizerSettings) *GonumOptimizer {
	return &GonumOptimizer{settings: settings}
}

func (o *GonumOptimizer) method(name string) (optimize.Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", MethodNelderMead:
		return &optimize.NelderMead{}, nil
	case MethodCOBYLA:
		// gonum has no COBYLA; Nelder-Mead is the closest derivative-free simplex method.
		return &optimize.NelderMead{}, nil
	case MethodCMAES:
		return &optimize.CmaEsChol{}, nil
	}
	return nil, domain.NewConfigError("optimizer", domain.ErrUnknownMethod, name)
}

func (o *GonumOptimizer) gonumSettings() *optimize.Settings {
	s := &optimize.Settings{
		FuncEvaluations: o.settings.MaxEvaluations,
		MajorIterations: o.settings.MaxIterations,
		Runtime:         o.settings.Runtime,
		Concurrent:      1,
	}
	if o.settings.FunctionTolerance > 0 {
		s.Converger = &optimize.FunctionConverge{
			Absolute:   o.settings.FunctionTolerance,
			Iterations: 100,
		}
	}
	return s
}

// Minimize runs method from initial. A cost error stops the optimizer at the
// next status check and is returned unchanged.
func (o *GonumOptimizer) Minimize(cost CostFunc, initial []float64, method string) (*OptimizerResult, error) {
	m, err := o.method(method)
	if err != nil {
		return nil, err
	}
	if len(initial) == 0 {
		return nil, domain.NewConfigError("optimizer", domain.ErrParameterCount, "empty initial point")
	}

	var costErr error
	evaluations := 0
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			if costErr != nil {
				return math.Inf(1)
			}
			evaluations++
			f, err := cost(x)
			if err != nil {
				costErr = err
				return math.Inf(1)
			}
			return f
		},
		Status: func() (optimize.Status, error) {
			if costErr != nil {
				return optimize.Failure, costErr
			}
			return optimize.NotTerminated, nil
		},
	}

	start := make([]float64, len(initial))
	copy(start, initial)

	result, err := optimize.Minimize(problem, start, o.gonumSettings(), m)
	if costErr != nil {
		return nil, costErr
	}
	if result == nil {
		return nil, fmt.Errorf("optimization failed: %w", err)
	}

	converged := err == nil && isConvergedStatus(result.Status)
	out := &OptimizerResult{
		X:           append([]float64(nil), result.X...),
		F:           result.F,
		Evaluations: evaluations,
		Iterations:  result.MajorIterations,
		Status:      result.Status.String(),
		Converged:   converged,
	}
	if err != nil {
		// Limits reached and similar terminations are reported, not raised.
		out.Status = fmt.Sprintf("%s: %v", out.Status, err)
	}
	return out, nil
}

func isConvergedStatus(s optimize.Status) bool {
	switch s {
	case optimize.Success, optimize.FunctionConvergence, optimize.StepConvergence,
		optimize.FunctionThreshold, optimize.GradientThreshold, optimize.MethodConverge:
		return true
	}
	return false
}
