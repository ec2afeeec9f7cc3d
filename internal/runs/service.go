package runs

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aristath/qalgo/internal/domain"
	"github.com/aristath/qalgo/internal/events"
	"github.com/aristath/qalgo/internal/modules/ansatz"
	"github.com/aristath/qalgo/internal/modules/eigensolver"
	"github.com/aristath/qalgo/internal/modules/hamiltonian"
	"github.com/aristath/qalgo/internal/modules/vqe"
	"github.com/aristath/qalgo/internal/reliability"
)

// DefaultTolerance is used when a request leaves the tolerance unset.
const DefaultTolerance = 0.1

// DefaultInitialParam seeds every parameter when none are given.
const DefaultInitialParam = 0.1

// Request describes a VQE run.
type Request struct {
	Qubits        int                    `json:"qubits" msgpack:"qubits"`
	Terms         []hamiltonian.TermSpec `json:"terms" msgpack:"terms"`
	Ansatz        string                 `json:"ansatz" msgpack:"ansatz"`
	InitialParams []float64              `json:"initial_params,omitempty" msgpack:"initial_params,omitempty"`
	Method        string                 `json:"method,omitempty" msgpack:"method,omitempty"`
	Tolerance     float64                `json:"tolerance,omitempty" msgpack:"tolerance,omitempty"`
}

// Guard decides whether a workload fits on this host.
type Guard interface {
	Check(w reliability.Workload, n, terms, krylov int) error
}

// lanczosBasis bounds the Krylov basis the sparse path may allocate.
const lanczosBasis = 300

// CheckSpectrum asks guard whether the exact ground-state solve for a
// Hamiltonian of the given shape fits, using the path solver would pick.
func CheckSpectrum(guard Guard, solver *eigensolver.Solver, qubits, terms int) error {
	if guard == nil {
		return nil
	}
	workload := reliability.DenseSpectrum
	if qubits >= 62 || 1<<uint(qubits) > solver.DenseMaxDim() {
		workload = reliability.SparseSpectrum
	}
	return guard.Check(workload, qubits, terms, lanczosBasis)
}

// ServiceConfig wires a Service.
type ServiceConfig struct {
	Registry      *Registry
	Ansatze       *ansatz.Registry
	Solver        *eigensolver.Solver
	Guard         Guard
	Events        *events.Manager
	Optimizer     vqe.OptimizerSettings
	DefaultMethod string
	Log           zerolog.Logger
}

// Service validates run requests and executes them in the background.
type Service struct {
	cfg ServiceConfig
	log zerolog.Logger
	wg  sync.WaitGroup
}

// NewService creates a run service.
func NewService(cfg ServiceConfig) *Service {
	if cfg.DefaultMethod == "" {
		cfg.DefaultMethod = vqe.MethodNelderMead
	}
	return &Service{
		cfg: cfg,
		log: cfg.Log.With().Str("component", "runs").Logger(),
	}
}

// Registry returns the run registry.
func (s *Service) Registry() *Registry {
	return s.cfg.Registry
}

type prepared struct {
	ham        *hamiltonian.Hamiltonian
	ansatzName string
	build      ansatz.Func
	qubits     []domain.Qubit
	names      []string
	initial    []float64
	method     string
	tolerance  float64
}

func (s *Service) prepare(req *Request) (*prepared, error) {
	if req.Qubits < 1 {
		return nil, domain.NewConfigError("runs", domain.ErrQubitCount, "at least one qubit is required")
	}
	if s.cfg.Guard != nil {
		if err := s.cfg.Guard.Check(reliability.Simulation, req.Qubits, len(req.Terms), 0); err != nil {
			return nil, err
		}
		if err := CheckSpectrum(s.cfg.Guard, s.cfg.Solver, req.Qubits, len(req.Terms)); err != nil {
			return nil, err
		}
	}

	if req.Method == "" {
		req.Method = s.cfg.DefaultMethod
	}
	known := false
	for _, m := range vqe.Methods() {
		if m == req.Method {
			known = true
		}
	}
	if !known {
		return nil, domain.NewConfigError("runs", domain.ErrUnknownMethod, req.Method)
	}

	if req.Tolerance == 0 {
		req.Tolerance = DefaultTolerance
	}
	if req.Tolerance < 0 {
		return nil, domain.NewConfigError("runs", domain.ErrInvalidTolerance, fmt.Sprintf("%g", req.Tolerance))
	}

	spec, err := s.cfg.Ansatze.Get(req.Ansatz)
	if err != nil {
		return nil, err
	}
	count := spec.ParamCount(req.Qubits)
	if len(req.InitialParams) == 0 {
		req.InitialParams = make([]float64, count)
		for i := range req.InitialParams {
			req.InitialParams[i] = DefaultInitialParam
		}
	}
	if len(req.InitialParams) != count {
		return nil, domain.NewConfigError("runs", domain.ErrParameterCount,
			fmt.Sprintf("%s on %d qubits takes %d parameters, got %d", spec.Name, req.Qubits, count, len(req.InitialParams)))
	}

	qubits := domain.LineQubits(req.Qubits)
	ham, err := hamiltonian.FromSpecs(qubits, req.Terms)
	if err != nil {
		return nil, err
	}
	names := ansatz.ParamNames(count)
	// Surface ansatz shape errors now instead of inside the goroutine.
	if _, err := spec.Build(qubits, names); err != nil {
		return nil, err
	}

	return &prepared{
		ham:        ham,
		ansatzName: spec.Name,
		build:      spec.Build,
		qubits:     qubits,
		names:      names,
		initial:    req.InitialParams,
		method:     req.Method,
		tolerance:  req.Tolerance,
	}, nil
}

// Submit validates req, registers a run and starts it in the background.
// Configuration errors are returned before any run is created.
func (s *Service) Submit(req Request) (*Run, error) {
	p, err := s.prepare(&req)
	if err != nil {
		return nil, err
	}

	run := s.cfg.Registry.Create(req)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.execute(run.ID, p)
	}()
	return run, nil
}

// Wait blocks until every submitted run has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) emit(data events.EventData) {
	if s.cfg.Events != nil {
		s.cfg.Events.Emit("runs", data)
	}
}

func (s *Service) fail(id string, err error) {
	s.log.Error().Err(err).Str("run_id", id).Msg("VQE run failed")
	_ = s.cfg.Registry.Fail(id, err)
	s.emit(&events.VQERunFailedData{RunID: id, Error: err.Error()})
}

func (s *Service) execute(id string, p *prepared) {
	defer func() {
		if r := recover(); r != nil {
			s.fail(id, fmt.Errorf("run panicked: %v", r))
		}
	}()

	_ = s.cfg.Registry.MarkRunning(id)
	s.emit(&events.VQERunStartedData{
		RunID:      id,
		Ansatz:     p.ansatzName,
		Method:     p.method,
		Qubits:     len(p.qubits),
		Parameters: len(p.names),
	})

	exact, err := s.cfg.Solver.Solve(p.ham)
	if err != nil {
		s.fail(id, fmt.Errorf("exact ground state: %w", err))
		return
	}

	observer := func(n int, params []float64, energy float64) {
		_ = s.cfg.Registry.AppendTrace(id, energy)
		s.emit(&events.VQEEvaluationData{RunID: id, Evaluation: n, Params: params, Energy: energy})
	}
	v, err := vqe.New(p.qubits, p.build, p.ham, s.log,
		vqe.WithOptimizer(vqe.NewGonumOptimizer(s.cfg.Optimizer)),
		vqe.WithObserver(observer))
	if err != nil {
		s.fail(id, err)
		return
	}

	res, err := v.Minimize(p.initial, p.names, p.method)
	if err != nil {
		s.fail(id, err)
		return
	}

	cmp, err := vqe.Compare(res.Energy, exact.Energy, p.tolerance)
	if err != nil {
		s.fail(id, err)
		return
	}

	_ = s.cfg.Registry.Complete(id, res, exact, &cmp, v.Trace())
	s.emit(&events.VQERunCompletedData{
		RunID:       id,
		Energy:      res.Energy,
		ExactEnergy: exact.Energy,
		Difference:  cmp.Difference,
		Within:      cmp.WithinTolerance,
		Evaluations: res.Evaluations,
		Status:      res.Status,
		Duration:    res.Duration.Seconds(),
	})
	s.log.Info().
		Str("run_id", id).
		Float64("energy", res.Energy).
		Float64("exact", exact.Energy).
		Bool("within_tolerance", cmp.WithinTolerance).
		Msg("VQE run completed")
}
