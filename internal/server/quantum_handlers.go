package server

import (
	"fmt"
	"net/http"

	"github.com/aristath/qalgo/internal/domain"
	"github.com/aristath/qalgo/internal/events"
	"github.com/aristath/qalgo/internal/modules/charts"
	"github.com/aristath/qalgo/internal/modules/deutschjozsa"
	"github.com/aristath/qalgo/internal/modules/hamiltonian"
	"github.com/aristath/qalgo/internal/reliability"
	"github.com/aristath/qalgo/internal/runs"
)

const maxRepetitions = 100000

// HamiltonianRequest names a Hamiltonian over LineQubits(qubits).
type HamiltonianRequest struct {
	Qubits int                    `json:"qubits"`
	Terms  []hamiltonian.TermSpec `json:"terms"`
}

func (req HamiltonianRequest) build() (*hamiltonian.Hamiltonian, error) {
	if err := requireQubits(req.Qubits); err != nil {
		return nil, err
	}
	return hamiltonian.FromSpecs(domain.LineQubits(req.Qubits), req.Terms)
}

// GroundStateResponse is the exact ground-state energy.
type GroundStateResponse struct {
	Energy     float64 `json:"energy"`
	Method     string  `json:"method"`
	Dimension  int     `json:"dimension"`
	Iterations int     `json:"iterations,omitempty"`
	DurationMs float64 `json:"duration_ms"`
}

// handleGroundState handles POST /api/eigensolver/ground-state
func (s *Server) handleGroundState(w http.ResponseWriter, r *http.Request) {
	var req HamiltonianRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := requireQubits(req.Qubits); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := runs.CheckSpectrum(s.cfg.Guard, s.cfg.Solver, req.Qubits, len(req.Terms)); err != nil {
		s.writeError(w, r, err)
		return
	}
	h, err := req.build()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sol, err := s.cfg.Solver.Solve(h)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.emit(&events.GroundStateComputedData{
		Dimension: sol.Dimension,
		Method:    string(sol.Method),
		Energy:    sol.Energy,
		Duration:  sol.Duration.Seconds(),
	})

	s.writeResponse(w, r, http.StatusOK, GroundStateResponse{
		Energy:     sol.Energy,
		Method:     string(sol.Method),
		Dimension:  sol.Dimension,
		Iterations: sol.Iterations,
		DurationMs: float64(sol.Duration.Microseconds()) / 1000,
	})
}

// Amplitude is a complex amplitude as [re, im].
type Amplitude [2]float64

// ExpectationRequest pairs a Hamiltonian with a state vector in big-endian
// qubit order.
type ExpectationRequest struct {
	HamiltonianRequest
	State []Amplitude `json:"state"`
}

// ExpectationResponse is <psi|H|psi>.
type ExpectationResponse struct {
	Expectation float64 `json:"expectation"`
}

// handleExpectation handles POST /api/hamiltonians/expectation
func (s *Server) handleExpectation(w http.ResponseWriter, r *http.Request) {
	var req ExpectationRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := requireQubits(req.Qubits); err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.cfg.Guard != nil {
		if err := s.cfg.Guard.Check(reliability.Simulation, req.Qubits, len(req.Terms), 0); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	h, err := req.build()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	state := make(domain.StateVector, len(req.State))
	for i, a := range req.State {
		state[i] = complex(a[0], a[1])
	}
	e, err := h.Expectation(state, h.Register())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeResponse(w, r, http.StatusOK, ExpectationResponse{Expectation: e})
}

// DeutschJozsaRequest selects an oracle over n input qubits.
type DeutschJozsaRequest struct {
	N           int    `json:"n"`
	Oracle      string `json:"oracle"` // constant, balanced or custom
	Value       int    `json:"value,omitempty"`
	Values      []int  `json:"values,omitempty"`
	Repetitions int    `json:"repetitions,omitempty"`
}

// DeutschJozsaResponse reports the classification and the sampled outcomes.
type DeutschJozsaResponse struct {
	Classification deutschjozsa.Classification `json:"classification"`
	Repetitions    int                         `json:"repetitions"`
	Histogram      []charts.Bar                `json:"histogram"`
	Circuit        string                      `json:"circuit"`
}

func (req DeutschJozsaRequest) oracle() (deutschjozsa.Oracle, error) {
	switch req.Oracle {
	case "constant":
		return deutschjozsa.ConstantOracle(req.Value)
	case "balanced":
		return deutschjozsa.BalancedOracle(), nil
	case "custom":
		return deutschjozsa.CustomOracle(req.N, req.Values)
	default:
		return nil, domain.NewConfigError("server", domain.ErrOracleValue,
			fmt.Sprintf("unknown oracle %q (constant, balanced, custom)", req.Oracle))
	}
}

// handleDeutschJozsa handles POST /api/deutsch-jozsa/run
func (s *Server) handleDeutschJozsa(w http.ResponseWriter, r *http.Request) {
	var req DeutschJozsaRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Repetitions == 0 {
		req.Repetitions = 1
	}
	if req.Repetitions < 0 || req.Repetitions > maxRepetitions {
		s.writeError(w, r, domain.NewConfigError("server", domain.ErrTooLarge,
			fmt.Sprintf("repetitions must be in [1, %d], got %d", maxRepetitions, req.Repetitions)))
		return
	}
	if s.cfg.Guard != nil {
		if err := s.cfg.Guard.Check(reliability.Simulation, req.N+1, 0, 0); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	oracle, err := req.oracle()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	alg, err := deutschjozsa.New(req.N, oracle)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	class, res, err := alg.Run(s.cfg.Sampler, req.Repetitions)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.emit(&events.DeutschJozsaCompletedData{
		Inputs:         req.N,
		Oracle:         req.Oracle,
		Classification: string(class),
	})

	s.writeResponse(w, r, http.StatusOK, DeutschJozsaResponse{
		Classification: class,
		Repetitions:    req.Repetitions,
		Histogram:      charts.Histogram(res.Histogram(deutschjozsa.ResultKey)),
		Circuit:        alg.Circuit().String(),
	})
}

// handleListAnsatze handles GET /api/ansatz
func (s *Server) handleListAnsatze(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, r, http.StatusOK, s.cfg.Ansatze.List())
}

func (s *Server) emit(data events.EventData) {
	if s.cfg.Events != nil {
		s.cfg.Events.Emit("server", data)
	}
}
