package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aristath/qalgo/internal/modules/charts"
	"github.com/aristath/qalgo/internal/runs"
)

// TraceResponse is the convergence series of one run.
type TraceResponse struct {
	RunID  string        `json:"run_id"`
	Status runs.Status   `json:"status"`
	Series charts.Series `json:"series"`
}

// handleSubmitRun handles POST /api/vqe/runs
func (s *Server) handleSubmitRun(w http.ResponseWriter, r *http.Request) {
	var req runs.Request
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	run, err := s.cfg.Runs.Submit(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/vqe/runs/"+run.ID)
	s.writeResponse(w, r, http.StatusAccepted, run)
}

// handleListRuns handles GET /api/vqe/runs
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, r, http.StatusOK, s.cfg.Runs.Registry().List())
}

// handleGetRun handles GET /api/vqe/runs/{id}
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.cfg.Runs.Registry().Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeResponse(w, r, http.StatusOK, run)
}

// handleRunTrace handles GET /api/vqe/runs/{id}/trace?ema=N
func (s *Server) handleRunTrace(w http.ResponseWriter, r *http.Request) {
	run, err := s.cfg.Runs.Registry().Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	period := charts.DefaultEMAPeriod
	if v := r.URL.Query().Get("ema"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			period = p
		}
	}

	s.writeResponse(w, r, http.StatusOK, TraceResponse{
		RunID:  run.ID,
		Status: run.Status,
		Series: charts.Convergence(run.Trace(), period),
	})
}
