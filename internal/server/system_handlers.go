package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/aristath/qalgo/internal/reliability"
)

// HealthResponse reports process and host status.
type HealthResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Goroutines    int     `json:"goroutines"`
	Runs          int     `json:"runs"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	AvailableMB   uint64  `json:"available_mb"`
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := reliability.ReadStats(s.log)

	resp := HealthResponse{
		Status:        "healthy",
		UptimeSeconds: time.Since(s.startedAt).Seconds(),
		Goroutines:    runtime.NumGoroutine(),
		CPUPercent:    stats.CPUPercent,
		MemoryPercent: stats.MemoryPercent,
		AvailableMB:   stats.AvailableMB,
	}
	if s.cfg.Runs != nil {
		resp.Runs = s.cfg.Runs.Registry().Len()
	}
	s.writeResponse(w, r, http.StatusOK, resp)
}
