package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/aristath/qalgo/internal/events"
)

const (
	streamBuffer       = 256
	streamWriteTimeout = 5 * time.Second
)

// runID extracts the run an event belongs to, if any.
func runID(e *events.Event) string {
	switch d := e.Data.(type) {
	case *events.VQERunStartedData:
		return d.RunID
	case *events.VQEEvaluationData:
		return d.RunID
	case *events.VQERunCompletedData:
		return d.RunID
	case *events.VQERunFailedData:
		return d.RunID
	}
	return ""
}

// handleRunStream handles GET /api/vqe/runs/{id}/stream. It upgrades to a
// websocket and forwards the run's events until it completes or fails.
func (s *Server) handleRunStream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.cfg.Runs.Registry().Get(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.cfg.Events == nil {
		http.Error(w, "Streaming not available", http.StatusServiceUnavailable)
		return
	}

	opts := &websocket.AcceptOptions{OriginPatterns: s.cfg.CORSOrigins}
	for _, o := range s.cfg.CORSOrigins {
		if o == "*" {
			opts.InsecureSkipVerify = true
		}
	}
	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		s.log.Warn().Err(err).Str("run_id", id).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "")

	eventChan := make(chan *events.Event, streamBuffer)
	handler := func(e *events.Event) {
		if runID(e) != id {
			return
		}
		// Non-blocking send (drop if channel full)
		select {
		case eventChan <- e:
		default:
			s.log.Warn().Str("run_id", id).Str("event_type", string(e.Type)).Msg("Stream channel full, dropping event")
		}
	}
	bus := s.cfg.Events.Bus()
	for _, t := range []events.EventType{events.VQERunStarted, events.VQEEvaluation, events.VQERunCompleted, events.VQERunFailed} {
		unsubscribe := bus.Subscribe(t, handler)
		defer unsubscribe()
	}

	ctx := conn.CloseRead(r.Context())

	// The run may have finished before the subscription was in place.
	run, err := s.cfg.Runs.Registry().Get(id)
	if err == nil && run.Status.Done() {
		_ = s.write(ctx, conn, run)
		conn.Close(websocket.StatusNormalClosure, string(run.Status))
		return
	}

	s.log.Debug().Str("run_id", id).Msg("Client connected to run stream")
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-eventChan:
			if err := s.write(ctx, conn, e); err != nil {
				s.log.Debug().Err(err).Str("run_id", id).Msg("Run stream closed")
				return
			}
			if e.Type == events.VQERunCompleted || e.Type == events.VQERunFailed {
				conn.Close(websocket.StatusNormalClosure, string(e.Type))
				return
			}
		}
	}
}

func (s *Server) write(ctx context.Context, conn *websocket.Conn, v interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, v)
}
