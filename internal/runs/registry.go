// Package runs tracks VQE runs executed in the background and their traces.
package runs

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aristath/qalgo/internal/modules/eigensolver"
	"github.com/aristath/qalgo/internal/modules/vqe"
)

// ErrNotFound is returned for unknown run IDs.
var ErrNotFound = errors.New("run not found")

// Status is the lifecycle state of a run.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Done reports whether the run has finished.
func (s Status) Done() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Run is a snapshot of one VQE run.
type Run struct {
	ID         string                `json:"id"`
	Status     Status                `json:"status"`
	Request    Request               `json:"request"`
	CreatedAt  time.Time             `json:"created_at"`
	FinishedAt *time.Time            `json:"finished_at,omitempty"`
	Result     *vqe.Result           `json:"result,omitempty"`
	Exact      *eigensolver.Solution `json:"exact,omitempty"`
	Comparison *vqe.Comparison       `json:"comparison,omitempty"`
	Error      string                `json:"error,omitempty"`
	trace      []float64
}

// Trace returns a copy of the energies recorded so far.
func (r *Run) Trace() []float64 {
	out := make([]float64, len(r.trace))
	copy(out, r.trace)
	return out
}

func (r *Run) snapshot() *Run {
	c := *r
	c.trace = r.Trace()
	return &c
}

// Registry is an in-memory, mutex-guarded store of runs.
type Registry struct {
	mu   sync.RWMutex
	runs map[string]*Run
	now  func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{runs: make(map[string]*Run), now: time.Now}
}

// Create registers a pending run and returns its snapshot.
func (r *Registry) Create(req Request) *Run {
	run := &Run{
		ID:        uuid.New().String(),
		Status:    StatusPending,
		Request:   req,
		CreatedAt: r.now(),
	}
	r.mu.Lock()
	r.runs[run.ID] = run
	r.mu.Unlock()
	return run.snapshot()
}

// Get returns a snapshot of the run.
func (r *Registry) Get(id string) (*Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return run.snapshot(), nil
}

// List returns snapshots of all runs, newest first.
func (r *Registry) List() []*Run {
	r.mu.RLock()
	out := make([]*Run, 0, len(r.runs))
	for _, run := range r.runs {
		out = append(out, run.snapshot())
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Len returns the number of stored runs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.runs)
}

func (r *Registry) update(id string, fn func(*Run)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return ErrNotFound
	}
	fn(run)
	return nil
}

// MarkRunning moves a run to running.
func (r *Registry) MarkRunning(id string) error {
	return r.update(id, func(run *Run) { run.Status = StatusRunning })
}

// AppendTrace records one evaluation energy.
func (r *Registry) AppendTrace(id string, energy float64) error {
	return r.update(id, func(run *Run) { run.trace = append(run.trace, energy) })
}

// Complete stores the final result and trace.
func (r *Registry) Complete(id string, result *vqe.Result, exact *eigensolver.Solution, cmp *vqe.Comparison, trace []float64) error {
	now := r.now()
	return r.update(id, func(run *Run) {
		run.Status = StatusCompleted
		run.Result = result
		run.Exact = exact
		run.Comparison = cmp
		run.trace = append([]float64(nil), trace...)
		run.FinishedAt = &now
	})
}

// Fail records an error.
func (r *Registry) Fail(id string, err error) error {
	now := r.now()
	return r.update(id, func(run *Run) {
		run.Status = StatusFailed
		run.Error = err.Error()
		run.FinishedAt = &now
	})
}

// EvictFinishedBefore removes finished runs older than cutoff and returns how
// many were removed. Runs still in progress are kept.
func (r *Registry) EvictFinishedBefore(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, run := range r.runs {
		if run.Status.Done() && run.FinishedAt != nil && run.FinishedAt.Before(cutoff) {
			delete(r.runs, id)
			removed++
		}
	}
	return removed
}
