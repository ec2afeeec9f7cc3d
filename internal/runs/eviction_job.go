package runs

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/qalgo/internal/events"
)

// EvictionJob removes finished runs older than a TTL.
type EvictionJob struct {
	registry *Registry
	ttl      time.Duration
	events   *events.Manager
	log      zerolog.Logger
}

// NewEvictionJob creates the job. events may be nil.
func NewEvictionJob(registry *Registry, ttl time.Duration, em *events.Manager, log zerolog.Logger) *EvictionJob {
	return &EvictionJob{
		registry: registry,
		ttl:      ttl,
		events:   em,
		log:      log.With().Str("job", "run_eviction").Logger(),
	}
}

// Name returns the job name
func (j *EvictionJob) Name() string {
	return "run_eviction"
}

// Run evicts expired runs
func (j *EvictionJob) Run() error {
	removed := j.registry.EvictFinishedBefore(j.registry.now().Add(-j.ttl))
	if removed == 0 {
		return nil
	}

	remaining := j.registry.Len()
	j.log.Info().
		Int("removed", removed).
		Int("remaining", remaining).
		Msg("Evicted finished runs")
	if j.events != nil {
		j.events.Emit("runs", &events.RunsEvictedData{Count: removed, Remaining: remaining})
	}
	return nil
}
