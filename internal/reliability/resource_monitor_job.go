package reliability

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Stats is a point-in-time reading of host load
type Stats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	AvailableMB   uint64  `json:"available_mb"`
}

// ReadStats samples CPU over a short interval and memory instantly
func ReadStats(log zerolog.Logger) Stats {
	var s Stats

	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to get CPU percentage")
	} else if len(cpuPercent) > 0 {
		s.CPUPercent = cpuPercent[0]
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to get memory statistics")
		return s
	}
	s.MemoryPercent = memStat.UsedPercent
	s.AvailableMB = memStat.Available >> 20
	return s
}

// ResourceMonitorJob logs host load and warns when memory runs high
type ResourceMonitorJob struct {
	warnPercent float64
	log         zerolog.Logger
	last        Stats
}

// NewResourceMonitorJob creates the job
func NewResourceMonitorJob(warnPercent float64, log zerolog.Logger) *ResourceMonitorJob {
	return &ResourceMonitorJob{
		warnPercent: warnPercent,
		log:         log.With().Str("job", "resource_monitor").Logger(),
	}
}

// Name returns the job name
func (j *ResourceMonitorJob) Name() string {
	return "resource_monitor"
}

// Run samples and logs host load
func (j *ResourceMonitorJob) Run() error {
	j.last = ReadStats(j.log)

	event := j.log.Debug()
	if j.last.MemoryPercent >= j.warnPercent {
		event = j.log.Warn()
	}
	event.
		Float64("cpu_percent", j.last.CPUPercent).
		Float64("memory_percent", j.last.MemoryPercent).
		Uint64("available_mb", j.last.AvailableMB).
		Msg("Resource usage")
	return nil
}

// Last returns the most recent reading
func (j *ResourceMonitorJob) Last() Stats {
	return j.last
}
