package events

// EventType represents different event types
type EventType string

const (
	// VQE run lifecycle
	VQERunStarted   EventType = "VQE_RUN_STARTED"
	VQEEvaluation   EventType = "VQE_EVALUATION"
	VQERunCompleted EventType = "VQE_RUN_COMPLETED"
	VQERunFailed    EventType = "VQE_RUN_FAILED"

	// One-shot computations
	GroundStateComputed   EventType = "GROUND_STATE_COMPUTED"
	DeutschJozsaCompleted EventType = "DEUTSCH_JOZSA_COMPLETED"

	// Housekeeping
	RunsEvicted   EventType = "RUNS_EVICTED"
	ErrorOccurred EventType = "ERROR_OCCURRED"
)
