package events

import (
	"encoding/json"
	"time"
)

// EventData is the interface that all event data types must implement
// This allows for type-safe event data while maintaining flexibility
type EventData interface {
	// EventType returns the event type this data is associated with
	EventType() EventType
}

// VQERunStartedData contains data for VQERunStarted events
type VQERunStartedData struct {
	RunID      string `json:"run_id"`
	Ansatz     string `json:"ansatz"`
	Method     string `json:"method"`
	Qubits     int    `json:"qubits"`
	Parameters int    `json:"parameters"`
}

// EventType returns the event type for VQERunStartedData
func (d *VQERunStartedData) EventType() EventType {
	return VQERunStarted
}

// VQEEvaluationData is emitted once per cost evaluation
type VQEEvaluationData struct {
	RunID      string    `json:"run_id"`
	Evaluation int       `json:"evaluation"`
	Params     []float64 `json:"params"`
	Energy     float64   `json:"energy"`
}

// EventType returns the event type for VQEEvaluationData
func (d *VQEEvaluationData) EventType() EventType {
	return VQEEvaluation
}

// VQERunCompletedData contains data for VQERunCompleted events
type VQERunCompletedData struct {
	RunID       string  `json:"run_id"`
	Energy      float64 `json:"energy"`
	ExactEnergy float64 `json:"exact_energy"`
	Difference  float64 `json:"difference"`
	Within      bool    `json:"within_tolerance"`
	Evaluations int     `json:"evaluations"`
	Status      string  `json:"status"`
	Duration    float64 `json:"duration"`
}

// EventType returns the event type for VQERunCompletedData
func (d *VQERunCompletedData) EventType() EventType {
	return VQERunCompleted
}

// VQERunFailedData contains data for VQERunFailed events
type VQERunFailedData struct {
	RunID string `json:"run_id"`
	Error string `json:"error"`
}

// EventType returns the event type for VQERunFailedData
func (d *VQERunFailedData) EventType() EventType {
	return VQERunFailed
}

// GroundStateComputedData contains data for GroundStateComputed events
type GroundStateComputedData struct {
	Dimension int     `json:"dimension"`
	Method    string  `json:"method"`
	Energy    float64 `json:"energy"`
	Duration  float64 `json:"duration"`
}

// EventType returns the event type for GroundStateComputedData
func (d *GroundStateComputedData) EventType() EventType {
	return GroundStateComputed
}

// DeutschJozsaCompletedData contains data for DeutschJozsaCompleted events
type DeutschJozsaCompletedData struct {
	Inputs         int    `json:"inputs"`
	Oracle         string `json:"oracle"`
	Classification string `json:"classification"`
}

// EventType returns the event type for DeutschJozsaCompletedData
func (d *DeutschJozsaCompletedData) EventType() EventType {
	return DeutschJozsaCompleted
}

// RunsEvictedData contains data for RunsEvicted events
type RunsEvictedData struct {
	Count     int `json:"count"`
	Remaining int `json:"remaining"`
}

// EventType returns the event type for RunsEvictedData
func (d *RunsEvictedData) EventType() EventType {
	return RunsEvicted
}

// ErrorEventData contains data for ErrorOccurred events
type ErrorEventData struct {
	Error   string                 `json:"error"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// EventType returns the event type for ErrorEventData
func (d *ErrorEventData) EventType() EventType {
	return ErrorOccurred
}

// EventWithData represents an event with typed data
type EventWithData struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Module    string    `json:"module"`
	Data      EventData `json:"data"`
}

// MarshalJSON customizes JSON serialization for EventWithData
func (e *EventWithData) MarshalJSON() ([]byte, error) {
	type Alias EventWithData
	aux := &struct {
		Data json.RawMessage `json:"data"`
		*Alias
	}{
		Alias: (*Alias)(e),
	}

	if e.Data != nil {
		dataBytes, err := json.Marshal(e.Data)
		if err != nil {
			return nil, err
		}
		aux.Data = dataBytes
	}

	return json.Marshal(aux)
}

// UnmarshalJSON customizes JSON deserialization for EventWithData
func (e *EventWithData) UnmarshalJSON(data []byte) error {
	type Alias EventWithData
	aux := &struct {
		Data json.RawMessage `json:"data"`
		*Alias
	}{
		Alias: (*Alias)(e),
	}

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	if len(aux.Data) == 0 {
		return nil
	}

	var eventData EventData
	switch aux.Type {
	case VQERunStarted:
		eventData = &VQERunStartedData{}
	case VQEEvaluation:
		eventData = &VQEEvaluationData{}
	case VQERunCompleted:
		eventData = &VQERunCompletedData{}
	case VQERunFailed:
		eventData = &VQERunFailedData{}
	case GroundStateComputed:
		eventData = &GroundStateComputedData{}
	case DeutschJozsaCompleted:
		eventData = &DeutschJozsaCompletedData{}
	case RunsEvicted:
		eventData = &RunsEvictedData{}
	case ErrorOccurred:
		eventData = &ErrorEventData{}
	default:
		generic := &GenericEventData{Type: aux.Type}
		if err := json.Unmarshal(aux.Data, generic); err != nil {
			return err
		}
		e.Data = generic
		return nil
	}

	if err := json.Unmarshal(aux.Data, eventData); err != nil {
		return err
	}
	e.Data = eventData
	return nil
}

// GenericEventData is a fallback for events that don't have a specific type
type GenericEventData struct {
	Type EventType              `json:"-"`
	Data map[string]interface{} `json:"-"`
}

// EventType returns the event type for GenericEventData
func (d *GenericEventData) EventType() EventType {
	return d.Type
}

// MarshalJSON customizes JSON serialization for GenericEventData
func (d *GenericEventData) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Data)
}

// UnmarshalJSON customizes JSON deserialization for GenericEventData
func (d *GenericEventData) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &d.Data)
}
