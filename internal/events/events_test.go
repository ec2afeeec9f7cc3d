package events

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_DeliversByType(t *testing.T) {
	bus := NewBus()

	var got []*Event
	bus.Subscribe(VQEEvaluation, func(e *Event) { got = append(got, e) })
	bus.Subscribe(VQERunCompleted, func(e *Event) { t.Fatal("wrong type delivered") })

	bus.Emit("vqe", &VQEEvaluationData{RunID: "r1", Evaluation: 1, Energy: -0.5})

	require.Len(t, got, 1)
	assert.Equal(t, VQEEvaluation, got[0].Type)
	assert.Equal(t, "vqe", got[0].Module)
	data, ok := got[0].Data.(*VQEEvaluationData)
	require.True(t, ok)
	assert.Equal(t, -0.5, data.Energy)
	assert.False(t, got[0].Timestamp.IsZero())
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	unsubscribe := bus.Subscribe(RunsEvicted, func(*Event) { calls++ })
	other := bus.Subscribe(RunsEvicted, func(*Event) {})
	assert.Equal(t, 2, bus.SubscriberCount(RunsEvicted))

	bus.Emit("runs", &RunsEvictedData{Count: 1})
	unsubscribe()
	unsubscribe()
	bus.Emit("runs", &RunsEvictedData{Count: 1})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, bus.SubscriberCount(RunsEvicted))
	other()
	assert.Zero(t, bus.SubscriberCount(RunsEvicted))
}

func TestBus_ConcurrentEmit(t *testing.T) {
	bus := NewBus()
	var mu sync.Mutex
	count := 0
	bus.Subscribe(VQEEvaluation, func(*Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bus.Emit("vqe", &VQEEvaluationData{Evaluation: i})
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 20, count)
}

func TestManager_EmitError(t *testing.T) {
	bus := NewBus()
	m := NewManager(bus, zerolog.New(nil).Level(zerolog.Disabled))

	var got *ErrorEventData
	bus.Subscribe(ErrorOccurred, func(e *Event) { got = e.Data.(*ErrorEventData) })
	m.EmitError("server", errors.New("boom"), map[string]interface{}{"run_id": "x"})

	require.NotNil(t, got)
	assert.Equal(t, "boom", got.Error)
	assert.Equal(t, "x", got.Context["run_id"])
}

func TestEventWithData_JSONRoundTrip(t *testing.T) {
	original := &EventWithData{
		Type:   VQERunCompleted,
		Module: "vqe",
		Data:   &VQERunCompletedData{RunID: "abc", Energy: -1.41, Within: true},
	}
	raw, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded EventWithData
	require.NoError(t, json.Unmarshal(raw, &decoded))
	data, ok := decoded.Data.(*VQERunCompletedData)
	require.True(t, ok)
	assert.Equal(t, "abc", data.RunID)
	assert.True(t, data.Within)
}

func TestEventWithData_UnknownTypeFallsBackToGeneric(t *testing.T) {
	var decoded EventWithData
	require.NoError(t, json.Unmarshal([]byte(`{"type":"CUSTOM","data":{"a":1}}`), &decoded))
	generic, ok := decoded.Data.(*GenericEventData)
	require.True(t, ok)
	assert.Equal(t, EventType("CUSTOM"), generic.EventType())
	assert.Equal(t, float64(1), generic.Data["a"])
}
