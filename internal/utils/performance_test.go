package utils

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestTimer_StopLogsContext(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	timer := NewTimer("ground_state", log)
	time.Sleep(time.Millisecond)
	d := timer.Stop(map[string]interface{}{"dimension": 16, "method": "dense"})

	assert.GreaterOrEqual(t, d, time.Millisecond)
	assert.Contains(t, buf.String(), `"operation":"ground_state"`)
	assert.Contains(t, buf.String(), `"dimension":16`)
	assert.Contains(t, buf.String(), `"method":"dense"`)
}
