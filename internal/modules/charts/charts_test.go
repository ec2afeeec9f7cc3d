package charts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvergence_Empty(t *testing.T) {
	s := Convergence(nil, 5)
	assert.Empty(t, s.Points)
}

func TestConvergence_BestSoFarAndRunningMean(t *testing.T) {
	trace := []float64{1, 0.5, 0.8, -0.2}
	s := Convergence(trace, 10)

	require.Len(t, s.Points, 4)
	assert.Equal(t, []float64{1, 0.5, 0.5, -0.2}, []float64{
		s.Points[0].BestSoFar, s.Points[1].BestSoFar, s.Points[2].BestSoFar, s.Points[3].BestSoFar,
	})
	// fewer points than the period: smoothing is the running mean
	assert.InDelta(t, 0.75, s.Points[1].Smoothed, 1e-12)
	assert.Equal(t, 4, s.Points[3].Evaluation)
	assert.Equal(t, -0.2, s.Final)
	assert.Equal(t, -0.2, s.Best)
	assert.InDelta(t, 0.525, s.TailMean, 1e-12)
}

func TestConvergence_EMAOnLongTrace(t *testing.T) {
	trace := make([]float64, 30)
	for i := range trace {
		trace[i] = -1
	}
	s := Convergence(trace, 5)

	for _, p := range s.Points {
		assert.InDelta(t, -1.0, p.Smoothed, 1e-12)
	}
	assert.InDelta(t, 0.0, s.TailStdDev, 1e-12)
}

func TestConvergence_EMAFollowsStep(t *testing.T) {
	trace := make([]float64, 40)
	for i := range trace {
		if i >= 20 {
			trace[i] = -1
		}
	}
	s := Convergence(trace, 4)

	assert.InDelta(t, 0.0, s.Points[19].Smoothed, 1e-12)
	assert.Less(t, s.Points[20].Smoothed, 0.0)
	assert.Greater(t, s.Points[20].Smoothed, -1.0)
	assert.InDelta(t, -1.0, s.Points[39].Smoothed, 1e-3)
}

func TestHistogram(t *testing.T) {
	bars := Histogram(map[string]int{"11": 30, "00": 70})
	require.Len(t, bars, 2)
	assert.Equal(t, "00", bars[0].Outcome)
	assert.InDelta(t, 0.7, bars[0].Probability, 1e-12)
	assert.Equal(t, 30, bars[1].Count)

	assert.Empty(t, Histogram(nil))
}
