// Package charts turns optimization traces and measurement counts into
// plot-ready series.
package charts

import (
	"math"
	"sort"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultEMAPeriod smooths the trace over this many evaluations.
const DefaultEMAPeriod = 10

// Point is one evaluation of a convergence series.
type Point struct {
	Evaluation int     `json:"evaluation"`
	Energy     float64 `json:"energy"`
	BestSoFar  float64 `json:"best_so_far"`
	Smoothed   float64 `json:"smoothed"`
}

// Series is a convergence plot for one optimization trace.
type Series struct {
	Points     []Point `json:"points"`
	Final      float64 `json:"final"`
	Best       float64 `json:"best"`
	TailMean   float64 `json:"tail_mean"`
	TailStdDev float64 `json:"tail_std_dev"`
}

// Convergence builds the series for trace. Smoothed is the EMA over
// emaPeriod evaluations; before the EMA has enough points it is the running
// mean. Tail statistics cover the last emaPeriod evaluations.
func Convergence(trace []float64, emaPeriod int) Series {
	if len(trace) == 0 {
		return Series{Points: []Point{}}
	}
	if emaPeriod < 2 {
		emaPeriod = DefaultEMAPeriod
	}

	var ema []float64
	if len(trace) >= emaPeriod {
		ema = talib.Ema(trace, emaPeriod)
	}

	points := make([]Point, len(trace))
	best := math.Inf(1)
	var sum float64
	for i, e := range trace {
		best = math.Min(best, e)
		sum += e
		smoothed := sum / float64(i+1)
		if ema != nil && i >= emaPeriod-1 && !math.IsNaN(ema[i]) {
			smoothed = ema[i]
		}
		points[i] = Point{
			Evaluation: i + 1,
			Energy:     e,
			BestSoFar:  best,
			Smoothed:   smoothed,
		}
	}

	tail := trace
	if len(tail) > emaPeriod {
		tail = tail[len(tail)-emaPeriod:]
	}
	s := Series{
		Points:   points,
		Final:    trace[len(trace)-1],
		Best:     floats.Min(trace),
		TailMean: stat.Mean(tail, nil),
	}
	if len(tail) > 1 {
		s.TailStdDev = stat.StdDev(tail, nil)
	}
	return s
}

// Bar is one outcome of a measurement histogram.
type Bar struct {
	Outcome     string  `json:"outcome"`
	Count       int     `json:"count"`
	Probability float64 `json:"probability"`
}

// Histogram orders counts by outcome and adds relative frequencies.
func Histogram(counts map[string]int) []Bar {
	total := 0
	for _, c := range counts {
		total += c
	}
	bars := make([]Bar, 0, len(counts))
	for outcome, c := range counts {
		b := Bar{Outcome: outcome, Count: c}
		if total > 0 {
			b.Probability = float64(c) / float64(total)
		}
		bars = append(bars, b)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Outcome < bars[j].Outcome })
	return bars
}
