package circuit

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/aristath/qalgo/internal/domain"
)

// Result holds sampled measurement outcomes per measurement key. Each shot is
// one bit per measured qubit, in the order the qubits were listed.
type Result struct {
	Repetitions  int                `json:"repetitions"`
	Measurements map[string][][]int `json:"measurements"`
}

// Bitstring renders a shot as a string of 0s and 1s.
func Bitstring(bits []int) string {
	var b strings.Builder
	for _, v := range bits {
		if v == 1 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Histogram counts shots by bitstring for key.
func (r *Result) Histogram(key string) map[string]int {
	counts := make(map[string]int)
	for _, shot := range r.Measurements[key] {
		counts[Bitstring(shot)]++
	}
	return counts
}

// Keys returns the measurement keys in sorted order.
func (r *Result) Keys() []string {
	keys := make([]string, 0, len(r.Measurements))
	for k := range r.Measurements {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Sampler draws measurement shots from the final state of a circuit. Every
// measurement must be terminal: no gate may act on a qubit after it has been
// measured.
type Sampler struct {
	sim *StateVectorSimulator

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler creates a sampler with a fixed seed.
func NewSampler(seed int64) *Sampler {
	return &Sampler{
		sim: NewStateVectorSimulator(),
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Run samples repetitions shots.
func (s *Sampler) Run(c *Circuit, b Binding, reg *domain.Register, repetitions int) (*Result, error) {
	if repetitions < 1 {
		return nil, domain.NewConfigError("circuit", fmt.Errorf("repetitions must be positive"),
			fmt.Sprintf("got %d", repetitions))
	}

	measurements, err := terminalMeasurements(c)
	if err != nil {
		return nil, err
	}

	state, err := s.sim.Simulate(c, b, reg)
	if err != nil {
		return nil, err
	}

	cumulative := make([]float64, len(state))
	var acc float64
	for i, a := range state {
		acc += real(a)*real(a) + imag(a)*imag(a)
		cumulative[i] = acc
	}

	result := &Result{Repetitions: repetitions, Measurements: make(map[string][][]int)}
	for _, m := range measurements {
		if _, ok := result.Measurements[m.Key]; !ok {
			result.Measurements[m.Key] = make([][]int, 0, repetitions)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for shot := 0; shot < repetitions; shot++ {
		x := s.rng.Float64() * acc
		k := sort.Search(len(cumulative), func(i int) bool { return cumulative[i] > x })
		if k >= len(cumulative) {
			k = len(cumulative) - 1
		}
		for _, m := range measurements {
			bits := make([]int, len(m.Qubits))
			for i, q := range m.Qubits {
				mask, err := reg.MaskOf(q)
				if err != nil {
					return nil, err
				}
				if k&mask != 0 {
					bits[i] = 1
				}
			}
			result.Measurements[m.Key] = append(result.Measurements[m.Key], bits)
		}
	}
	return result, nil
}

// terminalMeasurements collects measurement operations and rejects any gate
// acting on an already-measured qubit.
func terminalMeasurements(c *Circuit) ([]Operation, error) {
	measured := make(map[domain.Qubit]bool)
	keys := make(map[string]bool)
	var out []Operation
	for _, op := range c.ops {
		if op.Gate == GateMeasure {
			if op.Key == "" {
				return nil, domain.NewConfigError("circuit", fmt.Errorf("measurement without key"), "")
			}
			if keys[op.Key] {
				return nil, domain.NewConfigError("circuit", fmt.Errorf("duplicate measurement key"), op.Key)
			}
			keys[op.Key] = true
			for _, q := range op.Qubits {
				measured[q] = true
			}
			out = append(out, op)
			continue
		}
		for _, q := range op.Qubits {
			if measured[q] {
				return nil, domain.NewConfigError("circuit", fmt.Errorf("mid-circuit measurement"),
					fmt.Sprintf("%s acts on measured qubit %s", op.Gate, q))
			}
		}
	}
	return out, nil
}
