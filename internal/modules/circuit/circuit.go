package circuit

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aristath/qalgo/internal/domain"
)

// Binding maps parameter names to values.
type Binding map[string]float64

// Bind pairs names with values by position.
func Bind(names []string, values []float64) (Binding, error) {
	if len(names) != len(values) {
		return nil, domain.NewConfigError("circuit", domain.ErrParameterCount,
			fmt.Sprintf("%d values for %d parameters", len(values), len(names)))
	}
	b := make(Binding, len(names))
	for i, name := range names {
		if _, dup := b[name]; dup {
			return nil, domain.NewConfigError("circuit", domain.ErrUnboundParameter,
				fmt.Sprintf("parameter %q listed twice", name))
		}
		b[name] = values[i]
	}
	return b, nil
}

// Circuit is an immutable ordered list of operations.
type Circuit struct {
	ops []Operation
}

// New creates a circuit from operations.
func New(ops ...Operation) *Circuit {
	return &Circuit{ops: copyOps(ops)}
}

func copyOps(ops []Operation) []Operation {
	out := make([]Operation, len(ops))
	for i, op := range ops {
		op.Qubits = append([]domain.Qubit(nil), op.Qubits...)
		out[i] = op
	}
	return out
}

// Append returns a new circuit with ops added at the end.
func (c *Circuit) Append(ops ...Operation) *Circuit {
	return &Circuit{ops: append(copyOps(c.ops), copyOps(ops)...)}
}

// Operations returns a copy of the operations.
func (c *Circuit) Operations() []Operation {
	return copyOps(c.ops)
}

// Len returns the number of operations.
func (c *Circuit) Len() int {
	return len(c.ops)
}

// Parameters returns the sorted names of all symbolic angles.
func (c *Circuit) Parameters() []string {
	seen := make(map[string]bool)
	var names []string
	for _, op := range c.ops {
		if op.Angle.IsSymbolic() && !seen[op.Angle.Symbol] {
			seen[op.Angle.Symbol] = true
			names = append(names, op.Angle.Symbol)
		}
	}
	sort.Strings(names)
	return names
}

// Qubits returns the qubits touched by the circuit in order of first use.
func (c *Circuit) Qubits() []domain.Qubit {
	seen := make(map[domain.Qubit]bool)
	var qs []domain.Qubit
	for _, op := range c.ops {
		for _, q := range op.Qubits {
			if !seen[q] {
				seen[q] = true
				qs = append(qs, q)
			}
		}
	}
	return qs
}

// Resolve returns a new circuit with every symbolic angle replaced by its
// bound value. The binding must cover exactly the circuit's parameters.
func (c *Circuit) Resolve(b Binding) (*Circuit, error) {
	params := c.Parameters()
	if len(b) != len(params) {
		return nil, domain.NewConfigError("circuit", domain.ErrUnboundParameter,
			fmt.Sprintf("binding has %d values, circuit has %d parameters", len(b), len(params)))
	}
	for _, p := range params {
		if _, ok := b[p]; !ok {
			return nil, domain.NewConfigError("circuit", domain.ErrUnboundParameter,
				fmt.Sprintf("missing value for %q", p))
		}
	}

	out := copyOps(c.ops)
	for i := range out {
		if out[i].Angle.IsSymbolic() {
			out[i].Angle = Const(b[out[i].Angle.Symbol])
		}
	}
	return &Circuit{ops: out}, nil
}

// String renders one line per qubit, gates in order.
func (c *Circuit) String() string {
	qubits := c.Qubits()
	sort.Slice(qubits, func(i, j int) bool {
		if qubits[i].Row != qubits[j].Row {
			return qubits[i].Row < qubits[j].Row
		}
		return qubits[i].Col < qubits[j].Col
	})

	lines := make(map[domain.Qubit]*strings.Builder, len(qubits))
	for _, q := range qubits {
		b := &strings.Builder{}
		fmt.Fprintf(b, "(%d, %d): ", q.Row, q.Col)
		lines[q] = b
	}

	for _, op := range c.ops {
		labels := op.labels()
		width := 0
		for _, l := range labels {
			if n := utf8.RuneCountInString(l); n > width {
				width = n
			}
		}
		for _, q := range qubits {
			label := strings.Repeat("─", width)
			for i, oq := range op.Qubits {
				if oq == q {
					label = labels[i] + strings.Repeat("─", width-utf8.RuneCountInString(labels[i]))
				}
			}
			lines[q].WriteString("───" + label)
		}
	}

	out := make([]string, len(qubits))
	for i, q := range qubits {
		out[i] = lines[q].String() + "───"
	}
	return strings.Join(out, "\n")
}

func (op Operation) labels() []string {
	switch op.Gate {
	case GateCNOT:
		return []string{"@", "X"}
	case GateCZ:
		return []string{"@", "@"}
	case GateSWAP:
		return []string{"×", "×"}
	case GateMeasure:
		labels := make([]string, len(op.Qubits))
		for i := range labels {
			labels[i] = "M(" + op.Key + ")"
		}
		return labels
	case GateRX, GateRY, GateRZ:
		arg := op.Angle.Symbol
		if !op.Angle.IsSymbolic() {
			arg = strconv.FormatFloat(op.Angle.Value, 'f', 3, 64)
		}
		return []string{string(op.Gate) + "(" + arg + ")"}
	}
	return []string{string(op.Gate)}
}
