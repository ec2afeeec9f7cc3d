// Command demo runs the VQE, Deutsch-Jozsa and single-qubit sampling demos
// and prints the circuits, results and terminal plots.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	figure "github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"

	"github.com/aristath/qalgo/internal/domain"
	"github.com/aristath/qalgo/internal/modules/ansatz"
	"github.com/aristath/qalgo/internal/modules/charts"
	"github.com/aristath/qalgo/internal/modules/circuit"
	"github.com/aristath/qalgo/internal/modules/deutschjozsa"
	"github.com/aristath/qalgo/internal/modules/eigensolver"
	"github.com/aristath/qalgo/internal/modules/hamiltonian"
	"github.com/aristath/qalgo/internal/modules/vqe"
	"github.com/aristath/qalgo/internal/utils"
	"github.com/aristath/qalgo/pkg/logger"
)

var heading = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))

type options struct {
	method     string
	seed       int64
	reps       int
	oracle     []int
	chartWidth int
}

func main() {
	which := flag.String("demo", "all", "Demo to run: all, vqe, deutsch-jozsa, hello")
	method := flag.String("method", vqe.MethodCOBYLA, "Optimizer method ("+strings.Join(vqe.Methods(), ", ")+")")
	seed := flag.Int64("seed", 1, "Seed for initial parameters and sampling")
	reps := flag.Int("reps", 20, "Repetitions for the sampling demo")
	oracle := flag.String("oracle", "1,1,1,1", "Deutsch-Jozsa oracle values, comma separated")
	width := flag.Int("width", 60, "Chart width in columns")
	level := flag.String("log-level", "warn", "Log level")
	flag.Parse()

	log := logger.New(logger.Config{Level: *level, Pretty: true})

	values, err := utils.ParseInts(*oracle)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	opts := options{method: *method, seed: *seed, reps: *reps, oracle: values, chartWidth: *width}

	fmt.Println(figure.NewFigure("qalgo", "", true).String())

	demos := map[string]func(options, zerolog.Logger) error{
		"vqe":           runVQEDemos,
		"deutsch-jozsa": runDeutschJozsa,
		"hello":         runHelloQubit,
	}
	order := []string{"vqe", "deutsch-jozsa", "hello"}
	if *which != "all" {
		if _, ok := demos[*which]; !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown demo %q\n", *which)
			os.Exit(2)
		}
		order = []string{*which}
	}

	for _, name := range order {
		fmt.Println("###############################")
		if err := demos[name](opts, log); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", name, err)
			os.Exit(1)
		}
	}
}

type vqeDemo struct {
	title  string
	qubits int
	model  func([]domain.Qubit) (*hamiltonian.Hamiltonian, error)
	build  ansatz.Func
	params int
}

func runVQEDemos(opts options, log zerolog.Logger) error {
	demos := []vqeDemo{
		{"Two-qubit transverse-field Ising", 2, hamiltonian.TwoQubitIsing, ansatz.HardwareEfficient2, 3},
		{"Three-qubit transverse-field Ising", 3, hamiltonian.ThreeQubitIsing, ansatz.HardwareEfficient3, 6},
	}
	rng := rand.New(rand.NewSource(opts.seed))
	solver := eigensolver.NewSolver(eigensolver.Settings{}, log)

	for i, d := range demos {
		if i > 0 {
			fmt.Println("###############################")
		}
		if err := runVQE(d, opts, rng, solver, log); err != nil {
			return err
		}
	}
	return nil
}

func runVQE(d vqeDemo, opts options, rng *rand.Rand, solver *eigensolver.Solver, log zerolog.Logger) error {
	fmt.Println(heading.Render(d.title))

	qubits := domain.LineQubits(d.qubits)
	h, err := d.model(qubits)
	if err != nil {
		return err
	}
	fmt.Printf("Hamiltonian: %s\n\n", h)

	names := ansatz.ParamNames(d.params)
	c, err := d.build(qubits, names)
	if err != nil {
		return err
	}
	fmt.Println("Ansatz:")
	fmt.Println(c)

	v, err := vqe.New(qubits, d.build, h, log)
	if err != nil {
		return err
	}
	initial := make([]float64, d.params)
	for i := range initial {
		initial[i] = rng.Float64()
	}
	fmt.Printf("\nInitial Parameters: %s\n", formatFloats(initial))

	res, err := v.Minimize(initial, names, opts.method)
	if err != nil {
		return err
	}

	fmt.Println(heading.Render("\n--- VQE Results ---"))
	fmt.Printf("Optimal Value (Energy): %.6f\n", res.Energy)
	fmt.Printf("Optimal Parameters: %s\n", formatFloats(res.Params))
	fmt.Printf("Evaluations: %d (%s, %s)\n", res.Evaluations, res.Method, res.Status)
	fmt.Printf("Execution Time: %.4f sec\n", res.Duration.Seconds())

	exact, err := solver.Solve(h)
	if err != nil {
		return err
	}
	fmt.Println(heading.Render("\n--- Classical Results ---"))
	fmt.Printf("Exact Energy: %.6f (%s, dimension %d)\n", exact.Energy, exact.Method, exact.Dimension)
	fmt.Printf("Execution Time: %.4f sec\n", exact.Duration.Seconds())

	cmp, err := vqe.Compare(res.Energy, exact.Energy, 0.1)
	if err != nil {
		return err
	}
	fmt.Println(heading.Render("\n--- Comparison ---"))
	fmt.Printf("Energy Difference: %.6f (within %.2f: %t)\n", cmp.Difference, cmp.Tolerance, cmp.WithinTolerance)

	trace := v.Trace()
	series := charts.Convergence(trace, charts.DefaultEMAPeriod)
	smoothed := make([]float64, len(series.Points))
	for i, p := range series.Points {
		smoothed[i] = p.Smoothed
	}
	fmt.Println(heading.Render("\n--- Convergence ---"))
	fmt.Println(charts.RenderAreaChart(smoothed, exact.Energy+cmp.Tolerance, opts.chartWidth, 8, charts.DefaultPalette))
	fmt.Printf("best %.6f  final %.6f  tail mean %.6f ± %.6f\n", series.Best, series.Final, series.TailMean, series.TailStdDev)
	return nil
}

func runDeutschJozsa(opts options, log zerolog.Logger) error {
	fmt.Println(heading.Render("Deutsch-Jozsa"))

	oracle, err := deutschjozsa.CustomOracle(len(opts.oracle), opts.oracle)
	if err != nil {
		return err
	}
	alg, err := deutschjozsa.New(len(opts.oracle), oracle)
	if err != nil {
		return err
	}
	fmt.Println("Circuit:")
	fmt.Println(alg.Circuit())

	class, _, err := alg.Run(circuit.NewSampler(opts.seed), 1)
	if err != nil {
		return err
	}
	fmt.Printf("The oracle is: %s\n", class)
	return nil
}

func runHelloQubit(opts options, log zerolog.Logger) error {
	fmt.Println(heading.Render("Hello qubit"))

	q := domain.GridQubit(0, 0)
	c := circuit.New(circuit.SqrtX(q), circuit.Measure("m", q))
	fmt.Println("Circuit:")
	fmt.Println(c)

	reg, err := domain.NewRegister([]domain.Qubit{q})
	if err != nil {
		return err
	}
	res, err := circuit.NewSampler(opts.seed).Run(c, nil, reg, opts.reps)
	if err != nil {
		return err
	}

	var shots strings.Builder
	for _, bits := range res.Measurements["m"] {
		shots.WriteString(circuit.Bitstring(bits))
	}
	fmt.Println("\nResults:")
	fmt.Printf("m=%s\n", shots.String())

	fmt.Println("\nHistogram:")
	fmt.Println(charts.RenderHistogram(charts.Histogram(res.Histogram("m")), opts.chartWidth/2, charts.DefaultPalette))
	return nil
}

func formatFloats(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'f', 4, 64)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
