package charts

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Block elements for sub-character vertical resolution (1/8 to 8/8).
var blockChars = [9]rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Palette colours terminal charts.
type Palette struct {
	Above lipgloss.Color
	Below lipgloss.Color
	Bar   lipgloss.Color
}

// DefaultPalette marks energies at or below the reference in green.
var DefaultPalette = Palette{
	Above: lipgloss.Color("9"),
	Below: lipgloss.Color("10"),
	Bar:   lipgloss.Color("12"),
}

// RenderAreaChart renders data as a filled area chart using Unicode block
// elements. Columns below baseline use p.Below, the rest p.Above. width and
// height are in characters.
func RenderAreaChart(data []float64, baseline float64, width, height int, p Palette) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	cols := downsample(data, width)

	minVal, maxVal := cols[0], cols[0]
	for _, v := range cols {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	totalLevels := height * 8
	valRange := maxVal - minVal
	if valRange == 0 {
		valRange = 1
	}

	// at least one level so every column is visible
	scaled := make([]int, len(cols))
	for i, v := range cols {
		s := int((v-minVal)/valRange*float64(totalLevels-1)) + 1
		if s > totalLevels {
			s = totalLevels
		}
		scaled[i] = s
	}

	above := lipgloss.NewStyle().Foreground(p.Above)
	below := lipgloss.NewStyle().Foreground(p.Below)

	rows := make([]string, height)
	for row := 0; row < height; row++ {
		rowBottom := (height - 1 - row) * 8

		var sb strings.Builder
		for col := range scaled {
			fill := scaled[col] - rowBottom
			if fill <= 0 {
				sb.WriteRune(' ')
				continue
			}
			if fill > 8 {
				fill = 8
			}
			style := above
			if cols[col] <= baseline {
				style = below
			}
			sb.WriteString(style.Render(string(blockChars[fill])))
		}
		rows[row] = sb.String()
	}

	start := 0
	for start < len(rows) && strings.TrimSpace(rows[start]) == "" {
		start++
	}
	return strings.Join(rows[start:], "\n")
}

// RenderHistogram draws one horizontal bar per outcome, scaled so the most
// frequent outcome spans width cells.
func RenderHistogram(bars []Bar, width int, p Palette) string {
	if len(bars) == 0 || width <= 0 {
		return ""
	}
	maxCount := 0
	labelWidth := 0
	for _, b := range bars {
		if b.Count > maxCount {
			maxCount = b.Count
		}
		if len(b.Outcome) > labelWidth {
			labelWidth = len(b.Outcome)
		}
	}

	style := lipgloss.NewStyle().Foreground(p.Bar)
	lines := make([]string, len(bars))
	for i, b := range bars {
		n := 0
		if maxCount > 0 {
			n = b.Count * width / maxCount
		}
		if n == 0 && b.Count > 0 {
			n = 1
		}
		lines[i] = fmt.Sprintf("%-*s %s %d (%.1f%%)", labelWidth, b.Outcome,
			style.Render(strings.Repeat("█", n)), b.Count, 100*b.Probability)
	}
	return strings.Join(lines, "\n")
}

// downsample reduces data to n points by averaging buckets.
func downsample(data []float64, n int) []float64 {
	if len(data) <= n {
		out := make([]float64, len(data))
		copy(out, data)
		return out
	}

	out := make([]float64, n)
	bucketSize := float64(len(data)) / float64(n)
	for i := 0; i < n; i++ {
		start := int(float64(i) * bucketSize)
		end := int(float64(i+1) * bucketSize)
		if end > len(data) {
			end = len(data)
		}
		sum := 0.0
		for j := start; j < end; j++ {
			sum += data[j]
		}
		out[i] = sum / float64(end-start)
	}
	return out
}
