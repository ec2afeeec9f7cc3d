package charts

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// plain output so assertions see the raw block characters
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestDownsample(t *testing.T) {
	assert.Equal(t, []float64{1, 2}, downsample([]float64{1, 2}, 5))
	assert.Equal(t, []float64{1.5, 3.5}, downsample([]float64{1, 2, 3, 4}, 2))
}

func TestRenderAreaChart(t *testing.T) {
	assert.Empty(t, RenderAreaChart(nil, 0, 10, 3, DefaultPalette))

	out := RenderAreaChart([]float64{1, 0.5, 0, -0.5, -1}, -1, 5, 2, DefaultPalette)
	rows := strings.Split(out, "\n")
	require.Len(t, rows, 2)
	// the highest energy fills the first column completely
	assert.Equal(t, '█', []rune(rows[0])[0])
	// the lowest energy gets the minimum single level
	assert.Equal(t, '▁', []rune(rows[1])[4])
	assert.Equal(t, ' ', []rune(rows[0])[4])
}

func TestRenderHistogram(t *testing.T) {
	out := RenderHistogram(Histogram(map[string]int{"0": 15, "1": 5}), 9, DefaultPalette)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "0 █████████ 15 (75.0%)", lines[0])
	assert.Equal(t, "1 ███ 5 (25.0%)", lines[1])

	assert.Empty(t, RenderHistogram(nil, 10, DefaultPalette))
}
