package tui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sparkBlocks is the 8-level block character set for sparklines and columns.
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline converts a slice of float64 values into a block sparkline
// string of exactly `width` characters, colored with color.
//
// Rules:
//   - Empty values → return width spaces
//   - All zeros → return all '▁' (floor level)
//   - Values longer than width → use last width values
//   - Fewer values than width → left-pad with spaces
//   - Negative values render at floor level
func RenderSparkline(values []float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		return ""
	}

	if len(values) == 0 {
		return strings.Repeat(" ", width)
	}

	if len(values) > width {
		values = values[len(values)-width:]
	}

	maxVal := slices.Max(values)

	style := lipgloss.NewStyle().Foreground(color)

	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", width-len(values)))

	for _, v := range values {
		var idx int
		if maxVal > 0 {
			idx = int(v / maxVal * 7)
		}
		idx = max(0, min(idx, 7))
		sb.WriteRune(sparkBlocks[idx])
	}

	return style.Render(sb.String())
}

// columnCells returns the glyphs of one column, bottom row first, for a
// value scaled against maxVal across height rows. Zero and negative values
// produce an empty column.
func columnCells(v, maxVal float64, height int) []rune {
	cells := make([]rune, height)
	eighths := 0
	if maxVal > 0 && v > 0 {
		eighths = int(v / maxVal * float64(height*8))
		// Any non-zero value is visible.
		eighths = max(eighths, 1)
	}
	for row := range height {
		fill := eighths - row*8
		switch {
		case fill <= 0:
			cells[row] = ' '
		case fill >= 8:
			cells[row] = '█'
		default:
			cells[row] = sparkBlocks[fill-1]
		}
	}
	return cells
}

// RenderColumns renders values as a multi-row column chart, height rows tall
// and one cell per value. Only the last width values are shown. The result
// has height lines, top row first.
func RenderColumns(values []float64, width, height int, color lipgloss.Color) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	maxVal := 0.0
	if len(values) > 0 {
		maxVal = slices.Max(values)
	}

	cols := make([][]rune, len(values))
	for i, v := range values {
		cols[i] = columnCells(v, maxVal, height)
	}

	style := lipgloss.NewStyle().Foreground(color)
	lines := make([]string, height)
	for line := range height {
		row := height - 1 - line
		var sb strings.Builder
		for _, c := range cols {
			sb.WriteRune(c[row])
		}
		pad := strings.Repeat(" ", width-len(values))
		lines[line] = style.Render(sb.String()) + pad
	}
	return strings.Join(lines, "\n")
}
