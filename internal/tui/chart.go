package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/aadash/internal/engine"
	"github.com/dm/aadash/internal/format"
	"github.com/dm/aadash/internal/model"
)

// chartAnchorID identifies the chart panel. Both chart renditions mount under it.
const chartAnchorID = "d3-bar-chart-root"

const (
	chartMinHeight = 4
	chartMaxHeight = 12
	yAxisWidth     = 7
)

// renderChart renders the "Job Status" panel for the current view mode:
// stacked success/failure columns for all clusters, a job total area chart
// with a failure sparkline for a single cluster, a loading placeholder, or
// the full-page preflight error.
func renderChart(app *App, width, height int) string {
	if width <= 0 {
		width = 80
	}
	inner := max(width-4, 10) // StylePanel border + padding

	title := StyleTitle.Render("Job Status") + "  " + StyleDim.Render(chartSubtitle(app))

	var body string
	switch app.vm.Mode {
	case model.ModeError:
		body = renderPreflightError(app, inner)
	case model.ModeLoading:
		body = StyleDim.Render("Loading...")
	case model.ModeAggregate:
		body = renderBarChart(app.vm.ChartData, inner, chartHeight(height))
	case model.ModePerCluster:
		body = renderLineChart(app.vm.ChartData, inner, chartHeight(height))
	}
	return StylePanel.Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
}

func chartSubtitle(app *App) string {
	snap := app.params.Current()
	if snap.AllClustersSelected() {
		return "All Clusters"
	}
	return engine.ClusterLabel(app.data.ClusterOptions, snap.ClusterID)
}

// chartHeight picks the number of plot rows for a terminal height.
func chartHeight(termHeight int) int {
	if termHeight <= 0 {
		return chartMaxHeight / 2
	}
	return max(chartMinHeight, min(chartMaxHeight, termHeight/4))
}

// renderBarChart renders one stacked column per day: successful jobs in
// green with failures stacked on top in red.
func renderBarChart(points []model.DataPoint, width, height int) string {
	plotW := max(width-yAxisWidth, 1)
	if len(points) > plotW {
		points = points[len(points)-plotW:]
	}

	var peak int64
	for _, p := range points {
		peak = max(peak, max(p.Successful, 0)+max(p.Failed, 0))
	}

	green := lipgloss.NewStyle().Foreground(colorGreen)
	red := lipgloss.NewStyle().Foreground(colorRed)

	succ := make([][]rune, len(points))
	total := make([][]rune, len(points))
	for i, p := range points {
		s := float64(max(p.Successful, 0))
		f := float64(max(p.Failed, 0))
		succ[i] = columnCells(s, float64(peak), height)
		total[i] = columnCells(s+f, float64(peak), height)
	}

	lines := make([]string, 0, height+2)
	for line := range height {
		row := height - 1 - line
		var sb strings.Builder
		for i := range points {
			// Cells covered by the success column are green; the rest of the
			// total column is the failed share.
			if succ[i][row] == '█' || (succ[i][row] != ' ' && succ[i][row] == total[i][row]) {
				sb.WriteString(green.Render(string(succ[i][row])))
			} else if total[i][row] != ' ' {
				sb.WriteString(red.Render(string(total[i][row])))
			} else {
				sb.WriteByte(' ')
			}
		}
		lines = append(lines, yAxisLabel(line, height, peak)+sb.String())
	}
	lines = append(lines, xAxis(points, plotW))
	lines = append(lines, green.Render("█ successful")+"  "+red.Render("█ failed"))
	return strings.Join(lines, "\n")
}

// renderLineChart renders the per-cluster job totals as an area chart with a
// sparkline of failures underneath.
func renderLineChart(points []model.DataPoint, width, height int) string {
	plotW := max(width-yAxisWidth, 1)
	if len(points) > plotW {
		points = points[len(points)-plotW:]
	}

	totals := engine.SeriesValues(points, "total")
	var peak int64
	for _, p := range points {
		peak = max(peak, p.Total)
	}

	area := strings.Split(RenderColumns(totals, plotW, height, colorCyan), "\n")
	lines := make([]string, 0, height+3)
	for i, l := range area {
		lines = append(lines, yAxisLabel(i, height, peak)+l)
	}
	lines = append(lines, xAxis(points, plotW))

	failed := engine.SeriesValues(points, "failed")
	lines = append(lines, fmt.Sprintf("%*s", yAxisWidth, "failed ")+RenderSparkline(failed, plotW, colorRed))
	return strings.Join(lines, "\n")
}

// yAxisLabel labels the top row with the peak and the bottom row with 0.
func yAxisLabel(line, height int, peak int64) string {
	label := ""
	switch line {
	case 0:
		label = format.FormatCompact(peak)
	case height - 1:
		label = "0"
	}
	return StyleDim.Render(fmt.Sprintf("%*s ", yAxisWidth-1, label))
}

// xAxis prints the first and last day under the plot.
func xAxis(points []model.DataPoint, plotW int) string {
	pad := strings.Repeat(" ", yAxisWidth)
	if len(points) == 0 {
		return pad
	}
	first := format.FormatDay(points[0].Date)
	last := format.FormatDay(points[len(points)-1].Date)
	if len(points) == 1 {
		return pad + StyleDim.Render(first)
	}
	gap := max(min(len(points), plotW)-lipgloss.Width(first)-lipgloss.Width(last), 1)
	return pad + StyleDim.Render(first+strings.Repeat(" ", gap)+last)
}

// renderPreflightError renders the full-page error shown when the backend
// check failed at startup.
func renderPreflightError(app *App, width int) string {
	msg := classifyError(app.gate.Err())
	lines := []string{
		StyleError.Render("Automation Analytics is unavailable"),
		"",
		truncateName(msg, width),
	}
	if app.client != nil {
		lines = append(lines, StyleDim.Render("Backend: "+app.client.BaseURL()))
	}
	lines = append(lines, "", StyleDim.Render("Restart aadash once the service is reachable."))
	return strings.Join(lines, "\n")
}
