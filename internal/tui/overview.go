package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/aadash/internal/engine"
	"github.com/dm/aadash/internal/format"
	"github.com/dm/aadash/internal/model"
)

const overviewCards = 5

// renderOverview renders the job totals bar for the charted range.
// Wide terminals (>= 80 cols): all cards in a single horizontal row.
// Narrow terminals (< 80 cols): cards stacked in rows of 2.
// Returns empty string while there is no chart data.
func renderOverview(app *App) string {
	if len(app.vm.ChartData) == 0 {
		return ""
	}

	width := app.width
	if width <= 0 {
		width = 80
	}

	narrowMode := width < 80

	var cardWidth int
	if narrowMode {
		cardWidth = max((width-4)/2, 10)
	} else {
		cardWidth = max((width-2*overviewCards)/overviewCards, 8)
	}

	// Mini bar inner width: card width minus padding (1 char each side).
	barWidth := max(cardWidth-4, 4)

	sum := engine.Summarize(app.vm.ChartData)

	card1 := StyleOverviewCard.
		Foreground(colorBlue).
		Width(cardWidth).
		Render(format.FormatNumber(sum.Total) + "\nTotal Jobs")

	card2 := StyleOverviewCard.
		Foreground(colorGreen).
		Width(cardWidth).
		Render(format.FormatNumber(sum.Successful) + "\nSuccessful")

	failSev := failureSeverity(sum.Failed, sum.Total)
	card3 := StyleOverviewCard.
		Foreground(failedFg(failSev)).
		Width(cardWidth).
		Render(format.FormatNumber(sum.Failed) + "\nFailed")

	rateSev := successRateSeverity(sum.SuccessRate, sum.Total)
	rateVal := format.FormatPercent(sum.SuccessRate)
	if rateSev == severityCritical {
		rateVal += "!"
	}
	card4 := StyleOverviewCard.
		Foreground(severityFg(rateSev)).
		Width(cardWidth).
		Render(rateVal + "\n" + renderMiniBar(sum.SuccessRate, barWidth) + "\nSuccess Rate")

	card5 := StyleOverviewCard.
		Foreground(colorPurple).
		Width(cardWidth).
		Render(clusterCountLabel(app.data.ClusterOptions) + "\nClusters")

	if narrowMode {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, card1, card2)
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, card3, card4)
		return lipgloss.JoinVertical(lipgloss.Left, row1, row2, card5)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, card1, card2, card3, card4, card5)
}

// failedFg colors the failed-jobs card: gray when nothing failed.
func failedFg(s severity) lipgloss.Color {
	if s == severityNormal {
		return colorGray
	}
	return severityFg(s)
}

// clusterCountLabel counts the selectable clusters, excluding the sentinel
// entries. "-" means the cluster list has not loaded.
func clusterCountLabel(options []model.ClusterOption) string {
	if len(options) == 0 {
		return "-"
	}
	n := 0
	for _, o := range options {
		if o.Disabled || o.ID == model.AllClusters {
			continue
		}
		n++
	}
	return format.FormatNumber(int64(n))
}

// renderMiniBar renders a mini progress bar using Unicode block characters.
// Fills proportionally using "█" (U+2588) for filled and "░" (U+2591) for empty cells.
func renderMiniBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	percent = max(0, min(percent, 100))
	filled := min(int(percent/100.0*float64(width)), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
