package tui

import "github.com/charmbracelet/lipgloss"

// severity represents the alert level for a metric value.
type severity int

const (
	severityNormal   severity = iota
	severityWarning           // yellow
	severityCritical          // red
)

// successRateSeverity returns Warning when the job success rate drops below
// 90%, Critical below 75%. A range without jobs is Normal.
func successRateSeverity(pct float64, total int64) severity {
	if total <= 0 {
		return severityNormal
	}
	switch {
	case pct < 75:
		return severityCritical
	case pct < 90:
		return severityWarning
	default:
		return severityNormal
	}
}

// failureSeverity returns Warning when any job failed, Critical when more
// than a quarter of finished jobs failed.
func failureSeverity(failed, total int64) severity {
	switch {
	case failed <= 0 || total <= 0:
		return severityNormal
	case failed*4 > total:
		return severityCritical
	default:
		return severityWarning
	}
}

// roundLatencySeverity flags slow fetch rounds: Warning above 2s, Critical above 5s.
func roundLatencySeverity(ms float64) severity {
	switch {
	case ms > 5000:
		return severityCritical
	case ms > 2000:
		return severityWarning
	default:
		return severityNormal
	}
}

// severityToStyle maps a severity level to the appropriate lipgloss style.
func severityToStyle(s severity) lipgloss.Style {
	switch s {
	case severityWarning:
		return StyleYellow
	case severityCritical:
		return StyleRed
	default:
		return lipgloss.NewStyle()
	}
}

// severityFg returns the foreground color for a card value at severity s.
func severityFg(s severity) lipgloss.Color {
	switch s {
	case severityWarning:
		return colorYellow
	case severityCritical:
		return colorRed
	default:
		return colorGreen
	}
}
