package tui

import "github.com/charmbracelet/lipgloss"

// Color constants for the Automation Analytics palette.
var (
	colorGreen      = lipgloss.Color("#10b981")
	colorYellow     = lipgloss.Color("#f59e0b")
	colorRed        = lipgloss.Color("#ef4444")
	colorGray       = lipgloss.Color("#6b7280")
	colorBlue       = lipgloss.Color("#3b82f6")
	colorCyan       = lipgloss.Color("#06b6d4")
	colorPurple     = lipgloss.Color("#8b5cf6")
	colorIndigo     = lipgloss.Color("#6366f1")
	colorOrange     = lipgloss.Color("#f97316")
	colorWhite      = lipgloss.Color("#f8fafc")
	colorDark       = lipgloss.Color("#1e293b")
	colorAlt        = lipgloss.Color("#0f172a")
	colorSelectedBg = lipgloss.Color("#334155")
)

// Mode styles use a bold foreground for the header mode indicator.
var (
	StyleModeAggregate  = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	StyleModePerCluster = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleModeLoading    = lipgloss.NewStyle().Foreground(colorGray)
	StyleModeError      = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
)

// StyleHeader is the full-width dark header bar.
var StyleHeader = lipgloss.NewStyle().
	Background(colorDark).
	Foreground(colorWhite).
	Padding(0, 1)

// StyleOverviewCard is a card in the job totals overview bar.
var StyleOverviewCard = lipgloss.NewStyle().
	Background(colorAlt).
	Foreground(colorWhite).
	Padding(0, 1).
	Margin(0).
	Align(lipgloss.Center)

// StylePanel is the rounded panel around the chart and the lists.
var StylePanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorGray).
	Padding(0, 1)

// StylePanelFocused marks the list that owns keyboard focus.
var StylePanelFocused = StylePanel.BorderForeground(colorBlue)

// Utility styles.
var (
	StyleError = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	StyleDim   = lipgloss.NewStyle().Foreground(colorGray)
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
)

// Named color styles for cell and chart coloring.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(colorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(colorYellow)
	StyleOrange = lipgloss.NewStyle().Foreground(colorOrange)
	StyleBlue   = lipgloss.NewStyle().Foreground(colorBlue)
	StyleCyan   = lipgloss.NewStyle().Foreground(colorCyan)
	StylePurple = lipgloss.NewStyle().Foreground(colorPurple)
	StyleRed    = lipgloss.NewStyle().Foreground(colorRed)
)

// ModeStyle returns the header indicator style for a view mode.
func ModeStyle(mode string) lipgloss.Style {
	switch mode {
	case "aggregate":
		return StyleModeAggregate
	case "per-cluster":
		return StyleModePerCluster
	case "error":
		return StyleModeError
	default:
		return StyleModeLoading
	}
}
