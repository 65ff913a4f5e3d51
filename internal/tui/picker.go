package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dm/aadash/internal/engine"
	"github.com/dm/aadash/internal/model"
)

// ClusterPickerModel is the cluster selector overlay.
type ClusterPickerModel struct {
	options   []model.ClusterOption
	cursor    int
	selected  string
	submitted bool // set by enter; cleared by parent after handling
	cancelled bool // set by esc; cleared by parent after handling
}

// newClusterPicker opens the selector on current. Without a loaded cluster
// list only the sentinel entries are offered.
func newClusterPicker(options []model.ClusterOption, current string) ClusterPickerModel {
	if len(options) == 0 {
		options = engine.FormatClusterOptions(nil)
	}
	p := ClusterPickerModel{options: options, cursor: -1}
	for i, o := range options {
		if o.ID == current && !o.Disabled {
			p.cursor = i
			break
		}
	}
	if p.cursor < 0 {
		p.cursor = p.nextEnabled(-1, 1)
	}
	return p
}

// nextEnabled walks from i in direction dir to the next selectable option,
// wrapping around. Returns i when nothing else is selectable.
func (p ClusterPickerModel) nextEnabled(i, dir int) int {
	n := len(p.options)
	for step := 1; step <= n; step++ {
		j := ((i+dir*step)%n + n) % n
		if !p.options[j].Disabled {
			return j
		}
	}
	return i
}

// Update moves the cursor over enabled options; enter selects, esc cancels.
func (p ClusterPickerModel) Update(msg tea.Msg) (ClusterPickerModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch {
	case key.Matches(keyMsg, keys.Escape):
		p.cancelled = true
	case key.Matches(keyMsg, keys.Enter):
		if p.cursor >= 0 && p.cursor < len(p.options) && !p.options[p.cursor].Disabled {
			p.selected = p.options[p.cursor].ID
			p.submitted = true
		}
	case key.Matches(keyMsg, keys.Up):
		p.cursor = p.nextEnabled(p.cursor, -1)
	case key.Matches(keyMsg, keys.Down):
		p.cursor = p.nextEnabled(p.cursor, 1)
	}
	return p, nil
}

// renderClusterPicker renders the selector as a bordered list.
func renderClusterPicker(app *App) string {
	p := &app.picker
	width := app.width
	if width <= 0 {
		width = 80
	}
	boxW := min(max(width/2, 30), width-2)

	lines := []string{StyleTitle.Render("Select Cluster"), ""}
	selectedBg := lipgloss.NewStyle().Background(colorSelectedBg).Bold(true)
	for i, o := range p.options {
		label := truncateName(sanitize(o.Label), boxW-8)
		switch {
		case o.Disabled:
			lines = append(lines, StyleDim.Render("  "+label))
		case i == p.cursor:
			lines = append(lines, selectedBg.Width(boxW-4).Render("› "+label))
		default:
			lines = append(lines, "  "+label)
		}
	}
	lines = append(lines, "", StyleDim.Render(fmt.Sprintf("[↑↓: move  enter: select  esc: cancel]  %d clusters", max(len(p.options)-2, 0))))
	return StylePanelFocused.Width(boxW).Render(strings.Join(lines, "\n"))
}
