package tui

// Per-context hints shown while an overlay or a list owns the keyboard.
const (
	pickerHint = "↑/↓: move  enter: select  esc: cancel"
	formHint   = "tab: next field  ctrl+s: apply  esc: cancel"
	listHint   = "/: search  esc: clear search  1-3: sort  ←/→: page  tab: next list"
	searchHint = "type to filter  enter: apply  esc: close"
)

// renderFooter renders the key binding help footer at full terminal width.
// Overlays and focused lists get their own hint; otherwise the footer shows
// a brief hint, or every binding when help is toggled on.
func renderFooter(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}
	text := "? for help"
	switch {
	case app.overlay == overlayClusterPicker:
		text = pickerHint
	case app.overlay == overlayFilterForm:
		text = formHint
	case app.focusedTable() != nil && app.focusedTable().searching:
		text = searchHint
	case app.showHelp:
		text = helpText
	case app.focus != focusNone:
		text = listHint
	}
	return StyleDim.Width(width).MaxWidth(width).Render(text)
}
