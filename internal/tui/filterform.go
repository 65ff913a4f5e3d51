package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dm/aadash/internal/format"
	"github.com/dm/aadash/internal/model"
)

// filterField identifies one editable field of the filter form.
type filterField int

const (
	fieldStartDate filterField = iota
	fieldEndDate
	fieldOrg
	fieldJobType
	fieldTemplate
)

// formField holds the state for a single editable filter field.
type formField struct {
	Label       string
	id          filterField
	suggestions []string
	input       textinput.Model
}

// FilterFormModel edits the date range and the secondary filters.
type FilterFormModel struct {
	fields       []formField
	focusedField int
	err          string
	submitted    bool // set by ctrl+s/enter; cleared by parent after handling
	cancelled    bool // set by esc; cleared by parent after handling
}

// filterValues is what a submitted form resolves to.
type filterValues struct {
	Start, End time.Time
	OrgID      string
	JobType    string
	TemplateID string
}

// buildFilterForm creates a FilterFormModel pre-filled from snap. Sentinel
// values are shown as empty fields; an empty field means "no filter".
// templates provide suggestions for the template field.
func buildFilterForm(snap model.FilterSnapshot, templates []model.Template) FilterFormModel {
	var tmplSuggestions []string
	for _, t := range templates {
		if len(tmplSuggestions) == 5 {
			break
		}
		tmplSuggestions = append(tmplSuggestions, strconv.FormatInt(t.ID, 10))
	}

	fields := []formField{
		{Label: "Start date", id: fieldStartDate, suggestions: []string{"YYYY-MM-DD"}},
		{Label: "End date", id: fieldEndDate, suggestions: []string{"YYYY-MM-DD"}},
		{Label: "Organization ID", id: fieldOrg, suggestions: []string{"(empty = no organization)"}},
		{Label: "Job type", id: fieldJobType, suggestions: []string{"job", "workflowjob"}},
		{Label: "Template ID", id: fieldTemplate, suggestions: tmplSuggestions},
	}
	values := map[filterField]string{
		fieldStartDate: snap.StartDate.Format(format.DateLayout),
		fieldEndDate:   snap.EndDate.Format(format.DateLayout),
		fieldOrg:       unlessSentinel(snap.OrgID, model.NoOrg),
		fieldJobType:   unlessSentinel(snap.JobType, model.AllJobTypes),
		fieldTemplate:  unlessSentinel(snap.TemplateID, model.AllTemplates),
	}

	for i := range fields {
		ti := textinput.New()
		ti.CharLimit = 64
		ti.SetValue(values[fields[i].id])
		fields[i].input = ti
	}
	fields[0].input.Focus()

	return FilterFormModel{fields: fields}
}

func unlessSentinel(v, sentinel string) string {
	if v == sentinel {
		return ""
	}
	return v
}

// Update handles keyboard input for the filter form.
// ctrl+s or enter sets m.submitted; esc sets m.cancelled.
// ↑/↓ and Tab/Shift+Tab move between fields; other keys go to the focused input.
func (m FilterFormModel) Update(msg tea.Msg) (FilterFormModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.fields[m.focusedField].input, cmd = m.fields[m.focusedField].input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, keys.Escape):
		m.cancelled = true
		return m, nil
	case key.Matches(keyMsg, keys.Save), key.Matches(keyMsg, keys.Enter):
		m.submitted = true
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "shift+tab":
		m.fields[m.focusedField].input.Blur()
		if m.focusedField > 0 {
			m.focusedField--
		} else {
			m.focusedField = len(m.fields) - 1
		}
		m.fields[m.focusedField].input.Focus()
		return m, nil

	case "down", "tab":
		m.fields[m.focusedField].input.Blur()
		if m.focusedField < len(m.fields)-1 {
			m.focusedField++
		} else {
			m.focusedField = 0
		}
		m.fields[m.focusedField].input.Focus()
		return m, nil

	default:
		var cmd tea.Cmd
		m.fields[m.focusedField].input, cmd = m.fields[m.focusedField].input.Update(msg)
		return m, cmd
	}
}

// value returns the trimmed input of field id.
func (m FilterFormModel) value(id filterField) string {
	for _, f := range m.fields {
		if f.id == id {
			return strings.TrimSpace(f.input.Value())
		}
	}
	return ""
}

// values validates the form. Dates must be YYYY-MM-DD; a reversed range is
// accepted and swapped by the parameter store.
func (m FilterFormModel) values() (filterValues, error) {
	start, err := format.ParseDate(m.value(fieldStartDate))
	if err != nil {
		return filterValues{}, fmt.Errorf("start date: %w", err)
	}
	end, err := format.ParseDate(m.value(fieldEndDate))
	if err != nil {
		return filterValues{}, fmt.Errorf("end date: %w", err)
	}
	return filterValues{
		Start:      start,
		End:        end,
		OrgID:      m.value(fieldOrg),
		JobType:    m.value(fieldJobType),
		TemplateID: m.value(fieldTemplate),
	}, nil
}

// renderFilterForm renders the full-screen filter form overlay.
// The caller (View) renders the header above and footer below.
func renderFilterForm(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}
	height := app.height
	if height <= 0 {
		height = 24
	}

	form := &app.filterForm

	titleText := "Filters"
	hintText := StyleDim.Render("[enter/ctrl+s: apply  esc: cancel]")
	innerWidth := width - 2 // StyleHeader has Padding(0,1)
	gap := max(innerWidth-lipgloss.Width(titleText)-lipgloss.Width(hintText), 1)
	titleBar := StyleHeader.Width(width).MaxWidth(width).Render(titleText + strings.Repeat(" ", gap) + hintText)

	headerH := renderedHeight(renderHeader(app))
	footerH := renderedHeight(renderFooter(app))
	availH := max(height-headerH-lipgloss.Height(titleBar)-footerH, 1)

	lines := []string{""}
	selectedBg := lipgloss.NewStyle().Background(colorSelectedBg)
	for i, f := range form.fields {
		row := fmt.Sprintf("  %-18s", f.Label) + f.input.View()
		if i == form.focusedField {
			row = selectedBg.Width(width - 2).Render(row)
		}
		lines = append(lines, row)
		if len(f.suggestions) > 0 {
			lines = append(lines, "  "+strings.Repeat(" ", 18)+StyleDim.Render(strings.Join(f.suggestions, "  ")))
		}
	}
	if form.err != "" {
		lines = append(lines, "", "  "+StyleError.Render("Error: "+form.err))
	}

	for len(lines) < availH {
		lines = append(lines, "")
	}
	return titleBar + "\n" + strings.Join(lines[:availH], "\n")
}

// renderedHeight returns the number of terminal rows s occupies.
func renderedHeight(s string) int {
	if s == "" {
		return 0
	}
	return lipgloss.Height(s)
}
