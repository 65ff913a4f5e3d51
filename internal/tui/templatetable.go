package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/dm/aadash/internal/format"
	"github.com/dm/aadash/internal/model"
)

// TemplateTableModel is a sortable, paginated, searchable list of job templates.
// It backs both the Top Workflows and the Top Templates panels.
type TemplateTableModel struct {
	tableModel
	title       string
	empty       string
	allRows     []model.Template // unfiltered source data
	displayRows []model.Template // after filter + sort applied
}

// NewTemplateTable returns a TemplateTableModel titled title. Rows keep the
// backend order (highest count first) until a sort column is chosen.
func NewTemplateTable(title, empty string) TemplateTableModel {
	cols := []columnDef{
		{Title: "Name", Width: 24, Align: "left", Key: "name"},
		{Title: "Type", Width: 12, Align: "left", Key: "type"},
		{Title: "Jobs", Width: 8, Align: "right", Key: "count"},
	}
	return TemplateTableModel{
		tableModel: newTableModel(cols),
		title:      title,
		empty:      empty,
	}
}

// SetData applies the current search filter and sort to rows.
func (m *TemplateTableModel) SetData(rows []model.Template) {
	m.allRows = rows
	m.refresh()
}

func (m *TemplateTableModel) refresh() {
	filtered := filterTemplates(m.allRows, m.search)
	m.displayRows = sortTemplates(filtered, m.sortCol, m.sortDesc)
	m.clampPage(len(m.displayRows))
}

// Update delegates to the embedded tableModel and re-applies filter/sort
// when the sort column, direction, or search term changes.
func (m TemplateTableModel) Update(msg tea.Msg) (TemplateTableModel, tea.Cmd) {
	prevSort, prevDesc, prevSearch := m.sortCol, m.sortDesc, m.search

	base, cmd := m.tableModel.Update(msg)
	m.tableModel = base

	if m.sortCol != prevSort || m.sortDesc != prevDesc || m.search != prevSearch {
		m.refresh()
	}
	return m, cmd
}

// Rows returns the rows in display order.
func (m *TemplateTableModel) Rows() []model.Template {
	return m.displayRows
}

// renderTable renders the title line and the lipgloss table body for the
// current page, width cells wide.
func (m *TemplateTableModel) renderTable(width int) string {
	pc := pageCount(len(m.displayRows), m.pageSize)
	hdr := renderListHeader(m.title, &m.tableModel, m.page+1, pc)

	allIdx := make([]int, len(m.displayRows))
	for i := range m.displayRows {
		allIdx[i] = i
	}
	pageIdx := currentPageIndices(allIdx, m.page, m.pageSize)
	if len(pageIdx) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, hdr, StyleDim.Render("  "+m.empty))
	}

	widths := columnWidths(width, m.columns)
	t := newListTable(m.headerTitles(), m.sortCol, 2)
	if width > 0 {
		t = t.Width(width)
	}
	for _, idx := range pageIdx {
		r := m.displayRows[idx]
		t = t.Row(
			truncateName(r.Name, widths[0]),
			truncateName(r.Type, widths[1]),
			format.FormatNumber(r.Count),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, hdr, t.String())
}

// renderListHeader renders the title bar with search/sort/page hints.
// When searching, the live textinput view replaces the hints.
func renderListHeader(title string, t *tableModel, page, pages int) string {
	titleText := StyleTitle.Render(title)
	pageInfo := fmt.Sprintf("%d/%d", page, pages)

	var right string
	switch {
	case t.searching:
		right = "Search: " + t.input.View()
	case t.search != "":
		right = fmt.Sprintf("filter=%q  %s", t.search, pageInfo)
	case t.focused:
		right = fmt.Sprintf("[/: search]  [1-%d: sort]  %s", len(t.columns), pageInfo)
	case pages > 1:
		right = pageInfo
	}
	if right == "" {
		return titleText
	}
	return titleText + "  " + StyleDim.Render(right)
}

// newListTable returns a borderless lipgloss table with alternating row
// backgrounds. countCol is highlighted in green.
func newListTable(headers []string, sortCol, countCol int) *ltable.Table {
	return ltable.New().
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				if col == sortCol {
					return lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
				}
				return lipgloss.NewStyle().Bold(true).Foreground(colorGray)
			}
			base := lipgloss.NewStyle()
			if row%2 == 0 {
				base = base.Background(colorAlt)
			}
			if col == countCol {
				return base.Foreground(colorGreen).Align(lipgloss.Right)
			}
			return base.Foreground(colorWhite)
		}).
		BorderStyle(lipgloss.NewStyle().Foreground(colorGray)).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(true).
		BorderColumn(false)
}
