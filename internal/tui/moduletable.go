package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dm/aadash/internal/format"
	"github.com/dm/aadash/internal/model"
)

// ModuleTableModel is a sortable, paginated, searchable list of module usage.
type ModuleTableModel struct {
	tableModel
	allRows     []model.Module
	displayRows []model.Module
}

// NewModuleTable returns the Top Modules list.
func NewModuleTable() ModuleTableModel {
	cols := []columnDef{
		{Title: "Module", Width: 30, Align: "left", Key: "module"},
		{Title: "Tasks", Width: 8, Align: "right", Key: "count"},
	}
	return ModuleTableModel{tableModel: newTableModel(cols)}
}

// SetData applies the current search filter and sort to rows.
func (m *ModuleTableModel) SetData(rows []model.Module) {
	m.allRows = rows
	m.refresh()
}

func (m *ModuleTableModel) refresh() {
	filtered := filterModules(m.allRows, m.search)
	m.displayRows = sortModules(filtered, m.sortCol, m.sortDesc)
	m.clampPage(len(m.displayRows))
}

// Update delegates to the embedded tableModel and re-applies filter/sort on change.
func (m ModuleTableModel) Update(msg tea.Msg) (ModuleTableModel, tea.Cmd) {
	prevSort, prevDesc, prevSearch := m.sortCol, m.sortDesc, m.search

	base, cmd := m.tableModel.Update(msg)
	m.tableModel = base

	if m.sortCol != prevSort || m.sortDesc != prevDesc || m.search != prevSearch {
		m.refresh()
	}
	return m, cmd
}

// Rows returns the rows in display order.
func (m *ModuleTableModel) Rows() []model.Module {
	return m.displayRows
}

func (m *ModuleTableModel) renderTable(width int) string {
	pc := pageCount(len(m.displayRows), m.pageSize)
	hdr := renderListHeader("Top Modules", &m.tableModel, m.page+1, pc)

	allIdx := make([]int, len(m.displayRows))
	for i := range m.displayRows {
		allIdx[i] = i
	}
	pageIdx := currentPageIndices(allIdx, m.page, m.pageSize)
	if len(pageIdx) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, hdr, StyleDim.Render("  (no modules)"))
	}

	widths := columnWidths(width, m.columns)
	t := newListTable(m.headerTitles(), m.sortCol, 1)
	if width > 0 {
		t = t.Width(width)
	}
	for _, idx := range pageIdx {
		r := m.displayRows[idx]
		t = t.Row(truncateName(r.Name, widths[0]), format.FormatNumber(r.Count))
	}
	return lipgloss.JoinVertical(lipgloss.Left, hdr, t.String())
}
