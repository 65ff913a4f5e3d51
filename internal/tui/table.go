package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

// minColWidth is the narrowest a column is allowed to shrink to.
const minColWidth = 4

// columnDef describes a single column in a table.
type columnDef struct {
	Title string
	Width int
	Align string // "left", "right", "center"
	Key   string // sort key (informational)
}

// tableModel is the generic base for the sortable, paginated, searchable
// top-N lists.
type tableModel struct {
	columns   []columnDef
	sortCol   int // -1 = unsorted (backend order)
	sortDesc  bool
	page      int // 0-indexed
	pageSize  int // default 5
	search    string
	searching bool
	input     textinput.Model
	focused   bool
}

// newTableModel initialises a tableModel with sensible defaults.
func newTableModel(cols []columnDef) tableModel {
	ti := textinput.New()
	ti.Placeholder = "filter..."
	ti.CharLimit = 80
	return tableModel{
		columns:  cols,
		sortCol:  -1,
		pageSize: 5,
		input:    ti,
	}
}

// Update handles keyboard input for sorting, pagination, and search.
func (t tableModel) Update(msg tea.Msg) (tableModel, tea.Cmd) {
	if !t.focused {
		return t, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if t.searching {
			switch {
			case key.Matches(msg, keys.Escape):
				t.searching = false
				t.input.Blur()
				if t.input.Value() == "" {
					t.search = ""
				}
				return t, nil
			case key.Matches(msg, keys.Enter):
				t.search = t.input.Value()
				t.searching = false
				t.input.Blur()
				t.page = 0
				return t, nil
			default:
				var cmd tea.Cmd
				t.input, cmd = t.input.Update(msg)
				return t, cmd
			}
		}

		switch {
		case key.Matches(msg, keys.Search):
			t.searching = true
			t.input.SetValue(t.search)
			t.input.Focus()
			return t, textinput.Blink
		case key.Matches(msg, keys.Escape):
			t.search = ""
			t.input.SetValue("")
			t.page = 0
			return t, nil
		case key.Matches(msg, keys.PrevPage):
			if t.page > 0 {
				t.page--
			}
			return t, nil
		case key.Matches(msg, keys.NextPage):
			t.page++
			return t, nil
		default:
			col := digitToCol(msg.String())
			if col >= 0 && col < len(t.columns) {
				if col == t.sortCol {
					t.sortDesc = !t.sortDesc
				} else {
					t.sortCol = col
					t.sortDesc = true
				}
				t.page = 0
				return t, nil
			}
		}
	}
	return t, nil
}

// digitToCol converts a "1"–"9" key string to a 0-indexed column number.
// Returns -1 for any other string.
func digitToCol(s string) int {
	if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		return int(s[0] - '1')
	}
	return -1
}

// pageCount returns the total number of pages for totalRows rows at pageSize rows per page.
// Always at least 1.
func pageCount(totalRows, pageSize int) int {
	if totalRows == 0 || pageSize <= 0 {
		return 1
	}
	c := totalRows / pageSize
	if totalRows%pageSize != 0 {
		c++
	}
	return c
}

// currentPageIndices returns the slice of row indices visible on the current page.
func currentPageIndices(allIndices []int, page, pageSize int) []int {
	if pageSize <= 0 || len(allIndices) == 0 {
		return allIndices
	}
	start := page * pageSize
	if start >= len(allIndices) {
		start = 0
	}
	end := min(start+pageSize, len(allIndices))
	return allIndices[start:end]
}

// clampPage keeps the page index within the pages available for totalRows.
func (t *tableModel) clampPage(totalRows int) {
	pc := pageCount(totalRows, t.pageSize)
	if t.page >= pc {
		t.page = pc - 1
	}
	if t.page < 0 {
		t.page = 0
	}
}

// headerTitles returns column titles with a sort arrow on the active column.
func (t *tableModel) headerTitles() []string {
	headers := make([]string, len(t.columns))
	for i, c := range t.columns {
		headers[i] = c.Title
		if i == t.sortCol {
			if t.sortDesc {
				headers[i] += "↓"
			} else {
				headers[i] += "↑"
			}
		}
	}
	return headers
}

// truncateName shortens s to at most maxWidth terminal cells, ending in "..."
// when there is room for it. Wide runes count as two cells.
func truncateName(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// columnWidths distributes available cells across defs in proportion to
// their preferred widths. The last column takes the remainder; no column is
// narrower than minColWidth. A non-positive available returns the preferred
// widths unchanged.
func columnWidths(available int, defs []columnDef) []int {
	out := make([]int, len(defs))
	if available <= 0 {
		for i, d := range defs {
			out[i] = d.Width
		}
		return out
	}
	if len(defs) == 0 {
		return out
	}
	total := 0
	for _, d := range defs {
		total += d.Width
	}
	if total <= 0 {
		total = len(defs)
	}
	used := 0
	for i, d := range defs {
		var w int
		if i == len(defs)-1 {
			w = available - used
		} else {
			w = available * d.Width / total
		}
		w = max(w, minColWidth)
		out[i] = w
		used += w
	}
	return out
}
