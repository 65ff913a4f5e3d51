package tui

import (
	"sort"
	"strings"

	"github.com/dm/aadash/internal/model"
)

// sortTemplates returns a sorted copy of rows.
// Column mapping:
//
//	0=Name, 1=Type, 2=Count
//
// col -1 means no sort (backend order, which is already by count).
// Ties are broken by Name ascending.
func sortTemplates(rows []model.Template, col int, desc bool) []model.Template {
	out := make([]model.Template, len(rows))
	copy(out, rows)

	if col < 0 {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		var less bool
		switch col {
		case 1:
			if a.Type != b.Type {
				less = a.Type < b.Type
			} else {
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			}
		case 2:
			if a.Count != b.Count {
				less = a.Count < b.Count
			} else {
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			}
		default:
			less = strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
		if desc {
			return !less
		}
		return less
	})
	return out
}

// sortModules returns a sorted copy of rows.
// Column mapping:
//
//	0=Name, 1=Count
//
// Ties are broken by Name ascending.
func sortModules(rows []model.Module, col int, desc bool) []model.Module {
	out := make([]model.Module, len(rows))
	copy(out, rows)

	if col < 0 {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		var less bool
		switch col {
		case 1:
			if a.Count != b.Count {
				less = a.Count < b.Count
			} else {
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			}
		default:
			less = strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
		if desc {
			return !less
		}
		return less
	})
	return out
}

// filterTemplates returns rows whose Name contains search (case-insensitive).
// Returns all rows when search is empty.
func filterTemplates(rows []model.Template, search string) []model.Template {
	if search == "" {
		return rows
	}
	lower := strings.ToLower(search)
	out := rows[:0:0]
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Name), lower) {
			out = append(out, r)
		}
	}
	return out
}

// filterModules returns rows whose Name contains search (case-insensitive).
// Returns all rows when search is empty.
func filterModules(rows []model.Module, search string) []model.Module {
	if search == "" {
		return rows
	}
	lower := strings.ToLower(search)
	out := rows[:0:0]
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Name), lower) {
			out = append(out, r)
		}
	}
	return out
}

// workflowTemplates keeps only workflow job templates.
func workflowTemplates(rows []model.Template) []model.Template {
	out := rows[:0:0]
	for _, r := range rows {
		if r.Type == model.WorkflowTemplateType {
			out = append(out, r)
		}
	}
	return out
}
