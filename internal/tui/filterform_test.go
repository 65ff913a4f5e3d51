package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/aadash/internal/model"
)

func TestBuildFilterForm_BlanksSentinels(t *testing.T) {
	snap := model.DefaultSnapshot(fixedNow())
	snap.OrgID = "12"
	m := buildFilterForm(snap, []model.Template{{ID: 4}, {ID: 8}})

	require.Len(t, m.fields, 5)
	assert.Equal(t, "2024-02-15", m.value(fieldStartDate))
	assert.Equal(t, "2024-03-15", m.value(fieldEndDate))
	assert.Equal(t, "12", m.value(fieldOrg))
	assert.Equal(t, "", m.value(fieldJobType))
	assert.Equal(t, "", m.value(fieldTemplate))
	assert.Equal(t, []string{"4", "8"}, m.fields[4].suggestions)
}

func TestFilterForm_Values(t *testing.T) {
	m := buildFilterForm(model.DefaultSnapshot(fixedNow()), nil)
	m.fields[3].input.SetValue("  job ")

	v, err := m.values()
	require.NoError(t, err)
	assert.True(t, v.Start.Equal(time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)))
	assert.True(t, v.End.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "job", v.JobType)
	assert.Equal(t, "", v.OrgID)

	m.fields[1].input.SetValue("15/03/2024")
	_, err = m.values()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end date")
}

func TestFilterForm_Navigation(t *testing.T) {
	m := buildFilterForm(model.DefaultSnapshot(fixedNow()), nil)
	assert.Equal(t, 0, m.focusedField)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 4, m.focusedField, "moving up from the first field wraps")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 0, m.focusedField)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.focusedField)
	assert.True(t, m.fields[1].input.Focused())
	assert.False(t, m.fields[0].input.Focused())
}

func TestFilterForm_TypingEditsFocusedField(t *testing.T) {
	m := buildFilterForm(model.DefaultSnapshot(fixedNow()), nil)
	m.focusedField = 2
	m.fields[0].input.Blur()
	m.fields[2].input.Focus()

	m, _ = m.Update(keyRunes("7"))
	assert.Equal(t, "7", m.value(fieldOrg))
}

func TestRenderedHeight(t *testing.T) {
	assert.Equal(t, 0, renderedHeight(""))
	assert.Equal(t, 1, renderedHeight("x"))
	assert.Equal(t, 3, renderedHeight("a\nb\nc"))
}
