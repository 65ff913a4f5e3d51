package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/aadash/internal/engine"
	"github.com/dm/aadash/internal/model"
)

func pickerOptions() []model.ClusterOption {
	return engine.FormatClusterOptions([]model.ClusterRecord{
		{ID: 1, Label: "prod"},
		{ID: 2, Label: "stage"},
	})
}

func TestNewClusterPicker_StartsOnCurrent(t *testing.T) {
	p := newClusterPicker(pickerOptions(), "2")
	assert.Equal(t, "2", p.options[p.cursor].ID)

	p = newClusterPicker(pickerOptions(), "missing")
	assert.Equal(t, model.AllClusters, p.options[p.cursor].ID, "unknown ids fall back to the first enabled entry")
}

func TestNewClusterPicker_WithoutOptions(t *testing.T) {
	p := newClusterPicker(nil, model.AllClusters)
	require.Len(t, p.options, 2)
	assert.True(t, p.options[0].Disabled)
	assert.Equal(t, 1, p.cursor)
}

func TestClusterPicker_SkipsPlaceholderAndWraps(t *testing.T) {
	p := newClusterPicker(pickerOptions(), model.AllClusters)

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "2", p.options[p.cursor].ID, "moving up from the first enabled entry wraps past the placeholder")

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, model.AllClusters, p.options[p.cursor].ID)

	p, _ = p.Update(keyRunes("j"))
	assert.Equal(t, "1", p.options[p.cursor].ID)
}

func TestClusterPicker_EnterAndEsc(t *testing.T) {
	p := newClusterPicker(pickerOptions(), "1")
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, p.submitted)
	assert.Equal(t, "1", p.selected)

	p = newClusterPicker(pickerOptions(), "1")
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, p.cancelled)
	assert.False(t, p.submitted)
}

func TestRenderClusterPicker(t *testing.T) {
	app := newTestApp(t, &tuiMockClient{}, Options{})
	app.picker = newClusterPicker(pickerOptions(), "2")

	out := stripANSI(renderClusterPicker(app))
	assert.Contains(t, out, "Select Cluster")
	assert.Contains(t, out, "All Clusters")
	assert.Contains(t, out, "› stage")
	assert.Contains(t, out, "2 clusters")
}
