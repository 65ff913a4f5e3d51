package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dm/aadash/internal/model"
)

func TestSafeDivide(t *testing.T) {
	cases := []struct {
		name string
		a, b float64
		want float64
	}{
		{"normal", 10, 4, 2.5},
		{"divide by zero", 5, 0, 0},
		{"zero numerator", 0, 5, 0},
		{"both zero", 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, safeDivide(tc.a, tc.b))
		})
	}
}

func TestSummarize(t *testing.T) {
	points := []model.DataPoint{
		{Date: "2024-03-01", Total: 10, Successful: 8, Failed: 2},
		{Date: "2024-03-02", Total: 30, Successful: 22, Failed: 8},
		{Date: "2024-03-03", Total: -4, Successful: -1, Failed: -3},
	}
	s := Summarize(points)
	assert.Equal(t, int64(40), s.Total)
	assert.Equal(t, int64(30), s.Successful)
	assert.Equal(t, int64(10), s.Failed)
	assert.InDelta(t, 75.0, s.SuccessRate, 0.001)
	assert.Equal(t, 3, s.Days)
	assert.Equal(t, int64(30), s.PeakTotal)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, JobSummary{}, Summarize(nil))
}

func TestSeriesValues(t *testing.T) {
	points := []model.DataPoint{{Total: 3, Successful: 2, Failed: 1}, {Total: 5, Successful: 5}}
	assert.Equal(t, []float64{3, 5}, SeriesValues(points, "total"))
	assert.Equal(t, []float64{2, 5}, SeriesValues(points, "successful"))
	assert.Equal(t, []float64{1, 0}, SeriesValues(points, "failed"))
	assert.Equal(t, []float64{0, 0}, SeriesValues(points, "bogus"))
}
