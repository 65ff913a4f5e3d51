package engine

import "github.com/dm/aadash/internal/model"

// JobSummary holds totals over a chart series.
type JobSummary struct {
	Total       int64
	Successful  int64
	Failed      int64
	SuccessRate float64 // percent, 0 when there were no jobs
	Days        int     // points in the series
	PeakTotal   int64   // busiest day
}

// safeDivide returns a/b, or 0 when b is zero.
func safeDivide(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// Summarize aggregates job counts across points.
// Negative counts from the backend are treated as zero.
func Summarize(points []model.DataPoint) JobSummary {
	var s JobSummary
	for _, p := range points {
		total := max(p.Total, 0)
		s.Total += total
		s.Successful += max(p.Successful, 0)
		s.Failed += max(p.Failed, 0)
		if total > s.PeakTotal {
			s.PeakTotal = total
		}
	}
	s.Days = len(points)
	s.SuccessRate = safeDivide(float64(s.Successful), float64(s.Successful+s.Failed)) * 100
	return s
}

// SeriesValues extracts one field of a series for charting.
// Valid fields: "total", "successful", "failed".
func SeriesValues(points []model.DataPoint, field string) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		switch field {
		case "total":
			out[i] = float64(p.Total)
		case "successful":
			out[i] = float64(p.Successful)
		case "failed":
			out[i] = float64(p.Failed)
		}
	}
	return out
}
