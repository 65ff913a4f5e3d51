package model

// Mode selects what the chart panel shows.
type Mode string

const (
	ModeLoading    Mode = "loading"
	ModeError      Mode = "error"
	ModeAggregate  Mode = "aggregate"
	ModePerCluster Mode = "per-cluster"
)

// ListLimit caps the module and template lists.
const ListLimit = 10

// ViewModel is the render-ready state derived from the filter selection and
// the latest accepted data. It is recomputed, never stored between frames.
type ViewModel struct {
	Mode      Mode
	ChartData []DataPoint
	Modules   []Module
	Templates []Template
}
