package model

// DataPoint is one day of job outcomes.
type DataPoint struct {
	Date       string `json:"date"`
	Total      int64  `json:"total"`
	Successful int64  `json:"successful"`
	Failed     int64  `json:"failed"`
}

// Module is a module usage count.
type Module struct {
	Name  string `json:"module"`
	Count int64  `json:"count"`
}

// Template is a job template usage count.
type Template struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// WorkflowTemplateType marks workflow job templates in Template.Type.
const WorkflowTemplateType = "workflow_job_template"

// ClusterRecord is a cluster as reported by the backend.
type ClusterRecord struct {
	ID          int64  `json:"cluster_id"`
	Label       string `json:"label"`
	InstallUUID string `json:"install_uuid"`
}

// ClusterOption is one entry of the cluster selector.
type ClusterOption struct {
	ID       string
	Label    string
	Disabled bool
}

// ConsolidatedData is the merged outcome of one fetch round. Generation and
// Snapshot identify the round that produced it.
type ConsolidatedData struct {
	Generation     uint64
	Snapshot       FilterSnapshot
	BarSeries      []DataPoint
	LineSeries     []DataPoint
	Modules        []Module
	Templates      []Template
	ClusterOptions []ClusterOption
}
