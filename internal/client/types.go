package client

import (
	"time"

	"github.com/dm/aadash/internal/model"
)

// PreflightResponse represents the response from /preflight/.
type PreflightResponse struct {
	Status string `json:"status"`
}

// ChartResponse represents the response from the chart30 endpoints.
type ChartResponse struct {
	Data []model.DataPoint `json:"data"`
}

// ClustersResponse represents the response from /clusters/. The API reports
// clusters under the "templates" key.
type ClustersResponse struct {
	Templates []model.ClusterRecord `json:"templates"`
}

// ModulesResponse represents the response from /modules/.
type ModulesResponse struct {
	Modules []model.Module `json:"modules"`
}

// TemplatesResponse represents the response from /templates/.
type TemplatesResponse struct {
	Templates []model.Template `json:"templates"`
}

// EventTypeDataUpdated is pushed when new job data lands in the backend.
const EventTypeDataUpdated = "data-updated"

// Event is one message on the /events/ websocket.
type Event struct {
	Type string    `json:"type"`
	At   time.Time `json:"at"`
}
