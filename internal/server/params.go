package server

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dm/aadash/internal/model"
	"github.com/dm/aadash/internal/store"
)

// defaultRangeDays is how far back start_date reaches when it is omitted.
const defaultRangeDays = 30

// maxLimit caps the limit query parameter of list endpoints.
const maxLimit = 1000

// timeNow is replaced in tests.
var timeNow = time.Now

// QueryParams are the filter parameters shared by every data endpoint.
type QueryParams struct {
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	ClusterID  string `form:"cluster_id"`
	OrgID      string `form:"org_id"`
	JobType    string `form:"job_type"`
	TemplateID string `form:"template_id"`
	Limit      int    `form:"limit,default=0"` // 0 returns every row
}

// Filter validates the parameters and converts them into a store filter.
// Sentinel values ("all", "none") and empty values mean no restriction.
func (p QueryParams) Filter() (store.Filter, error) {
	var f store.Filter

	now := timeNow().UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if p.EndDate != "" {
		d, err := time.Parse(model.DateLayout, p.EndDate)
		if err != nil {
			return f, fmt.Errorf("invalid end_date %q: expected YYYY-MM-DD", p.EndDate)
		}
		end = d
	}
	start := end.AddDate(0, 0, -defaultRangeDays)
	if p.StartDate != "" {
		d, err := time.Parse(model.DateLayout, p.StartDate)
		if err != nil {
			return f, fmt.Errorf("invalid start_date %q: expected YYYY-MM-DD", p.StartDate)
		}
		start = d
	}
	if start.After(end) {
		return f, fmt.Errorf("start_date %s is after end_date %s", start.Format(model.DateLayout), end.Format(model.DateLayout))
	}
	f.Start, f.End = start, end

	var err error
	if f.ClusterID, err = parseID("cluster_id", p.ClusterID, model.AllClusters); err != nil {
		return f, err
	}
	if f.OrgID, err = parseID("org_id", p.OrgID, model.NoOrg); err != nil {
		return f, err
	}
	if f.TemplateID, err = parseID("template_id", p.TemplateID, model.AllTemplates); err != nil {
		return f, err
	}

	switch p.JobType {
	case "", model.AllJobTypes:
	case store.JobTypeJob, store.JobTypeWorkflow:
		f.JobType = p.JobType
	default:
		return f, fmt.Errorf("invalid job_type %q: expected %q or %q", p.JobType, store.JobTypeJob, store.JobTypeWorkflow)
	}

	if p.Limit < 0 || p.Limit > maxLimit {
		return f, fmt.Errorf("limit must be between 0 and %d", maxLimit)
	}
	return f, nil
}

// parseID reads a positive numeric id. Empty input and the sentinel yield 0.
func parseID(name, raw, sentinel string) (int64, error) {
	if raw == "" || raw == sentinel {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}
