package model

import (
	"net/url"
	"time"
)

// Sentinel filter values meaning "no restriction".
const (
	AllClusters  = "all"
	NoOrg        = "none"
	AllJobTypes  = "all"
	AllTemplates = "all"
)

// DateLayout is the wire format for every date query parameter.
const DateLayout = "2006-01-02"

// TimeFrame is a preset date range offered by the date selector.
type TimeFrame struct {
	Days  int
	Label string
}

// TimeFrames lists the preset ranges in selector order.
var TimeFrames = []TimeFrame{
	{Days: 7, Label: "Past Week"},
	{Days: 14, Label: "Past 2 Weeks"},
	{Days: 31, Label: "Past Month"},
	{Days: 62, Label: "Past 62 days"},
}

// FilterSnapshot is one immutable version of the dashboard's filter selection.
// Values are compared with Equal; a new snapshot is produced on every change.
type FilterSnapshot struct {
	StartDate  time.Time
	EndDate    time.Time
	ClusterID  string
	OrgID      string
	JobType    string
	TemplateID string
}

// DefaultSnapshot returns the selection used on mount: the past calendar month
// ending today, all clusters, no organization, all job types and templates.
func DefaultSnapshot(now time.Time) FilterSnapshot {
	today := truncateDay(now)
	return FilterSnapshot{
		StartDate:  today.AddDate(0, -1, 0),
		EndDate:    today,
		ClusterID:  AllClusters,
		OrgID:      NoOrg,
		JobType:    AllJobTypes,
		TemplateID: AllTemplates,
	}
}

// Equal reports whether two snapshots select the same data.
func (f FilterSnapshot) Equal(o FilterSnapshot) bool {
	return f.StartDate.Equal(o.StartDate) &&
		f.EndDate.Equal(o.EndDate) &&
		f.ClusterID == o.ClusterID &&
		f.OrgID == o.OrgID &&
		f.JobType == o.JobType &&
		f.TemplateID == o.TemplateID
}

// AllClustersSelected reports whether the snapshot targets the aggregate view.
func (f FilterSnapshot) AllClustersSelected() bool {
	return f.ClusterID == "" || f.ClusterID == AllClusters
}

// Days returns the inclusive number of days covered by the range.
func (f FilterSnapshot) Days() int {
	return int(f.EndDate.Sub(f.StartDate).Hours()/24) + 1
}

// Query serialises the snapshot into request query parameters. Dates use
// DateLayout; sentinel values are left out so the backend sees them as unset.
func (f FilterSnapshot) Query() url.Values {
	v := url.Values{}
	v.Set("start_date", f.StartDate.Format(DateLayout))
	v.Set("end_date", f.EndDate.Format(DateLayout))
	if !f.AllClustersSelected() {
		v.Set("cluster_id", f.ClusterID)
	}
	if f.OrgID != "" && f.OrgID != NoOrg {
		v.Set("org_id", f.OrgID)
	}
	if f.JobType != "" && f.JobType != AllJobTypes {
		v.Set("job_type", f.JobType)
	}
	if f.TemplateID != "" && f.TemplateID != AllTemplates {
		v.Set("template_id", f.TemplateID)
	}
	return v
}

// QueryParamStore holds the authoritative filter selection. Every setter
// derives a new snapshot from the previous one; snapshots already handed out
// are never modified.
type QueryParamStore struct {
	current FilterSnapshot
	now     func() time.Time
}

// NewQueryParamStore creates a store seeded with DefaultSnapshot. A nil clock
// falls back to time.Now.
func NewQueryParamStore(now func() time.Time) *QueryParamStore {
	if now == nil {
		now = time.Now
	}
	return &QueryParamStore{
		current: DefaultSnapshot(now()),
		now:     now,
	}
}

// Current returns the latest snapshot.
func (s *QueryParamStore) Current() FilterSnapshot {
	return s.current
}

func (s *QueryParamStore) today() time.Time {
	return truncateDay(s.now())
}

func (s *QueryParamStore) publish(next FilterSnapshot) FilterSnapshot {
	if next.StartDate.After(next.EndDate) {
		next.StartDate = next.EndDate
	}
	s.current = next
	return next
}

// SetStartDate sets the range start to today minus offsetDays.
// Negative offsets are treated as zero.
func (s *QueryParamStore) SetStartDate(offsetDays int) FilterSnapshot {
	if offsetDays < 0 {
		offsetDays = 0
	}
	next := s.current
	next.StartDate = s.today().AddDate(0, 0, -offsetDays)
	return s.publish(next)
}

// SetEndDate resets the range end to today.
func (s *QueryParamStore) SetEndDate() FilterSnapshot {
	next := s.current
	next.EndDate = s.today()
	return s.publish(next)
}

// SetTimeFrame applies a preset range ending today.
func (s *QueryParamStore) SetTimeFrame(days int) FilterSnapshot {
	s.SetEndDate()
	return s.SetStartDate(days)
}

// SetDateRange applies a custom range. Reversed bounds are swapped.
func (s *QueryParamStore) SetDateRange(start, end time.Time) FilterSnapshot {
	start, end = truncateDay(start), truncateDay(end)
	if start.After(end) {
		start, end = end, start
	}
	next := s.current
	next.StartDate = start
	next.EndDate = end
	return s.publish(next)
}

// SetClusterID selects a cluster; an empty id selects all clusters.
func (s *QueryParamStore) SetClusterID(id string) FilterSnapshot {
	if id == "" {
		id = AllClusters
	}
	next := s.current
	next.ClusterID = id
	return s.publish(next)
}

// SetOrgID selects an organization; an empty id clears the filter.
func (s *QueryParamStore) SetOrgID(id string) FilterSnapshot {
	if id == "" {
		id = NoOrg
	}
	next := s.current
	next.OrgID = id
	return s.publish(next)
}

// SetJobType selects a job type; an empty value clears the filter.
func (s *QueryParamStore) SetJobType(jobType string) FilterSnapshot {
	if jobType == "" {
		jobType = AllJobTypes
	}
	next := s.current
	next.JobType = jobType
	return s.publish(next)
}

// SetTemplateID selects a template; an empty id clears the filter.
func (s *QueryParamStore) SetTemplateID(id string) FilterSnapshot {
	if id == "" {
		id = AllTemplates
	}
	next := s.current
	next.TemplateID = id
	return s.publish(next)
}

// truncateDay drops the time of day, keeping dates in UTC.
func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
