package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dm/aadash/internal/model"
)

// ErrNotFound is returned when a referenced cluster does not exist.
var ErrNotFound = errors.New("not found")

// Job statuses.
const (
	StatusSuccessful = "successful"
	StatusFailed     = "failed"
	StatusCanceled   = "canceled"
)

// Job types as accepted by the job_type query parameter.
const (
	JobTypeJob      = "job"
	JobTypeWorkflow = "workflowjob"
)

// Template types as reported to clients.
const (
	TemplateTypeJob      = "job_template"
	TemplateTypeWorkflow = model.WorkflowTemplateType
)

// Cluster is an automation controller install that reports jobs.
type Cluster struct {
	ID          int64
	Label       string
	InstallUUID uuid.UUID
}

// Template is a job or workflow template.
type Template struct {
	ID   int64
	Name string
	Type string // TemplateTypeJob or TemplateTypeWorkflow
}

// JobType maps a template type to the job type its runs are filed under.
func (t Template) JobType() string {
	if t.Type == TemplateTypeWorkflow {
		return JobTypeWorkflow
	}
	return JobTypeJob
}

// Job is one finished job run.
type Job struct {
	ID         uuid.UUID
	ClusterID  int64
	OrgID      int64
	TemplateID int64
	Type       string // JobTypeJob or JobTypeWorkflow
	Status     string
	Finished   time.Time
	Modules    []string // modules run by the job's tasks
}

// Filter narrows a query. Zero values mean "no restriction"; Start and End
// are inclusive days.
type Filter struct {
	Start      time.Time
	End        time.Time
	ClusterID  int64
	OrgID      int64
	JobType    string
	TemplateID int64
}

// Days returns the filter's days in order, as DateLayout strings.
func (f Filter) Days() []string {
	var out []string
	for d := day(f.Start); !d.After(day(f.End)); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(model.DateLayout))
	}
	return out
}

func (f Filter) matches(j Job) bool {
	d := day(j.Finished)
	switch {
	case d.Before(day(f.Start)) || d.After(day(f.End)):
		return false
	case f.ClusterID != 0 && j.ClusterID != f.ClusterID:
		return false
	case f.OrgID != 0 && j.OrgID != f.OrgID:
		return false
	case f.JobType != "" && j.Type != f.JobType:
		return false
	case f.TemplateID != 0 && j.TemplateID != f.TemplateID:
		return false
	}
	return true
}

// Store is the analytics backend's data source.
type Store interface {
	Ping(ctx context.Context) error
	JobsByDay(ctx context.Context, f Filter) ([]model.DataPoint, error)
	// ClusterJobsByDay is JobsByDay restricted to one cluster. Unknown
	// clusters yield ErrNotFound.
	ClusterJobsByDay(ctx context.Context, clusterID int64, f Filter) ([]model.DataPoint, error)
	Clusters(ctx context.Context) ([]model.ClusterRecord, error)
	TopModules(ctx context.Context, f Filter, limit int) ([]model.Module, error)
	TopTemplates(ctx context.Context, f Filter, limit int) ([]model.Template, error)
	Record(ctx context.Context, j Job) error
}

func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
