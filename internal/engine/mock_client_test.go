package engine

import (
	"context"
	"errors"

	"github.com/dm/aadash/internal/model"
)

// MockAnalyticsClient implements client.AnalyticsClient for testing.
type MockAnalyticsClient struct {
	PreflightFn  func(ctx context.Context) error
	AggregateFn  func(ctx context.Context, snap model.FilterSnapshot) ([]model.DataPoint, error)
	PerClusterFn func(ctx context.Context, snap model.FilterSnapshot) ([]model.DataPoint, error)
	ClustersFn   func(ctx context.Context) ([]model.ClusterRecord, error)
	ModulesFn    func(ctx context.Context, snap model.FilterSnapshot) ([]model.Module, error)
	TemplatesFn  func(ctx context.Context, snap model.FilterSnapshot) ([]model.Template, error)
}

func (m *MockAnalyticsClient) Preflight(ctx context.Context) error {
	if m.PreflightFn != nil {
		return m.PreflightFn(ctx)
	}
	return nil
}

func (m *MockAnalyticsClient) ReadAggregateMetrics(ctx context.Context, snap model.FilterSnapshot) ([]model.DataPoint, error) {
	if m.AggregateFn != nil {
		return m.AggregateFn(ctx, snap)
	}
	return []model.DataPoint{{Date: "2024-03-01", Total: 10, Successful: 8, Failed: 2}}, nil
}

func (m *MockAnalyticsClient) ReadPerClusterMetrics(ctx context.Context, snap model.FilterSnapshot) ([]model.DataPoint, error) {
	if m.PerClusterFn != nil {
		return m.PerClusterFn(ctx, snap)
	}
	return []model.DataPoint{{Date: "2024-03-01", Total: 4, Successful: 4}}, nil
}

func (m *MockAnalyticsClient) ReadClusters(ctx context.Context) ([]model.ClusterRecord, error) {
	if m.ClustersFn != nil {
		return m.ClustersFn(ctx)
	}
	return []model.ClusterRecord{{ID: 1, Label: "prod", InstallUUID: "uuid-1"}}, nil
}

func (m *MockAnalyticsClient) ReadModules(ctx context.Context, snap model.FilterSnapshot) ([]model.Module, error) {
	if m.ModulesFn != nil {
		return m.ModulesFn(ctx, snap)
	}
	return []model.Module{{Name: "shell", Count: 3}}, nil
}

func (m *MockAnalyticsClient) ReadTemplates(ctx context.Context, snap model.FilterSnapshot) ([]model.Template, error) {
	if m.TemplatesFn != nil {
		return m.TemplatesFn(ctx, snap)
	}
	return []model.Template{{ID: 7, Name: "deploy", Type: "job_template", Count: 5}}, nil
}

func (m *MockAnalyticsClient) BaseURL() string {
	return "http://mock:8000"
}

var errMockFailure = errors.New("mock failure")
