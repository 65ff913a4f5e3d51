package server

import (
	"context"

	"github.com/dm/aadash/internal/model"
	"github.com/dm/aadash/internal/store"
)

// mockStore is a store.Store whose behaviour is set per method. Unset
// methods return empty results.
type mockStore struct {
	PingFn             func(ctx context.Context) error
	JobsByDayFn        func(ctx context.Context, f store.Filter) ([]model.DataPoint, error)
	ClusterJobsByDayFn func(ctx context.Context, id int64, f store.Filter) ([]model.DataPoint, error)
	ClustersFn         func(ctx context.Context) ([]model.ClusterRecord, error)
	TopModulesFn       func(ctx context.Context, f store.Filter, limit int) ([]model.Module, error)
	TopTemplatesFn     func(ctx context.Context, f store.Filter, limit int) ([]model.Template, error)
	RecordFn           func(ctx context.Context, j store.Job) error
}

func (m *mockStore) Ping(ctx context.Context) error {
	if m.PingFn != nil {
		return m.PingFn(ctx)
	}
	return nil
}

func (m *mockStore) JobsByDay(ctx context.Context, f store.Filter) ([]model.DataPoint, error) {
	if m.JobsByDayFn != nil {
		return m.JobsByDayFn(ctx, f)
	}
	return nil, nil
}

func (m *mockStore) ClusterJobsByDay(ctx context.Context, id int64, f store.Filter) ([]model.DataPoint, error) {
	if m.ClusterJobsByDayFn != nil {
		return m.ClusterJobsByDayFn(ctx, id, f)
	}
	return nil, nil
}

func (m *mockStore) Clusters(ctx context.Context) ([]model.ClusterRecord, error) {
	if m.ClustersFn != nil {
		return m.ClustersFn(ctx)
	}
	return nil, nil
}

func (m *mockStore) TopModules(ctx context.Context, f store.Filter, limit int) ([]model.Module, error) {
	if m.TopModulesFn != nil {
		return m.TopModulesFn(ctx, f, limit)
	}
	return nil, nil
}

func (m *mockStore) TopTemplates(ctx context.Context, f store.Filter, limit int) ([]model.Template, error) {
	if m.TopTemplatesFn != nil {
		return m.TopTemplatesFn(ctx, f, limit)
	}
	return nil, nil
}

func (m *mockStore) Record(ctx context.Context, j store.Job) error {
	if m.RecordFn != nil {
		return m.RecordFn(ctx, j)
	}
	return nil
}
