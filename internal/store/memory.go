package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/dm/aadash/internal/model"
)

// MemoryStore keeps clusters, templates and jobs in memory. It is safe for
// concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	clusters  []Cluster
	templates map[int64]Template
	jobs      []Job

	subMu  sync.Mutex
	subs   map[int]chan struct{}
	nextID int
}

// NewMemoryStore returns a store holding clusters and templates and no jobs.
func NewMemoryStore(clusters []Cluster, templates []Template) *MemoryStore {
	s := &MemoryStore{
		clusters:  slices.Clone(clusters),
		templates: make(map[int64]Template, len(templates)),
		subs:      make(map[int]chan struct{}),
	}
	for _, t := range templates {
		s.templates[t.ID] = t
	}
	return s
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) hasCluster(id int64) bool {
	for _, c := range s.clusters {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Record adds a finished job and notifies subscribers.
func (s *MemoryStore) Record(ctx context.Context, j Job) error {
	s.mu.Lock()
	if !s.hasCluster(j.ClusterID) {
		s.mu.Unlock()
		return fmt.Errorf("record job: cluster %d: %w", j.ClusterID, ErrNotFound)
	}
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	s.jobs = append(s.jobs, j)
	s.mu.Unlock()

	s.notify()
	return nil
}

// Subscribe returns a channel that receives a value after jobs are recorded.
// Notifications coalesce while the subscriber is busy. The returned function
// cancels the subscription.
func (s *MemoryStore) Subscribe() (<-chan struct{}, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch
	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *MemoryStore) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *MemoryStore) JobsByDay(ctx context.Context, f Filter) ([]model.DataPoint, error) {
	days := f.Days()
	index := make(map[string]int, len(days))
	points := make([]model.DataPoint, len(days))
	for i, d := range days {
		index[d] = i
		points[i].Date = d
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, j := range s.jobs {
		if !f.matches(j) {
			continue
		}
		p := &points[index[day(j.Finished).Format(model.DateLayout)]]
		p.Total++
		switch j.Status {
		case StatusSuccessful:
			p.Successful++
		case StatusFailed:
			p.Failed++
		}
	}
	return points, nil
}

func (s *MemoryStore) ClusterJobsByDay(ctx context.Context, clusterID int64, f Filter) ([]model.DataPoint, error) {
	s.mu.RLock()
	ok := s.hasCluster(clusterID)
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("cluster %d: %w", clusterID, ErrNotFound)
	}
	f.ClusterID = clusterID
	return s.JobsByDay(ctx, f)
}

func (s *MemoryStore) Clusters(ctx context.Context) ([]model.ClusterRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ClusterRecord, len(s.clusters))
	for i, c := range s.clusters {
		out[i] = model.ClusterRecord{ID: c.ID, Label: c.Label, InstallUUID: c.InstallUUID.String()}
	}
	return out, nil
}

func (s *MemoryStore) TopModules(ctx context.Context, f Filter, limit int) ([]model.Module, error) {
	counts := make(map[string]int64)
	s.mu.RLock()
	for _, j := range s.jobs {
		if !f.matches(j) {
			continue
		}
		for _, m := range j.Modules {
			counts[m]++
		}
	}
	s.mu.RUnlock()

	out := make([]model.Module, 0, len(counts))
	for name, n := range counts {
		out = append(out, model.Module{Name: name, Count: n})
	}
	slices.SortFunc(out, func(a, b model.Module) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return truncate(out, limit), nil
}

func (s *MemoryStore) TopTemplates(ctx context.Context, f Filter, limit int) ([]model.Template, error) {
	counts := make(map[int64]int64)
	s.mu.RLock()
	for _, j := range s.jobs {
		if f.matches(j) {
			counts[j.TemplateID]++
		}
	}
	out := make([]model.Template, 0, len(counts))
	for id, n := range counts {
		t, ok := s.templates[id]
		if !ok {
			continue
		}
		out = append(out, model.Template{ID: t.ID, Name: t.Name, Type: t.Type, Count: n})
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b model.Template) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return truncate(out, limit), nil
}

// truncate keeps at most limit elements; a non-positive limit keeps all.
func truncate[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}
