package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dm/aadash/internal/store"
)

// Simulator records a generated job every Interval so a demo backend keeps
// producing fresh data.
type Simulator struct {
	Store     store.Store
	Generator *store.Generator
	Interval  time.Duration
	Log       *slog.Logger

	// OnRecord runs after each recorded job. Stores without their own change
	// notification use it to reach the hub.
	OnRecord func()

	now func() time.Time
}

// Step records one job finishing now.
func (s *Simulator) Step(ctx context.Context) (store.Job, error) {
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	j := s.Generator.Job(now())
	if err := s.Store.Record(ctx, j); err != nil {
		return j, fmt.Errorf("simulator: %w", err)
	}
	if s.OnRecord != nil {
		s.OnRecord()
	}
	return j, nil
}

// Run calls Step every Interval until ctx is done. Record failures are
// logged and do not stop the loop.
func (s *Simulator) Run(ctx context.Context) error {
	if s.Interval <= 0 {
		return fmt.Errorf("simulator: interval must be positive, got %v", s.Interval)
	}
	logger := s.Log
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			j, err := s.Step(ctx)
			if err != nil {
				logger.Warn("simulated job not recorded", "err", err)
				continue
			}
			logger.Debug("simulated job", "cluster", j.ClusterID, "template", j.TemplateID, "status", j.Status)
		}
	}
}
