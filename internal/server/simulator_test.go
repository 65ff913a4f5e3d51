package server

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/aadash/internal/store"
)

func newTestGenerator() *store.Generator {
	return store.NewGenerator(7, store.SeedClusters(2), store.DefaultTemplates())
}

func TestSimulator_Step(t *testing.T) {
	st := store.NewMemoryStore(store.SeedClusters(2), store.DefaultTemplates())
	var notified atomic.Int32
	sim := &Simulator{
		Store:     st,
		Generator: newTestGenerator(),
		OnRecord:  func() { notified.Add(1) },
		now:       func() time.Time { return at("2024-03-10", 9) },
	}

	j, err := sim.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, at("2024-03-10", 9), j.Finished)
	assert.Equal(t, int32(1), notified.Load())

	points, err := st.JobsByDay(context.Background(), store.Filter{Start: at("2024-03-10", 0), End: at("2024-03-10", 0)})
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, int64(1), points[0].Total)
}

func TestSimulator_StepRecordError(t *testing.T) {
	var notified atomic.Int32
	sim := &Simulator{
		Store:     &mockStore{RecordFn: func(context.Context, store.Job) error { return errors.New("disk full") }},
		Generator: newTestGenerator(),
		OnRecord:  func() { notified.Add(1) },
	}

	_, err := sim.Step(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Zero(t, notified.Load())
}

func TestSimulator_RunRejectsNonPositiveInterval(t *testing.T) {
	sim := &Simulator{Store: &mockStore{}, Generator: newTestGenerator()}
	assert.Error(t, sim.Run(context.Background()))
}

func TestSimulator_RunRecordsUntilCancelled(t *testing.T) {
	var recorded atomic.Int32
	sim := &Simulator{
		Store: &mockStore{RecordFn: func(context.Context, store.Job) error {
			recorded.Add(1)
			return nil
		}},
		Generator: newTestGenerator(),
		Interval:  5 * time.Millisecond,
	}

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- sim.Run(ctx) }()

	require.Eventually(t, func() bool { return recorded.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
