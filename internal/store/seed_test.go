package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedClusters(t *testing.T) {
	clusters := SeedClusters(8)
	require.Len(t, clusters, 8)
	assert.Equal(t, "prod-east", clusters[0].Label)
	assert.Equal(t, "cluster-8", clusters[7].Label)
	assert.Equal(t, SeedClusters(1)[0].InstallUUID, clusters[0].InstallUUID, "install UUIDs are stable")
	assert.NotEqual(t, clusters[0].InstallUUID, clusters[1].InstallUUID)
}

func TestSeed_IsDeterministic(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)
	opts := SeedOptions{Clusters: 3, Days: 31, Now: now, Seed: 7}
	f := Filter{Start: now.AddDate(0, 0, -30), End: now}

	a, err := Seed(opts).JobsByDay(context.Background(), f)
	require.NoError(t, err)
	b, err := Seed(opts).JobsByDay(context.Background(), f)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	require.Len(t, a, 31)
	for _, p := range a {
		assert.GreaterOrEqual(t, p.Total, int64(5), "every seeded day has jobs: %s", p.Date)
		assert.LessOrEqual(t, p.Successful+p.Failed, p.Total)
	}
}

func TestSeed_NoHistoryBeyondDays(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	s := Seed(SeedOptions{Clusters: 2, Days: 7, Now: now, Seed: 1})

	points, err := s.JobsByDay(context.Background(), Filter{Start: now.AddDate(0, 0, -10), End: now})
	require.NoError(t, err)
	require.Len(t, points, 11)
	for _, p := range points[:4] {
		assert.Equal(t, int64(0), p.Total, p.Date)
	}
	for _, p := range points[4:] {
		assert.Positive(t, p.Total, p.Date)
	}
}

func TestGenerator_Job(t *testing.T) {
	clusters := SeedClusters(3)
	g := NewGenerator(42, clusters, DefaultTemplates())
	finished := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	for range 50 {
		j := g.Job(finished)
		assert.True(t, j.Finished.Equal(finished))
		assert.GreaterOrEqual(t, j.ClusterID, int64(1))
		assert.LessOrEqual(t, j.ClusterID, int64(3))
		assert.NotEmpty(t, j.Modules)
		assert.Contains(t, []string{StatusSuccessful, StatusFailed, StatusCanceled}, j.Status)
		if j.TemplateID >= 7 {
			assert.Equal(t, JobTypeWorkflow, j.Type)
		} else {
			assert.Equal(t, JobTypeJob, j.Type)
		}
	}
}
