package store

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

var clusterNames = []string{"prod-east", "prod-west", "staging", "dev", "edge", "lab"}

var moduleCatalog = []string{
	"shell", "command", "copy", "template", "service", "file",
	"lineinfile", "yum", "apt", "git", "uri", "debug",
}

// DefaultTemplates is the template catalog used by seeded stores.
func DefaultTemplates() []Template {
	return []Template{
		{ID: 1, Name: "Deploy web tier", Type: TemplateTypeJob},
		{ID: 2, Name: "Patch RHEL hosts", Type: TemplateTypeJob},
		{ID: 3, Name: "Rotate certificates", Type: TemplateTypeJob},
		{ID: 4, Name: "Backup databases", Type: TemplateTypeJob},
		{ID: 5, Name: "Compliance scan", Type: TemplateTypeJob},
		{ID: 6, Name: "Provision VM", Type: TemplateTypeJob},
		{ID: 7, Name: "Release train", Type: TemplateTypeWorkflow},
		{ID: 8, Name: "Blue/green rollout", Type: TemplateTypeWorkflow},
		{ID: 9, Name: "Disaster recovery drill", Type: TemplateTypeWorkflow},
	}
}

// SeedClusters returns n clusters with stable install UUIDs derived from
// their labels.
func SeedClusters(n int) []Cluster {
	out := make([]Cluster, n)
	for i := range out {
		label := fmt.Sprintf("cluster-%d", i+1)
		if i < len(clusterNames) {
			label = clusterNames[i]
		}
		out[i] = Cluster{
			ID:          int64(i + 1),
			Label:       label,
			InstallUUID: uuid.NewSHA1(uuid.NameSpaceOID, []byte(label)),
		}
	}
	return out
}

// Generator produces plausible job runs for a fixed catalog. It is not safe
// for concurrent use.
type Generator struct {
	rng       *rand.Rand
	clusters  []Cluster
	templates []Template
}

// NewGenerator returns a Generator drawing from a PCG source seeded with seed.
func NewGenerator(seed uint64, clusters []Cluster, templates []Template) *Generator {
	return &Generator{
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		clusters:  clusters,
		templates: templates,
	}
}

// Job returns a random job that finished at finished.
func (g *Generator) Job(finished time.Time) Job {
	c := g.clusters[g.rng.IntN(len(g.clusters))]
	t := g.templates[g.biased(len(g.templates))]

	// Later clusters in the list are flakier.
	status := StatusSuccessful
	switch r := g.rng.Float64(); {
	case r < 0.02:
		status = StatusCanceled
	case r < 0.02+min(0.05*float64(c.ID), 0.4):
		status = StatusFailed
	}

	modules := make([]string, 1+g.rng.IntN(4))
	for i := range modules {
		modules[i] = moduleCatalog[g.biased(len(moduleCatalog))]
	}

	return Job{
		ID:         uuid.New(),
		ClusterID:  c.ID,
		OrgID:      int64(1 + g.rng.IntN(3)),
		TemplateID: t.ID,
		Type:       t.JobType(),
		Status:     status,
		Finished:   finished.UTC(),
		Modules:    modules,
	}
}

// biased picks an index in [0, n) favouring low indices.
func (g *Generator) biased(n int) int {
	return min(g.rng.IntN(n), g.rng.IntN(n))
}

// SeedOptions sizes a seeded store.
type SeedOptions struct {
	Clusters int
	Days     int       // days of history ending at Now
	Now      time.Time // zero uses time.Now
	Seed     uint64
}

// Seed returns a MemoryStore filled with SeedOptions.Days of generated job
// history. Equal options give equal job counts and outcomes.
func Seed(opts SeedOptions) *MemoryStore {
	if opts.Clusters <= 0 {
		opts.Clusters = 1
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	clusters := SeedClusters(opts.Clusters)
	templates := DefaultTemplates()
	s := NewMemoryStore(clusters, templates)
	g := NewGenerator(opts.Seed, clusters, templates)

	today := day(opts.Now)
	for back := opts.Days - 1; back >= 0; back-- {
		date := today.AddDate(0, 0, -back)
		n := 5 + g.rng.IntN(20)
		for range n {
			finished := date.Add(time.Duration(g.rng.IntN(86400)) * time.Second)
			s.jobs = append(s.jobs, g.Job(finished))
		}
	}
	return s
}
