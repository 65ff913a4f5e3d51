package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dm/aadash/internal/model"
)

// Schema creates the tables PostgresStore reads from.
const Schema = `
CREATE TABLE IF NOT EXISTS clusters (
  id           BIGINT PRIMARY KEY,
  label        TEXT NOT NULL DEFAULT '',
  install_uuid UUID NOT NULL
);
CREATE TABLE IF NOT EXISTS templates (
  id   BIGINT PRIMARY KEY,
  name TEXT NOT NULL,
  type TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS jobs (
  id          UUID PRIMARY KEY,
  cluster_id  BIGINT NOT NULL REFERENCES clusters(id),
  org_id      BIGINT NOT NULL,
  template_id BIGINT NOT NULL REFERENCES templates(id),
  job_type    TEXT NOT NULL,
  status      TEXT NOT NULL,
  finished_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS jobs_finished_at_idx ON jobs (finished_at);
CREATE TABLE IF NOT EXISTS job_modules (
  job_id UUID NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
  module TEXT NOT NULL
);
`

// PostgresStore is a Store backed by PostgreSQL through database/sql.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an open *sql.DB.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the schema if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("postgres store: migrate: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres store: ping: %w", err)
	}
	return nil
}

// conditions accumulates WHERE/ON clauses with numbered placeholders.
type conditions struct {
	clauses []string
	args    []any
}

// add appends expr, whose single %d is replaced by the next placeholder index.
func (c *conditions) add(expr string, arg any) {
	c.args = append(c.args, arg)
	c.clauses = append(c.clauses, fmt.Sprintf(expr, len(c.args)))
}

func (c *conditions) sql() string {
	if len(c.clauses) == 0 {
		return "TRUE"
	}
	return strings.Join(c.clauses, " AND ")
}

// jobConditions filters the jobs table aliased as j. args precede the
// filter's own placeholders.
func jobConditions(f Filter, args ...any) *conditions {
	c := &conditions{args: args}
	c.add("j.finished_at >= $%d", day(f.Start))
	c.add("j.finished_at < $%d", day(f.End).AddDate(0, 0, 1))
	if f.ClusterID != 0 {
		c.add("j.cluster_id = $%d", f.ClusterID)
	}
	if f.OrgID != 0 {
		c.add("j.org_id = $%d", f.OrgID)
	}
	if f.JobType != "" {
		c.add("j.job_type = $%d", f.JobType)
	}
	if f.TemplateID != 0 {
		c.add("j.template_id = $%d", f.TemplateID)
	}
	return c
}

// JobsByDay counts jobs per day, including days without jobs.
func (s *PostgresStore) JobsByDay(ctx context.Context, f Filter) ([]model.DataPoint, error) {
	cond := jobConditions(f, day(f.Start), day(f.End))
	q := `
SELECT d::date,
  COUNT(j.id),
  COUNT(j.id) FILTER (WHERE j.status = 'successful'),
  COUNT(j.id) FILTER (WHERE j.status = 'failed')
FROM generate_series($1::date, $2::date, interval '1 day') AS d
LEFT JOIN jobs j ON j.finished_at::date = d::date AND ` + cond.sql() + `
GROUP BY d
ORDER BY d
`
	rows, err := s.db.QueryContext(ctx, q, cond.args...)
	if err != nil {
		return nil, fmt.Errorf("postgres store: jobs by day: %w", err)
	}
	defer rows.Close()

	var out []model.DataPoint
	for rows.Next() {
		var (
			d time.Time
			p model.DataPoint
		)
		if err := rows.Scan(&d, &p.Total, &p.Successful, &p.Failed); err != nil {
			return nil, fmt.Errorf("postgres store: scan day: %w", err)
		}
		p.Date = d.UTC().Format(model.DateLayout)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres store: rows error: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ClusterJobsByDay(ctx context.Context, clusterID int64, f Filter) ([]model.DataPoint, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM clusters WHERE id = $1`, clusterID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cluster %d: %w", clusterID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres store: lookup cluster: %w", err)
	}
	f.ClusterID = clusterID
	return s.JobsByDay(ctx, f)
}

func (s *PostgresStore) Clusters(ctx context.Context) ([]model.ClusterRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, label, install_uuid::text FROM clusters ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("postgres store: list clusters: %w", err)
	}
	defer rows.Close()

	var out []model.ClusterRecord
	for rows.Next() {
		var r model.ClusterRecord
		if err := rows.Scan(&r.ID, &r.Label, &r.InstallUUID); err != nil {
			return nil, fmt.Errorf("postgres store: scan cluster: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres store: rows error: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) TopModules(ctx context.Context, f Filter, limit int) ([]model.Module, error) {
	cond := jobConditions(f)
	q := `
SELECT m.module, COUNT(*) AS n
FROM job_modules m
JOIN jobs j ON j.id = m.job_id
WHERE ` + cond.sql() + `
GROUP BY m.module
ORDER BY n DESC, m.module`
	if limit > 0 {
		cond.args = append(cond.args, limit)
		q += fmt.Sprintf("\nLIMIT $%d", len(cond.args))
	}

	rows, err := s.db.QueryContext(ctx, q, cond.args...)
	if err != nil {
		return nil, fmt.Errorf("postgres store: top modules: %w", err)
	}
	defer rows.Close()

	var out []model.Module
	for rows.Next() {
		var m model.Module
		if err := rows.Scan(&m.Name, &m.Count); err != nil {
			return nil, fmt.Errorf("postgres store: scan module: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres store: rows error: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) TopTemplates(ctx context.Context, f Filter, limit int) ([]model.Template, error) {
	cond := jobConditions(f)
	q := `
SELECT t.id, t.name, t.type, COUNT(*) AS n
FROM jobs j
JOIN templates t ON t.id = j.template_id
WHERE ` + cond.sql() + `
GROUP BY t.id, t.name, t.type
ORDER BY n DESC, t.name`
	if limit > 0 {
		cond.args = append(cond.args, limit)
		q += fmt.Sprintf("\nLIMIT $%d", len(cond.args))
	}

	rows, err := s.db.QueryContext(ctx, q, cond.args...)
	if err != nil {
		return nil, fmt.Errorf("postgres store: top templates: %w", err)
	}
	defer rows.Close()

	var out []model.Template
	for rows.Next() {
		var t model.Template
		if err := rows.Scan(&t.ID, &t.Name, &t.Type, &t.Count); err != nil {
			return nil, fmt.Errorf("postgres store: scan template: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres store: rows error: %w", err)
	}
	return out, nil
}

// Record inserts a job and its modules in one transaction.
func (s *PostgresStore) Record(ctx context.Context, j Job) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres store: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insertJob = `
INSERT INTO jobs (id, cluster_id, org_id, template_id, job_type, status, finished_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`
	if _, err := tx.ExecContext(ctx, insertJob,
		j.ID.String(), j.ClusterID, j.OrgID, j.TemplateID, j.Type, j.Status, j.Finished.UTC(),
	); err != nil {
		return fmt.Errorf("postgres store: insert job: %w", err)
	}
	for _, m := range j.Modules {
		if _, err := tx.ExecContext(ctx, `INSERT INTO job_modules (job_id, module) VALUES ($1,$2)`, j.ID.String(), m); err != nil {
			return fmt.Errorf("postgres store: insert module: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres store: commit: %w", err)
	}
	return nil
}

// UpsertCatalog writes clusters and templates, replacing existing rows.
func (s *PostgresStore) UpsertCatalog(ctx context.Context, clusters []Cluster, templates []Template) error {
	for _, c := range clusters {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO clusters (id, label, install_uuid) VALUES ($1,$2,$3)
ON CONFLICT (id) DO UPDATE SET label = EXCLUDED.label, install_uuid = EXCLUDED.install_uuid`,
			c.ID, c.Label, c.InstallUUID.String(),
		); err != nil {
			return fmt.Errorf("postgres store: upsert cluster %d: %w", c.ID, err)
		}
	}
	for _, t := range templates {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO templates (id, name, type) VALUES ($1,$2,$3)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, type = EXCLUDED.type`,
			t.ID, t.Name, t.Type,
		); err != nil {
			return fmt.Errorf("postgres store: upsert template %d: %w", t.ID, err)
		}
	}
	return nil
}
