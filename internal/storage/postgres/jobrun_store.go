package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/trend"
)

// JobRunStore persists job run ledger rows. Each insert is a standalone
// statement on the pool, so it commits independently of whatever the wrapped
// job did to its own transaction.
type JobRunStore struct {
	db dbConn
}

// NewJobRunStore constructs a JobRunStore over an existing pool.
func NewJobRunStore(db dbConn) (*JobRunStore, error) {
	if db == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &JobRunStore{db: db}, nil
}

// Close releases the underlying pool resources.
func (s *JobRunStore) Close() {
	if s == nil || s.db == nil {
		return
	}
	s.db.Close()
}

// InsertJobRun writes one ledger row. A missing ID is generated here so
// callers only describe the run.
func (s *JobRunStore) InsertJobRun(ctx context.Context, run trend.JobRun) error {
	id := run.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := s.db.Exec(ctx, `
INSERT INTO job_runs (
	id,
	job_name,
	status,
	detail,
	started_at,
	finished_at
) VALUES ($1,$2,$3,$4,$5,$6)`,
		id, run.JobName, run.Status, run.Detail, run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("insert job run: %w", err)
	}
	return nil
}
