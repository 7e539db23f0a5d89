package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/trend"
)

func TestInsertJobRun(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewJobRunStore(mock)
	require.NoError(t, err)

	started := time.Date(2026, 8, 28, 6, 0, 0, 0, time.UTC)
	run := trend.JobRun{
		ID:         "run-1",
		JobName:    "keyword_crawl",
		Status:     trend.JobStatusFailed,
		Detail:     "RuntimeError: boom",
		StartedAt:  started,
		FinishedAt: started.Add(3 * time.Second),
	}

	mock.ExpectExec("INSERT INTO job_runs").
		WithArgs(run.ID, run.JobName, run.Status, run.Detail, run.StartedAt, run.FinishedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.InsertJobRun(context.Background(), run))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertJobRunGeneratesID(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewJobRunStore(mock)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO job_runs").
		WithArgs(pgxmock.AnyArg(), "prune", trend.JobStatusSuccess, "", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.InsertJobRun(context.Background(), trend.JobRun{
		JobName: "prune",
		Status:  trend.JobStatusSuccess,
	}))
	require.NoError(t, mock.ExpectationsWereMet())
}
