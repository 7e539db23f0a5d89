package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/trend"
)

type memJobRunStore struct {
	runs []trend.JobRun
	err  error
}

func (m *memJobRunStore) InsertJobRun(_ context.Context, run trend.JobRun) error {
	if m.err != nil {
		return m.err
	}
	m.runs = append(m.runs, run)
	return nil
}

type tickClock struct {
	t time.Time
}

func (c *tickClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestRunner(store *memJobRunStore) *Runner {
	clock := &tickClock{t: time.Date(2026, 8, 28, 5, 0, 0, 0, time.UTC)}
	return NewRunner(store, clock, zap.NewNop())
}

func TestRunRecordsSuccess(t *testing.T) {
	t.Parallel()

	store := &memJobRunStore{}
	runner := newTestRunner(store)

	err := runner.Run(context.Background(), "keyword_crawl", func(context.Context) (string, error) {
		return "10 channels crawled", nil
	})
	require.NoError(t, err)
	require.Len(t, store.runs, 1)

	run := store.runs[0]
	require.Equal(t, "keyword_crawl", run.JobName)
	require.Equal(t, trend.JobStatusSuccess, run.Status)
	require.Equal(t, "10 channels crawled", run.Detail)
	require.NotEmpty(t, run.ID)
	require.True(t, run.FinishedAt.After(run.StartedAt))
}

func TestRunRecordsFailureWithErrorType(t *testing.T) {
	t.Parallel()

	store := &memJobRunStore{}
	runner := newTestRunner(store)

	err := runner.Run(context.Background(), "prune", func(context.Context) (string, error) {
		return "", errors.New("disk full")
	})
	require.Error(t, err)
	require.Len(t, store.runs, 1)

	run := store.runs[0]
	require.Equal(t, trend.JobStatusFailed, run.Status)
	require.Contains(t, run.Detail, "errorString")
	require.Contains(t, run.Detail, "disk full")
}

func TestRunRecordsPanic(t *testing.T) {
	t.Parallel()

	store := &memJobRunStore{}
	runner := newTestRunner(store)

	err := runner.Run(context.Background(), "crash", func(context.Context) (string, error) {
		panic("nil map write")
	})
	require.Error(t, err)
	require.Len(t, store.runs, 1)
	require.Equal(t, trend.JobStatusFailed, store.runs[0].Status)
	require.Contains(t, store.runs[0].Detail, "nil map write")
}

func TestRunSurvivesLedgerWriteFailure(t *testing.T) {
	t.Parallel()

	store := &memJobRunStore{err: errors.New("ledger down")}
	runner := newTestRunner(store)

	err := runner.Run(context.Background(), "job", func(context.Context) (string, error) {
		return "done", nil
	})
	// The job outcome stands even when the audit write fails.
	require.NoError(t, err)
}

func TestRunWritesLedgerAfterCancellation(t *testing.T) {
	t.Parallel()

	store := &memJobRunStore{}
	runner := newTestRunner(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runner.Run(ctx, "canceled", func(ctx context.Context) (string, error) {
		return "", ctx.Err()
	})
	require.Error(t, err)
	require.Len(t, store.runs, 1)
	require.Equal(t, trend.JobStatusFailed, store.runs[0].Status)
}
