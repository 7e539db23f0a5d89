// Package jobs wraps background job execution with a durable run ledger and
// provides the cron scheduler the worker binary runs on.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/trend"
)

// JobFunc is a job body. The returned string becomes the ledger detail on
// success.
type JobFunc func(ctx context.Context) (string, error)

// Runner executes job bodies and records exactly one JobRun row per
// execution attempt, whatever the body does.
type Runner struct {
	store  trend.JobRunStore
	clock  trend.Clock
	logger *zap.Logger
}

// NewRunner builds a Runner.
func NewRunner(store trend.JobRunStore, clock trend.Clock, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{store: store, clock: clock, logger: logger}
}

func (r *Runner) now() time.Time {
	if r.clock != nil {
		return r.clock.Now()
	}
	return time.Now()
}

// Run executes fn under the ledger. A panic or error inside fn is captured
// into the ledger detail as "<type>: <message>" with status failed; the
// ledger write itself uses a context detached from the job's cancellation
// so a canceled job still gets its audit row.
func (r *Runner) Run(ctx context.Context, name string, fn JobFunc) (err error) {
	run := trend.JobRun{
		ID:        uuid.NewString(),
		JobName:   name,
		StartedAt: r.now(),
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
			r.logger.Error("job panicked", zap.String("job", name), zap.Any("panic", rec))
		}
		run.FinishedAt = r.now()
		if err != nil {
			run.Status = trend.JobStatusFailed
			run.Detail = fmt.Sprintf("%T: %v", err, err)
		} else {
			run.Status = trend.JobStatusSuccess
		}

		if insertErr := r.store.InsertJobRun(context.WithoutCancel(ctx), run); insertErr != nil {
			r.logger.Error("job ledger write failed",
				zap.String("job", name), zap.Error(insertErr))
		}
		r.logger.Info("job finished",
			zap.String("job", name),
			zap.String("status", run.Status),
			zap.Duration("elapsed", run.FinishedAt.Sub(run.StartedAt)),
		)
	}()

	detail, err := fn(ctx)
	if err == nil {
		run.Detail = detail
	}
	return err
}
