package jobs

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler triggers named jobs on cron schedules. Each job entry is wrapped
// so a firing is skipped when the previous firing of the same job has not
// finished; different jobs still run concurrently with each other.
type Scheduler struct {
	cron   *cron.Cron
	runner *Runner
	logger *zap.Logger
}

// NewScheduler builds a Scheduler around a ledger runner.
func NewScheduler(runner *Runner, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	cronLog := zapCronLogger{logger: logger.Named("cron")}
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cronLog),
			cron.Recover(cronLog),
		)),
		runner: runner,
		logger: logger,
	}
}

// AddJob schedules fn under the given cron spec. Every firing runs through
// the ledger runner.
func (s *Scheduler) AddJob(spec, name string, fn JobFunc) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := s.runner.Run(context.Background(), name, fn); err != nil {
			s.logger.Warn("scheduled job failed", zap.String("job", name), zap.Error(err))
		}
	})
	return err
}

// Start launches the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// zapCronLogger adapts zap to the cron logging interface.
type zapCronLogger struct {
	logger *zap.Logger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Sugar().Infow(msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Sugar().Errorw(msg, append([]any{"error", err}, keysAndValues...)...)
}
