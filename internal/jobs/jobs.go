package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/XuanBac3105/do-an-server2-sub000/internal/repository"
)

const cleanupTimeout = time.Minute

// Runner housekeeping jobs over the repositories
type Runner struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewRunner creates a Runner
func NewRunner(repo *repository.Repository, logger *zap.Logger) *Runner {
	return &Runner{repo: repo, logger: logger, now: time.Now}
}

// Cleanup purges expired OTP codes and refresh tokens
func (r *Runner) Cleanup(ctx context.Context) error {
	now := r.now()

	otps, err := r.repo.Otp.DeleteExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("purge expired otp: %w", err)
	}
	tokens, err := r.repo.RefreshToken.DeleteExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("purge expired refresh tokens: %w", err)
	}

	r.logger.Info("cleanup finished",
		zap.Int64("otp_deleted", otps),
		zap.Int64("refresh_tokens_deleted", tokens),
	)
	return nil
}

// Scheduler runs the jobs on cron expressions
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// NewScheduler registers the cleanup job on cleanupSpec
func NewScheduler(cleanupSpec string, runner *Runner, logger *zap.Logger) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(cleanupSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()
		if err := runner.Cleanup(ctx); err != nil {
			logger.Error("cleanup job failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("register cleanup job %q: %w", cleanupSpec, err)
	}

	return &Scheduler{cron: c, logger: logger}, nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("cron scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop waits for running jobs to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("cron scheduler stopped")
}
