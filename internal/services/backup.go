package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/repository"
)

// SnapshotSource yields the collection to back up.
type SnapshotSource func(ctx context.Context) ([]domain.Task, error)

// BackupService copies task snapshots to a secondary repository on a cron schedule.
type BackupService struct {
	source  SnapshotSource
	target  repository.TaskRepository
	logger  *zap.Logger
	cron    *cron.Cron
	timeout time.Duration
}

// NewBackupService validates schedule (standard cron syntax or descriptors such
// as "@every 1h" and "@daily") and registers the job.
func NewBackupService(
	source SnapshotSource,
	target repository.TaskRepository,
	schedule string,
	logger *zap.Logger,
) (*BackupService, error) {
	if source == nil || target == nil {
		return nil, fmt.Errorf("backup service needs a source and a target")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bs := &BackupService{
		source:  source,
		target:  target,
		logger:  logger,
		cron:    cron.New(),
		timeout: 30 * time.Second,
	}

	if _, err := bs.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), bs.timeout)
		defer cancel()
		if err := bs.RunOnce(ctx); err != nil {
			bs.logger.Error("task backup failed", zap.Error(err))
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", schedule, err)
	}

	return bs, nil
}

// Start launches the cron scheduler.
func (bs *BackupService) Start() {
	if bs == nil || bs.cron == nil {
		return
	}
	bs.cron.Start()
	bs.logger.Info("backup scheduler started")
}

// Stop waits for a running backup to finish or ctx to expire.
func (bs *BackupService) Stop(ctx context.Context) {
	if bs == nil || bs.cron == nil {
		return
	}
	stopCtx := bs.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	bs.logger.Info("backup scheduler stopped")
}

// RunOnce copies the current snapshot synchronously.
func (bs *BackupService) RunOnce(ctx context.Context) error {
	tasks, err := bs.source(ctx)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	if err := bs.target.Save(ctx, tasks); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	bs.logger.Info("task backup written", zap.Int("tasks", len(tasks)))
	return nil
}
