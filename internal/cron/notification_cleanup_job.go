package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/jdelarosa/tallerflow-backend/pkg/logger"
)

const notificationRetentionDays = 30

// NotificationCleanupJobParams configure the retention job.
type NotificationCleanupJobParams struct {
	Logger     *logger.Logger
	Repository notificationRetentionRepo
	Retention  int
}

type notificationRetentionRepo interface {
	DeleteOlderThanRead(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewNotificationCleanupJob prunes read notifications past the
// retention window. Unread notifications are kept regardless of age.
func NewNotificationCleanupJob(params NotificationCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = notificationRetentionDays
	}
	return &notificationCleanupJob{
		logg:      params.Logger,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type notificationCleanupJob struct {
	logg      *logger.Logger
	repo      notificationRetentionRepo
	retention int
	now       func() time.Time
}

func (j *notificationCleanupJob) Name() string { return "notification-cleanup" }

func (j *notificationCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.retention) * 24 * time.Hour)
	deleted, err := j.repo.DeleteOlderThanRead(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("notification cleanup: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retention,
		"rows_deleted":   deleted,
	})
	j.logg.Info(logCtx, "notification cleanup complete")
	return nil
}
