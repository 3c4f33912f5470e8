package cron

import (
	"context"
	"fmt"

	"github.com/jdelarosa/tallerflow-backend/internal/alerts"
	"github.com/jdelarosa/tallerflow-backend/pkg/logger"
)

// AlertScanJobParams configure the alert sweep job.
type AlertScanJobParams struct {
	Logger  *logger.Logger
	Scanner alertScanner
}

type alertScanner interface {
	Scan(ctx context.Context) (alerts.Summary, error)
}

// NewAlertScanJob wraps the alert scanner as a cron job.
func NewAlertScanJob(params AlertScanJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Scanner == nil {
		return nil, fmt.Errorf("alert scanner required")
	}
	return &alertScanJob{
		logg:    params.Logger,
		scanner: params.Scanner,
	}, nil
}

type alertScanJob struct {
	logg    *logger.Logger
	scanner alertScanner
}

func (j *alertScanJob) Name() string { return "alert-scan" }

func (j *alertScanJob) Run(ctx context.Context) error {
	summary, err := j.scanner.Scan(ctx)
	if err != nil {
		return fmt.Errorf("alert scan: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"red_alerts":            summary.RedAlerts,
		"yellow_alerts":         summary.YellowAlerts,
		"notifications_created": summary.NotificationsCreated,
		"errors":                summary.Errors,
	})
	j.logg.Info(logCtx, "alert scan complete")
	return nil
}
