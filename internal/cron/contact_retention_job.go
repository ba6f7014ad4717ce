package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/emekaobi/naijamart-backend/pkg/logger"
)

// The hard cap is deliberately generous; it only exists so unresolved spam
// does not accumulate forever.
const hardCapMultiplier = 4

type contactRetentionRepo interface {
	PurgeResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	PurgeAllBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ContactRetentionJobParams configure the contact message retention job.
type ContactRetentionJobParams struct {
	Logger     *logger.Logger
	Repository contactRetentionRepo
	Retention  time.Duration
}

// NewContactRetentionJob builds the job that purges old contact messages:
// resolved messages past the retention window, plus anything past the hard
// cap regardless of status.
func NewContactRetentionJob(params ContactRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("contact repository required")
	}
	if params.Retention <= 0 {
		return nil, fmt.Errorf("retention must be positive")
	}
	return &contactRetentionJob{
		logg:      params.Logger,
		repo:      params.Repository,
		retention: params.Retention,
		now:       time.Now,
	}, nil
}

type contactRetentionJob struct {
	logg      *logger.Logger
	repo      contactRetentionRepo
	retention time.Duration
	now       func() time.Time
}

func (j *contactRetentionJob) Name() string { return "contact-retention" }

func (j *contactRetentionJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	var errs []error

	resolvedPurged, err := j.repo.PurgeResolvedBefore(ctx, now.Add(-j.retention))
	if err != nil {
		errs = append(errs, fmt.Errorf("purge resolved: %w", err))
	}
	cappedPurged, err := j.repo.PurgeAllBefore(ctx, now.Add(-hardCapMultiplier*j.retention))
	if err != nil {
		errs = append(errs, fmt.Errorf("purge past hard cap: %w", err))
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"resolved_purged": resolvedPurged,
		"capped_purged":   cappedPurged,
	})
	j.logg.Info(logCtx, "contact retention complete")
	return multierr.Combine(errs...)
}
