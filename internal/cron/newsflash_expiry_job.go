package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/emekaobi/naijamart-backend/pkg/logger"
)

type newsFlashRepo interface {
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// NewsFlashExpiryJobParams configure the banner expiry job.
type NewsFlashExpiryJobParams struct {
	Logger     *logger.Logger
	Repository newsFlashRepo
}

// NewNewsFlashExpiryJob builds the job that turns off expired storefront
// banners.
func NewNewsFlashExpiryJob(params NewsFlashExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("news flash repository required")
	}
	return &newsFlashExpiryJob{
		logg: params.Logger,
		repo: params.Repository,
		now:  time.Now,
	}, nil
}

type newsFlashExpiryJob struct {
	logg *logger.Logger
	repo newsFlashRepo
	now  func() time.Time
}

func (j *newsFlashExpiryJob) Name() string { return "newsflash-expiry" }

func (j *newsFlashExpiryJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	deactivated, err := j.repo.DeactivateExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("news flash expiry: %w", err)
	}
	logCtx := j.logg.WithField(ctx, "rows_deactivated", deactivated)
	j.logg.Info(logCtx, "news flash expiry complete")
	return nil
}
