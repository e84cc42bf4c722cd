package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/joinboard/backend/internal/metrics"
)

// GuestCleaner deletes expired guest accounts and reports the count.
type GuestCleaner interface {
	CleanupGuests(ctx context.Context, retention time.Duration) (int, error)
}

// ReaperConfig controls when and how far back the reaper sweeps.
type ReaperConfig struct {
	Schedule  string
	Retention time.Duration
}

// GuestReaper runs the guest-account cleanup on a cron schedule. Sweeps only
// touch accounts already past the retention cutoff, so they are safe to run
// alongside live traffic.
type GuestReaper struct {
	cleaner GuestCleaner
	cfg     ReaperConfig
	cron    *cron.Cron
	logger  *zap.Logger
}

func NewGuestReaper(cleaner GuestCleaner, cfg ReaperConfig, logger *zap.Logger) *GuestReaper {
	if cfg.Schedule == "" {
		cfg.Schedule = "0 0 3 * * *"
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 7 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &GuestReaper{
		cleaner: cleaner,
		cfg:     cfg,
		logger:  logger,
		cron:    cron.New(cron.WithSeconds()),
	}

	_, _ = r.cron.AddFunc(cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := r.RunOnce(ctx); err != nil {
			r.logger.Error("guest cleanup failed", zap.Error(err))
		}
	})

	return r
}

// Start launches the cron scheduler.
func (r *GuestReaper) Start() {
	if r == nil || r.cron == nil {
		return
	}
	r.cron.Start()
	r.logger.Info("guest reaper started", zap.String("schedule", r.cfg.Schedule))
}

// Stop gracefully stops the scheduler.
func (r *GuestReaper) Stop(ctx context.Context) {
	if r == nil || r.cron == nil {
		return
	}
	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	r.logger.Info("guest reaper stopped")
}

// RunOnce performs a single sweep.
func (r *GuestReaper) RunOnce(ctx context.Context) error {
	deleted, err := r.cleaner.CleanupGuests(ctx, r.cfg.Retention)
	if err != nil {
		return err
	}
	if deleted > 0 {
		metrics.GuestsReaped.Add(float64(deleted))
	}
	r.logger.Info("guest cleanup completed", zap.Int("deleted", deleted))
	return nil
}
