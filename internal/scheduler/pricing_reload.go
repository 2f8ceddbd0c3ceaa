package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/gmapscan/internal/logger"
	"github.com/MrSnakeDoc/gmapscan/internal/pricing"
	"github.com/MrSnakeDoc/gmapscan/internal/sources/overrides"
)

// PricingReloader handles periodic reloading of the pricing overrides file.
// Reloaded prices take effect on the next finding assembly; cached
// validation records are never re-probed for a price change.
type PricingReloader struct {
	loader        *overrides.Loader
	table         *pricing.Table
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewPricingReloader creates a new pricing reloader.
func NewPricingReloader(
	overridesFile string,
	table *pricing.Table,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *PricingReloader {
	return &PricingReloader{
		loader:        overrides.NewLoader(overridesFile),
		table:         table,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the overrides once, then begins the periodic reload process.
// An initial load failure is not fatal: the built-in defaults stand and the
// next tick retries.
func (pr *PricingReloader) Start(ctx context.Context) error {
	if err := pr.Reload(ctx); err != nil {
		pr.logger.Warn("initial pricing reload failed, using default prices",
			logger.Error(err))
	}

	ticker := time.NewTicker(pr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := pr.Reload(ctx); err != nil {
					pr.logger.Error("failed to reload pricing overrides",
						logger.Error(err))
				}
			case <-pr.manualTrigger:
				pr.logger.Info("manual pricing reload triggered")
				if err := pr.Reload(ctx); err != nil {
					pr.logger.Error("failed to reload pricing overrides",
						logger.Error(err))
				}
			case <-pr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader.
func (pr *PricingReloader) Stop() {
	close(pr.stopCh)
}

// Reload loads the overrides file and applies it to the pricing table.
// Invalid entries (negative prices) are skipped by the table; valid ones
// still apply, so one bad line degrades that service to its default price.
func (pr *PricingReloader) Reload(_ context.Context) error {
	loaded, err := pr.loader.Load()
	if err != nil {
		return err
	}

	if err := pr.table.SetOverrides(loaded); err != nil {
		pr.logger.Warn("some pricing overrides were rejected",
			logger.Error(err))
	}

	pr.logger.Info("pricing overrides reloaded",
		logger.Int("active", pr.table.OverrideCount()))
	return nil
}
