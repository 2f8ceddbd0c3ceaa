package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/gmapscan/internal/cache"
	"github.com/MrSnakeDoc/gmapscan/internal/logger"
)

// CacheSweeper periodically drops expired entries from the memory cache so
// keys that are never looked up again do not pin memory. Lazy expiry at
// lookup time remains authoritative; the sweep is housekeeping only.
type CacheSweeper struct {
	cache    *cache.Memory
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewCacheSweeper creates a new cache sweeper.
func NewCacheSweeper(c *cache.Memory, log logger.Logger, interval time.Duration) *CacheSweeper {
	return &CacheSweeper{
		cache:    c,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep process.
func (cs *CacheSweeper) Start(ctx context.Context) error {
	ticker := time.NewTicker(cs.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cs.sweep()
			case <-cs.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the sweeper.
func (cs *CacheSweeper) Stop() {
	close(cs.stopCh)
}

func (cs *CacheSweeper) sweep() {
	dropped := cs.cache.Sweep()
	if dropped > 0 {
		cs.logger.Info("swept expired cache entries",
			logger.Int("dropped", dropped),
			logger.Int("remaining", cs.cache.Len()))
	} else {
		cs.logger.Debug("no expired cache entries to sweep")
	}
}
