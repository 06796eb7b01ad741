package reserve

import (
	"context"
	"time"

	"go.uber.org/zap"

	"marketGraph/internal/market"
)

// WatchConfig holds runtime settings for the refresh loop.
type WatchConfig struct {
	Interval     time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

// Watcher re-syncs a fixed market set on an interval. A failed sync is
// logged and retried on the next tick; stale reserves are safe because
// SetReserves treats unchanged values as a no-op.
type Watcher struct {
	cfg    WatchConfig
	query  Query
	logger *zap.Logger
}

func NewWatcher(cfg WatchConfig, query Query, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{cfg: cfg, query: query, logger: logger}
}

// Run blocks until ctx is done, refreshing reserves every interval.
func (w *Watcher) Run(ctx context.Context, markets []market.Market) error {
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		err := withRetry(ctx, w.cfg.MaxRetries, w.cfg.RetryBackoff, func(ctx context.Context) error {
			return Sync(ctx, w.query, markets)
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.logger.Warn("reserve sync failed", zap.Int("markets", len(markets)), zap.Error(err))
			continue
		}
		w.logger.Debug("reserves refreshed", zap.Int("markets", len(markets)))
	}
}
