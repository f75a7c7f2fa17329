package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Purger deletes delivery log entries older than the given number of days.
type Purger interface {
	Purge(ctx context.Context, retentionDays int) (int64, error)
}

// StartRetentionWorker purges once immediately, then every interval, until ctx is done.
// It returns a channel that is closed when the worker exits.
func StartRetentionWorker(ctx context.Context, purger Purger, retentionDays int, interval time.Duration, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if purger == nil || retentionDays <= 0 || interval <= 0 {
		close(done)
		return done
	}

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			purge(ctx, purger, retentionDays, logger)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return done
}

func purge(ctx context.Context, purger Purger, retentionDays int, logger *zap.Logger) {
	n, err := purger.Purge(ctx, retentionDays)
	if err != nil {
		logger.Warn("delivery log purge failed", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Info("delivery log purged", zap.Int64("rows", n), zap.Int("retention_days", retentionDays))
	}
}
