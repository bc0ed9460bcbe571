package db

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SessionPurger deletes sessions that expired before now.
type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// StartSessionCleaner purges expired login sessions every interval until ctx
// is done. A non-positive interval disables the cleaner.
func StartSessionCleaner(
	ctx context.Context,
	purger SessionPurger,
	interval time.Duration,
	log *zap.Logger,
) {
	if interval <= 0 {
		log.Info("session cleaner disabled")
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				removed, err := purger.PurgeExpiredSessions(ctx, now)
				if err != nil {
					log.Error("failed to purge expired sessions", zap.Error(err))
					continue
				}
				if removed > 0 {
					log.Info("purged expired sessions", zap.Int64("removed", removed))
				}
			}
		}
	}()
}
