package session

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweep periodically purges expired session rows until ctx is cancelled.
func (s *Store) Sweep(ctx context.Context, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.PurgeExpired()
			if err != nil {
				logger.Error("session sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("purged expired sessions", zap.Int64("count", n))
			}
		}
	}
}
