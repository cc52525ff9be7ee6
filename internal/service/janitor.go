package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RunJanitor calls Sweep every interval until ctx is done.
func RunJanitor(ctx context.Context, svc PresentationService, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		return
	}
	log := logger.Named("RetentionJanitor")
	log.Info("Retention janitor started", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("Retention janitor stopped")
			return
		case <-ticker.C:
			if _, err := svc.Sweep(ctx); err != nil {
				log.Error("Retention sweep failed", zap.Error(err))
			}
		}
	}
}
