package sweeper

import (
	"context"
	"time"

	"github.com/nkiryanov/shop/internal/logger"
)

const defaultInterval = time.Hour

type tokenPurger interface {
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}

// Sweeper periodically removes expired refresh tokens from the ledger
type Sweeper struct {
	interval time.Duration
	purger   tokenPurger
	logger   logger.Logger

	// Overridable in tests
	now func() time.Time
}

func New(interval time.Duration, purger tokenPurger, l logger.Logger) *Sweeper {
	if interval <= 0 {
		interval = defaultInterval
	}

	return &Sweeper{
		interval: interval,
		purger:   purger,
		logger:   l,
		now:      time.Now,
	}
}

// Run sweeps on every tick until context is done
// Returned channel is closed when sweeper stopped
func (s *Sweeper) Run(ctx context.Context) <-chan struct{} {
	idleStopped := make(chan struct{})
	s.logger.Debug("Starting token sweeper", "interval", s.interval)

	go func() {
		defer close(idleStopped)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Debug("Token sweeper stopped by context")
				return

			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()

	return idleStopped
}

func (s *Sweeper) sweep(ctx context.Context) {
	count, err := s.purger.PurgeExpired(ctx, s.now())
	if err != nil {
		s.logger.Error("Failed to purge expired refresh tokens", "error", err)
		return
	}
	if count > 0 {
		s.logger.Info("Expired refresh tokens purged", "count", count)
	}
}
