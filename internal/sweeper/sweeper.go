package sweeper

import (
	"context"
	"time"

	"backend/internal/repository"

	"go.uber.org/zap"
)

// Sweeper periodically purges expired rows from the token blacklist.
// A missed or failed sweep only delays storage reclamation; revocation
// checks do not depend on it.
type Sweeper struct {
	blacklist repository.TokenBlacklistRepository
	interval  time.Duration
	logger    *zap.Logger
}

func New(blacklist repository.TokenBlacklistRepository, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{blacklist: blacklist, interval: interval, logger: logger}
}

// Run sweeps on a fixed interval until the context is cancelled. It is
// meant to be started as a goroutine from main and stopped by the
// shutdown context.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("Token blacklist sweeper started.", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Token blacklist sweeper stopped.")
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep deletes expired blacklist entries. Failures are logged and
// swallowed; the next tick retries naturally.
func (s *Sweeper) Sweep() {
	removed, err := s.blacklist.DeleteExpired(time.Now())
	if err != nil {
		s.logger.Error("Failed to clean up token blacklist", zap.Error(err))
		return
	}
	s.logger.Info("Cleaned up expired tokens from blacklist", zap.Int64("removed", removed))
}
