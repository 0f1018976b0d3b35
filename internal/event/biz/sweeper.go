package biz

import (
	"context"
	"errors"
	"time"

	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/redis"
	"go.uber.org/zap"
)

const sweepLockKey = "lock:events:sweep"

// Locker runs fn while holding a lock shared by every replica
type Locker interface {
	WithLock(ctx context.Context, key string, expiration time.Duration, fn func(ctx context.Context) error) error
}

// Sweeper runs SweepPast on a ticker. With a nil locker every replica sweeps;
// the update is idempotent so that only costs duplicate work.
type Sweeper struct {
	uc       *EventUseCase
	locker   Locker
	interval time.Duration
	logger   *logger.Logger
}

func NewSweeper(uc *EventUseCase, locker Locker, interval time.Duration, log *logger.Logger) *Sweeper {
	if log == nil {
		log = logger.NewNop()
	}
	return &Sweeper{uc: uc, locker: locker, interval: interval, logger: log.Named("event.sweeper")}
}

// Run blocks until ctx is done. A non-positive interval returns immediately.
func (s *Sweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		return
	}
	s.logger.Info("event sweep scheduled", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick performs one sweep, skipping it when another replica holds the lock
func (s *Sweeper) Tick(ctx context.Context) {
	sweep := func(ctx context.Context) error {
		_, err := s.uc.SweepPast(ctx)
		return err
	}

	var err error
	if s.locker == nil {
		err = sweep(ctx)
	} else {
		err = s.locker.WithLock(ctx, sweepLockKey, s.interval, sweep)
	}

	switch {
	case err == nil:
	case errors.Is(err, redis.ErrLockNotAcquired):
		s.logger.Debug("event sweep skipped, lock held elsewhere")
	default:
		s.logger.Error("event sweep failed", zap.Error(err))
	}
}
