package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/foodcodes/internal/accounts/store"
)

// HousekeepingService periodically removes accounts that were registered
// but never activated, freeing their username and email.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	// InactiveTTL is how long an account may stay inactive. Zero disables
	// purging.
	InactiveTTL time.Duration

	// Now defaults to time.Now.
	Now func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service. If interval is 0 or
// negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval, inactiveTTL time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:       store,
		Logger:      logger,
		Interval:    interval,
		InactiveTTL: inactiveTTL,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start begins the background worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started",
		slog.Duration("interval", s.Interval),
		slog.Duration("inactive_ttl", s.InactiveTTL),
	)
}

// Stop blocks until any in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) cleanup() {
	if _, err := s.RunOnce(context.Background()); err != nil {
		s.Logger.Error("housekeeping cleanup failed", slog.Any("error", err))
	}
}

// RunOnce purges inactive accounts whose latest activation link was issued
// more than InactiveTTL ago and returns how many were removed.
func (s *HousekeepingService) RunOnce(ctx context.Context) (int64, error) {
	if s.InactiveTTL <= 0 {
		return 0, nil
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	cutoff := now().UTC().Add(-s.InactiveTTL)

	n, err := s.Store.Accounts().DeleteInactiveBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	purgedAccountsTotal.Add(float64(n))
	s.Logger.Info("housekeeping cleanup completed",
		slog.Int64("purged_inactive", n),
		slog.Time("cutoff", cutoff),
	)
	return n, nil
}
