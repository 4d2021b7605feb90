package service

import (
	"context"
	"log/slog"
	"time"
)

// Purger deletes expired sessions. SessionService satisfies it.
type Purger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// HousekeepingService periodically deletes expired refresh records to
// prevent unbounded growth of the refresh_tokens table.
type HousekeepingService struct {
	Purger   Purger
	Logger   *slog.Logger
	Interval time.Duration
	Clock    func() time.Time

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(purger Purger, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Purger:   purger,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs cleanup.
// This is non-blocking and should be called after the database is ready.
// Call Stop() to gracefully shutdown the worker.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress cleanup.
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

// cleanup runs one purge pass. Failures are logged and retried on the
// next tick.
func (s *HousekeepingService) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), s.Interval)
	defer cancel()

	now := time.Now().UTC()
	if s.Clock != nil {
		now = s.Clock().UTC()
	}

	n, err := s.Purger.PurgeExpired(ctx, now)
	if err != nil {
		s.Logger.Error("failed to purge expired refresh tokens", "error", err)
		return
	}
	s.Logger.Info("housekeeping cleanup completed", "deleted_refresh_tokens", n)
}
