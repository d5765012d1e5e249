package core

// scheduler.go provides background maintenance for the run store.
//
// Runs are kept in memory only. The sweeper periodically drops runs older
// than the configured TTL so memory is reclaimed even when no new uploads
// arrive to trigger eviction. It is context-aware for graceful shutdown.

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSweepInterval is how often expired runs are evicted.
const DefaultSweepInterval = time.Minute

// StartRunSweeper evicts expired runs every interval until ctx is cancelled.
func (s *Service) StartRunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	slog.Info("run sweeper started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("run sweeper stopped")
			return
		case <-ticker.C:
			s.sweepRuns()
		}
	}
}

// sweepRuns performs one eviction pass.
func (s *Service) sweepRuns() {
	if n := s.runs.Sweep(); n > 0 {
		slog.Debug("expired runs evicted", "count", n, "remaining", s.runs.Len())
	}
}
