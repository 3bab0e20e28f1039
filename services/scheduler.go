package services

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartSessionSweeper closes scoring sessions left idle for longer than maxIdle.
// The caller owns the returned scheduler and must shut it down.
func StartSessionSweeper(manager *SessionManager, interval, maxIdle time.Duration, logger *slog.Logger) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create session sweeper scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if closed := manager.SweepIdle(maxIdle); closed > 0 {
				logger.Info("idle scoring sessions closed",
					slog.Int("closed", closed),
					slog.Int("remaining", manager.Count()),
				)
			}
		}),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("failed to schedule session sweeper: %w", err)
	}

	sched.Start()
	logger.Info("session sweeper started", slog.Duration("interval", interval), slog.Duration("max_idle", maxIdle))
	return sched, nil
}
