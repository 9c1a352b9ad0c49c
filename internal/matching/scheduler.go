package matching

import (
	"context"
	"time"

	"github.com/imadgeboyega/roommate-finder/internal/common/logger"
)

type Scheduler struct {
	reconciler *Reconciler
	interval   time.Duration
	log        *logger.Logger
}

func NewScheduler(reconciler *Reconciler, interval time.Duration, log *logger.Logger) *Scheduler {
	return &Scheduler{reconciler: reconciler, interval: interval, log: log}
}

// Start runs the reconciler once and then every interval until ctx is done
func (s *Scheduler) Start(ctx context.Context) {
	go s.runEvery(ctx, s.interval, func(ctx context.Context) error {
		_, err := s.reconciler.Run(ctx)
		return err
	})
}

func (s *Scheduler) runEvery(ctx context.Context, interval time.Duration, task func(context.Context) error) {
	if err := task(ctx); err != nil {
		s.log.Error("scheduled task failed", "error", err)
	}
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := task(ctx); err != nil {
				s.log.Error("scheduled task failed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
