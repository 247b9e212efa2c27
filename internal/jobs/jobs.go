// Package jobs runs periodic maintenance tasks.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SessionExpirer abandons active sessions started before maxAge ago.
type SessionExpirer interface {
	ExpireStale(ctx context.Context, maxAge time.Duration) (int64, error)
}

type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

func NewScheduler(log *zap.Logger) *Scheduler {
	return &Scheduler{cron: cron.New(), log: log}
}

// ScheduleSessionExpiry registers the stale session sweep on spec.
func (s *Scheduler) ScheduleSessionExpiry(ctx context.Context, spec string, expirer SessionExpirer, maxAge time.Duration) error {
	if maxAge <= 0 {
		return fmt.Errorf("session expiry age must be positive, got %s", maxAge)
	}
	_, err := s.cron.AddFunc(spec, func() {
		ExpireSessions(ctx, expirer, maxAge, s.log)
	})
	if err != nil {
		return fmt.Errorf("schedule session expiry %q: %w", spec, err)
	}
	return nil
}

// ExpireSessions runs one sweep.
func ExpireSessions(ctx context.Context, expirer SessionExpirer, maxAge time.Duration, log *zap.Logger) {
	n, err := expirer.ExpireStale(ctx, maxAge)
	if err != nil {
		log.Error("[jobs] expire sessions error", zap.Error(err))
		return
	}
	if n > 0 {
		log.Info("expired stale sessions", zap.Int64("count", n))
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
