// Package scheduler runs the due-service check on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ro-service/api/internal/application/reminder"
	"github.com/ro-service/api/internal/pkg/logger"
)

// Runner is satisfied by *reminder.Service.
type Runner interface {
	Run(ctx context.Context, now time.Time) reminder.RunResult
}

type Scheduler struct {
	cron    *cron.Cron
	runner  Runner
	loc     *time.Location
	timeout time.Duration
	log     *zap.Logger
	now     func() time.Time
}

// New registers runner under spec, evaluated in loc. A run is cancelled
// after timeout; zero means no limit. Overlapping firings are skipped.
func New(spec string, loc *time.Location, runner Runner, timeout time.Duration, log *zap.Logger) (*Scheduler, error) {
	log = logger.OrNop(log)
	s := &Scheduler{
		runner:  runner,
		loc:     loc,
		timeout: timeout,
		log:     log,
		now:     time.Now,
	}
	s.cron = cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cronLogger{log}), cron.SkipIfStillRunning(cronLogger{log})),
	)
	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		return nil, fmt.Errorf("parse cron spec %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("due-service scheduler started", zap.String("location", s.loc.String()))
}

// Stop halts the schedule and returns a context that is done once any
// running job finishes.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// RunOnce performs one check as of the current time in the schedule's location.
func (s *Scheduler) RunOnce() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	res := s.runner.Run(ctx, s.now().In(s.loc))
	if !res.Success {
		s.log.Error("scheduled due-service check failed", zap.String("error", res.Error))
		return
	}
	s.log.Info("scheduled due-service check done",
		zap.Int("count", res.Count), zap.Int("skipped", res.Skipped))
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct{ l *zap.Logger }

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Sugar().Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
