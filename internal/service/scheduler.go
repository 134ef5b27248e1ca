package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/pageza/recipeshare/backend/internal/logger"
)

// Job is a unit of background work run on a cron schedule
type Job func(ctx context.Context) error

// Scheduler runs jobs on standard five-field cron expressions. A job that is
// still running when its next tick fires is skipped for that tick.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

func NewScheduler() *Scheduler {
	return newScheduler(logger.Component("scheduler"))
}

func newScheduler(log zerolog.Logger) *Scheduler {
	cl := cronLogger{log: log}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		log: log,
	}
}

// cronLogger routes the cron runtime's own messages (recovered panics,
// skipped runs) into zerolog. Info messages go out at debug level.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

// Add registers job under name on spec
func (s *Scheduler) Add(name, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		s.log.Info().Str("job", name).Msg("Starting scheduled job")
		if err := job(context.Background()); err != nil {
			s.log.Error().Err(err).Str("job", name).Msg("Scheduled job failed")
			return
		}
		s.log.Info().Str("job", name).Dur("took", time.Since(start)).Msg("Scheduled job finished")
	})
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("Starting background scheduler")
	s.cron.Start()
}

// Stop prevents new runs and waits for running jobs until ctx is done
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info().Msg("Background scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
