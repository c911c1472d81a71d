package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/logging"
)

// Scheduler runs background jobs on cron schedules. A job that is still
// running when its next tick arrives is skipped, and a panicking job is
// logged instead of taking the process down.
type Scheduler struct {
	cron    *cron.Cron
	logger  *logging.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
}

// NewScheduler creates a Scheduler. Each run gets a context bounded by timeout
// that is also cancelled by Stop.
func NewScheduler(logger *logging.Logger, timeout time.Duration) *Scheduler {
	logger = logger.WithComponent(logging.ComponentScheduler)
	cl := cronLogger{logger}
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cl),
			cron.SkipIfStillRunning(cl),
		)),
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		timeout: timeout,
	}
}

// Add registers job under name. An empty schedule leaves the job disabled.
func (s *Scheduler) Add(name, schedule string, job func(ctx context.Context) error) error {
	if schedule == "" {
		s.logger.Info("job disabled", logging.FieldOperation, name)
		return nil
	}

	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
		defer cancel()

		start := time.Now()
		if err := job(ctx); err != nil {
			s.logger.Failure(ctx, "job failed", err, logging.FieldOperation, name)
			return
		}
		s.logger.Debug("job finished",
			logging.FieldOperation, name,
			logging.FieldDuration, time.Since(start).Milliseconds(),
		)
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for %s: %w", schedule, name, err)
	}

	s.logger.Info("job scheduled", logging.FieldOperation, name, logging.FieldSchedule, schedule)
	return nil
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}

// cronLogger adapts the application logger to cron.Logger.
type cronLogger struct {
	l *logging.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Failure(context.Background(), msg, err, keysAndValues...)
}
