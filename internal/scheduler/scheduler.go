// Package scheduler drives the pipeline on a fixed interval using
// robfig/cron, guaranteeing that cycles never overlap.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/theworldofraheem/InternScope/internal/pipeline"
)

const defaultCycleDeadline = 10 * time.Minute

// Runner executes one monitoring cycle. Satisfied by pipeline.Pipeline.
type Runner interface {
	RunCycle(ctx context.Context) (*pipeline.Report, error)
}

// Scheduler wraps robfig/cron and manages the monitoring loop.
type Scheduler struct {
	cron     *cron.Cron
	runner   Runner
	spec     string
	interval time.Duration
	deadline time.Duration
	logger   *zap.Logger
	startup  sync.WaitGroup
}

// New builds a scheduler that fires every interval. A cycle still running
// when its tick arrives defers that tick until the cycle finishes; ticks
// are never interleaved. cycleDeadline bounds one cycle, <= 0 keeps the
// default.
func New(runner Runner, interval time.Duration, cycleDeadline time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cycleDeadline <= 0 {
		cycleDeadline = defaultCycleDeadline
	}

	cronLogger := &zapCronLogger{logger: logger.Named("cron")}

	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.DelayIfStillRunning(cronLogger)),
		),
		runner:   runner,
		spec:     fmt.Sprintf("@every %s", interval),
		interval: interval,
		deadline: cycleDeadline,
		logger:   logger,
	}
}

// Start registers the job and starts ticking. It also runs one cycle
// immediately so a fresh deployment alerts without waiting for the first
// tick. Start does not block; cancel ctx and call Stop to shut down.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("scheduler interval must be positive, got %s", s.interval)
	}

	id, err := s.cron.AddFunc(s.spec, func() {
		s.runCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("register cron job: %w", err)
	}

	// The startup run goes through the same wrapped job as the ticks, so
	// it holds the DelayIfStillRunning lock and a tick landing while it is
	// still going is deferred behind it, never run concurrently.
	job := s.cron.Entry(id).WrappedJob

	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("spec", s.spec))

	s.startup.Add(1)
	go func() {
		defer s.startup.Done()
		job.Run()
	}()

	return nil
}

// Stop halts the tick loop and waits for an in-flight cycle to finish,
// including the startup run.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.startup.Wait()
	s.logger.Info("scheduler stopped")
}

// runCycle executes one bounded cycle. A failed cycle is logged and
// dropped; the next tick starts clean from persisted state.
func (s *Scheduler) runCycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	cycleCtx, cancel := context.WithTimeout(ctx, s.deadline)
	defer cancel()

	started := time.Now()
	report, err := s.runner.RunCycle(cycleCtx)
	if err != nil {
		s.logger.Error("cycle failed", zap.Error(err), zap.Duration("elapsed", time.Since(started)))
		return
	}

	s.logger.Info("cycle finished",
		zap.Duration("elapsed", time.Since(started)),
		zap.Int("gathered", report.Gathered),
		zap.Int("notified", report.Notified),
	)
}

// zapCronLogger adapts zap to the cron.Logger interface.
type zapCronLogger struct {
	logger *zap.Logger
}

func (l *zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Infow(msg, keysAndValues...)
}

func (l *zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
