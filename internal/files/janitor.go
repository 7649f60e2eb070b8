package files

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"datacleaner/internal/config"
)

// scheduleParser accepts five or six field cron specs and @every descriptors
var scheduleParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// cronLogger adapts slog to cron.Logger
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append([]interface{}{slog.String("error", err.Error())}, keysAndValues...)...)
}

// Janitor periodically deletes expired run directories
type Janitor struct {
	manager *Manager
	cfg     config.RetentionConfig
	logger  *slog.Logger
	cron    *cron.Cron

	mu      sync.Mutex
	started bool
}

// NewJanitor validates the retention schedule and prepares the job
func NewJanitor(manager *Manager, cfg config.RetentionConfig, logger *slog.Logger) (*Janitor, error) {
	logger = logger.With(slog.String("component", "janitor"))
	if cfg.MaxAge <= 0 {
		return nil, fmt.Errorf("retention max age must be positive, got %s", cfg.MaxAge)
	}

	j := &Janitor{
		manager: manager,
		cfg:     cfg,
		logger:  logger,
	}

	c := cron.New(
		cron.WithParser(scheduleParser),
		cron.WithLogger(cronLogger{logger: logger}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger: logger})),
	)
	if _, err := c.AddFunc(cfg.Schedule, func() { j.RunOnce() }); err != nil {
		return nil, fmt.Errorf("invalid retention schedule %q: %w", cfg.Schedule, err)
	}
	j.cron = c
	return j, nil
}

// Start launches the scheduler in the background
func (j *Janitor) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.started {
		return
	}
	j.started = true
	j.cron.Start()
	j.logger.Info("Retention janitor started",
		slog.String("schedule", j.cfg.Schedule),
		slog.Duration("max_age", j.cfg.MaxAge))
}

// Stop halts the scheduler and waits for a running sweep until ctx is done
func (j *Janitor) Stop(ctx context.Context) error {
	j.mu.Lock()
	if !j.started {
		j.mu.Unlock()
		return nil
	}
	j.started = false
	j.mu.Unlock()

	select {
	case <-j.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce performs a single sweep and returns the number of removed directories
func (j *Janitor) RunOnce() int {
	removed, err := j.manager.CleanupRuns(j.cfg.MaxAge)
	if err != nil {
		j.logger.Error("Retention sweep failed", slog.String("error", err.Error()))
		return removed
	}
	j.logger.Info("Retention sweep completed",
		slog.Int("removed", removed),
		slog.Duration("max_age", j.cfg.MaxAge))
	return removed
}
