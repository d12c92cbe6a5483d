package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/feedoffice/backend/internal/application/report"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobStatus is the outcome of one scheduled run
type JobStatus string

const (
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
	JobStatusSkipped JobStatus = "SKIPPED"
)

// SnapshotRunner writes the daily snapshots for one calendar day
type SnapshotRunner interface {
	RunDaily(ctx context.Context, day time.Time) (report.RunResult, error)
}

// Config holds snapshot scheduler configuration
type Config struct {
	// Schedule is a five-field cron expression evaluated in Location
	Schedule   string
	Location   *time.Location
	LockTTL    time.Duration
	JobTimeout time.Duration
}

// DefaultConfig returns the default schedule: 00:05 every day, UTC
func DefaultConfig() Config {
	return Config{
		Schedule:   "5 0 * * *",
		Location:   time.UTC,
		LockTTL:    10 * time.Minute,
		JobTimeout: 5 * time.Minute,
	}
}

// SnapshotScheduler runs the snapshot aggregator for the previous day on a
// cron schedule. Each run takes the lock snapshot:daily:<date> first, so
// only one replica writes a given day. Failures are logged, never retried.
type SnapshotScheduler struct {
	config Config
	runner SnapshotRunner
	locker Locker
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// NewSnapshotScheduler creates a new scheduler. A nil locker runs unguarded.
func NewSnapshotScheduler(config Config, runner SnapshotRunner, locker Locker, logger *zap.Logger) *SnapshotScheduler {
	defaults := DefaultConfig()
	if config.Schedule == "" {
		config.Schedule = defaults.Schedule
	}
	if config.Location == nil {
		config.Location = defaults.Location
	}
	if config.LockTTL <= 0 {
		config.LockTTL = defaults.LockTTL
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = defaults.JobTimeout
	}
	if locker == nil {
		locker = NoopLocker{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotScheduler{
		config: config,
		runner: runner,
		locker: locker,
		logger: logger.With(zap.String("component", "snapshot_scheduler")),
		now:    time.Now,
	}
}

// Start registers the job and starts the cron loop
func (s *SnapshotScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyRunning
	}

	c := cron.New(
		cron.WithLocation(s.config.Location),
		cron.WithLogger(cronLogger{s.logger}),
		cron.WithChain(cron.Recover(cronLogger{s.logger}), cron.SkipIfStillRunning(cronLogger{s.logger})),
	)
	if _, err := c.AddFunc(s.config.Schedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("%w: schedule %q: %v", ErrInvalidConfig, s.config.Schedule, err)
	}
	c.Start()
	s.cron = c
	s.running = true

	s.logger.Info("snapshot scheduler started",
		zap.String("schedule", s.config.Schedule),
		zap.String("timezone", s.config.Location.String()))
	return nil
}

// Stop stops the cron loop and waits for a running job until ctx is done
func (s *SnapshotScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	done := s.cron.Stop()
	s.running = false
	s.mu.Unlock()

	select {
	case <-done.Done():
		s.logger.Info("snapshot scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning reports whether the cron loop is active
func (s *SnapshotScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// RunOnce snapshots the day before now in the configured timezone
func (s *SnapshotScheduler) RunOnce(ctx context.Context) JobStatus {
	now := s.now().In(s.config.Location)
	day := time.Date(now.Year(), now.Month(), now.Day()-1, 0, 0, 0, 0, s.config.Location)
	return s.run(ctx, day)
}

func (s *SnapshotScheduler) run(ctx context.Context, day time.Time) JobStatus {
	key := LockKey(day)
	log := s.logger.With(zap.String("date", day.Format(time.DateOnly)))

	lock, err := s.locker.Obtain(ctx, key, s.config.LockTTL)
	if err != nil {
		if errors.Is(err, ErrLockNotObtained) {
			log.Info("snapshot run skipped, lock held elsewhere", zap.String("lock", key))
			return JobStatusSkipped
		}
		log.Error("failed to obtain snapshot lock", zap.Error(err))
		return JobStatusFailed
	}
	defer func() {
		if err := lock.Release(context.Background()); err != nil {
			log.Warn("failed to release snapshot lock", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	start := time.Now()
	result, err := s.runner.RunDaily(ctx, day)
	log = log.With(
		zap.Int("raw_materials", result.RawMaterial),
		zap.Int("feed_categories", result.Feed),
		zap.Duration("duration", time.Since(start)))
	if err != nil {
		log.Error("scheduled snapshot run failed", zap.Int("failed", result.Failed), zap.Error(err))
		return JobStatusFailed
	}
	log.Info("scheduled snapshot run completed")
	return JobStatusSuccess
}

// LockKey names the lock guarding the snapshot of day
func LockKey(day time.Time) string {
	return "snapshot:daily:" + day.Format(time.DateOnly)
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
