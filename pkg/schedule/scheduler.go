package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"contentworks/csvexport/pkg/config"
	"contentworks/csvexport/pkg/export"
	"contentworks/csvexport/pkg/telemetry/logging"
	"contentworks/csvexport/pkg/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Run statuses reported to the RunObserver.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// timestampLayout is appended to export file names.
const timestampLayout = "20060102-150405"

// RunObserver receives the outcome of every scheduled run.
type RunObserver interface {
	RecordScheduledRun(job, status string, duration time.Duration)
}

// Scheduler runs export jobs on cron schedules and writes each export into
// the output directory.
type Scheduler struct {
	exporter  *export.Exporter
	source    export.Source
	outputDir string
	jobs      []config.JobConfig

	cron     *cron.Cron
	observer RunObserver
	now      func() time.Time
	mu       sync.Mutex
	logger   *slog.Logger
	tracer   trace.Tracer
	running  bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithObserver reports run outcomes to o.
func WithObserver(o RunObserver) Option {
	return func(s *Scheduler) {
		s.observer = o
	}
}

// WithLogger sets the scheduler logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithTracer sets the tracer used for run spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Scheduler) {
		s.tracer = tracer
	}
}

// WithClock overrides the clock used for date bounds and file names.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// NewScheduler creates a scheduler for the jobs in cfg.
func NewScheduler(exporter *export.Exporter, source export.Source, cfg config.ScheduleConfig, opts ...Option) *Scheduler {
	s := &Scheduler{
		exporter:  exporter,
		source:    source,
		outputDir: cfg.OutputDir,
		jobs:      cfg.Jobs,
		// A job still running when its next tick fires skips that tick.
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		now:    time.Now,
		logger: slog.Default().With("component", "schedule"),
		tracer: otel.Tracer(tracing.TracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start registers every job and starts the cron scheduler. Jobs use the
// standard five-field cron syntax:
//   - "0 3 * * *"    - Daily at 3 AM
//   - "0 */6 * * *"  - Every 6 hours
//   - "0 0 * * 0"    - Weekly on Sunday at midnight
//
// If no jobs are configured, the scheduler does nothing. The scheduler stops
// when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.jobs) == 0 {
		s.logger.Info("no scheduled exports configured, skipping scheduler")
		return nil
	}

	for _, job := range s.jobs {
		if _, err := cron.ParseStandard(job.Cron); err != nil {
			return fmt.Errorf("invalid cron schedule %q for job %q: %w", job.Cron, job.Name, err)
		}

		job := job
		if _, err := s.cron.AddFunc(job.Cron, func() {
			s.RunJob(ctx, job)
		}); err != nil {
			return fmt.Errorf("failed to schedule job %q: %w", job.Name, err)
		}
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("export scheduler started",
		"jobs", len(s.jobs),
		"output_dir", s.outputDir,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// RunJob executes one job immediately and returns the path of the written
// file.
func (s *Scheduler) RunJob(ctx context.Context, job config.JobConfig) (string, error) {
	began := time.Now()
	runID := uuid.NewString()
	ctx = logging.WithJob(ctx, job.Name, runID)

	// Scheduled runs start a new trace rather than joining the caller's.
	ctx, span := s.tracer.Start(ctx, "schedule.run",
		trace.WithNewRoot(),
		trace.WithAttributes(tracing.JobAttributes(job.Name, runID, job.ContentType)...))
	defer span.End()

	path, err := s.runJob(ctx, job, s.now())
	duration := time.Since(began)

	if err != nil {
		tracing.SetError(span, err)
		s.logger.ErrorContext(ctx, "scheduled export failed",
			"content_type", job.ContentType,
			"error", err,
		)
		s.observe(job.Name, StatusError, duration)
		return "", err
	}

	s.logger.InfoContext(ctx, "scheduled export completed",
		"content_type", job.ContentType,
		"path", path,
		"duration", duration,
	)
	s.observe(job.Name, StatusOK, duration)

	return path, nil
}

func (s *Scheduler) runJob(ctx context.Context, job config.JobConfig, start time.Time) (string, error) {
	q := export.Query{}
	if job.Since > 0 {
		since := start.Add(-job.Since)
		q.CreatedSince = &since
	}

	out, err := s.exporter.Run(ctx, s.source, job.ContentType, q)
	if err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, fmt.Sprintf("found %d records to export", out.Records),
		"content_type", job.ContentType,
		"since", q.CreatedSince,
	)

	name := fmt.Sprintf("%s-%s.csv", out.Filename, start.Format(timestampLayout))
	path := filepath.Join(s.outputDir, name)
	if err := WriteFile(path, out.Body); err != nil {
		return "", err
	}

	return path, nil
}

func (s *Scheduler) observe(job, status string, d time.Duration) {
	if s.observer == nil {
		return
	}
	s.observer.RecordScheduledRun(job, status, d)
}

// Stop stops the scheduler and waits for any running jobs to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("export scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the earliest next run time over all jobs.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil || !s.running {
		return nil
	}

	var next *time.Time
	for _, entry := range s.cron.Entries() {
		if entry.Next.IsZero() {
			continue
		}
		if next == nil || entry.Next.Before(*next) {
			t := entry.Next
			next = &t
		}
	}
	return next
}
