// Package retention periodically deletes stored reports that have outlived
// the configured retention period.
package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/anorak1709/research-usecase-generator/internal/logfields"
	"github.com/anorak1709/research-usecase-generator/internal/metrics"
)

// Purger deletes reports created before a cutoff.
type Purger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// Janitor runs the purge job on a gocron scheduler.
type Janitor struct {
	scheduler gocron.Scheduler
	purger    Purger
	retention time.Duration
	interval  time.Duration
	recorder  metrics.Recorder
	logger    *slog.Logger
	now       func() time.Time
	jobID     string
}

// Option customises a Janitor.
type Option func(*Janitor)

// WithRecorder reports purged counts to r.
func WithRecorder(r metrics.Recorder) Option { return func(j *Janitor) { j.recorder = metrics.OrNoop(r) } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(j *Janitor) { j.logger = l } }

// New creates a Janitor that removes reports older than retention every
// interval.
func New(purger Purger, retention, interval time.Duration, opts ...Option) (*Janitor, error) {
	if retention <= 0 || interval <= 0 {
		return nil, fmt.Errorf("retention and interval must be positive (got %s, %s)", retention, interval)
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	j := &Janitor{
		scheduler: s,
		purger:    purger,
		retention: retention,
		interval:  interval,
		recorder:  metrics.NoopRecorder{},
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

// Start schedules the purge job, running it once immediately.
func (j *Janitor) Start() error {
	job, err := j.scheduler.NewJob(
		gocron.DurationJob(j.interval),
		gocron.NewTask(j.run),
		gocron.WithName("report-retention"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create retention job: %w", err)
	}
	j.jobID = job.ID().String()
	j.logger.Info("Starting retention job",
		slog.String("job_id", j.jobID),
		slog.Duration("retention", j.retention),
		slog.Duration("interval", j.interval))
	j.scheduler.Start()
	return nil
}

// Stop shuts the scheduler down, waiting for a running purge to finish.
func (j *Janitor) Stop() error {
	return j.scheduler.Shutdown()
}

// RunOnce purges reports older than the retention period.
func (j *Janitor) RunOnce(ctx context.Context) (int, error) {
	cutoff := j.now().Add(-j.retention)
	n, err := j.purger.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	j.recorder.AddPurgedReports(n)
	return n, nil
}

func (j *Janitor) run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.interval)
	defer cancel()

	start := time.Now()
	n, err := j.RunOnce(ctx)
	if err != nil {
		j.logger.Error("Retention purge failed", logfields.Error(err))
		return
	}
	if n > 0 {
		j.logger.Info("Purged expired reports",
			slog.Int("count", n),
			logfields.Duration(time.Since(start)))
	}
}
