package background

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"pgpathfinder/pkg/metrics"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

const (
	ListingCacheWarmJob = "listing-cache-warm"
	OrphanSweepJob      = "orphan-image-sweep"

	jobTimeout = 2 * time.Minute
)

// CacheWarmer reloads the visible listing set
type CacheWarmer interface {
	WarmCache(ctx context.Context) error
}

// OrphanSweeper removes stored images no listing references
type OrphanSweeper interface {
	SweepOrphans(ctx context.Context, grace time.Duration) (int, error)
}

// Options controls job cadence
type Options struct {
	WarmInterval  time.Duration
	SweepInterval time.Duration
	// OrphanGrace protects objects from an upload that has not written its
	// rows yet
	OrphanGrace time.Duration
}

// DefaultOptions warms every 5 minutes and sweeps hourly
func DefaultOptions() Options {
	return Options{
		WarmInterval:  5 * time.Minute,
		SweepInterval: time.Hour,
		OrphanGrace:   time.Hour,
	}
}

// JobScheduler runs the periodic maintenance jobs
type JobScheduler struct {
	scheduler gocron.Scheduler
	warmer    CacheWarmer
	sweeper   OrphanSweeper
	opts      Options
	log       *zap.Logger
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates a scheduler with both jobs registered. Nothing
// runs until Start.
func NewJobScheduler(warmer CacheWarmer, sweeper OrphanSweeper, opts Options, log *zap.Logger) (*JobScheduler, error) {
	if log == nil {
		log = zap.NewNop()
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		warmer:    warmer,
		sweeper:   sweeper,
		opts:      opts,
		log:       log.Named("jobs"),
		jobs:      make(map[string]gocron.Job),
	}

	if err := js.registerJobs(); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.log.Info("Starting background job scheduler", zap.Int("jobs", len(js.jobs)))
	js.scheduler.Start()
}

// Stop waits for running jobs and stops the scheduler
func (js *JobScheduler) Stop() error {
	js.log.Info("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	// The cache is warmed on boot so the first browse is served from Redis.
	if err := js.add(ListingCacheWarmJob, js.opts.WarmInterval, js.warmListingCache,
		gocron.WithStartAt(gocron.WithStartImmediately())); err != nil {
		return err
	}
	return js.add(OrphanSweepJob, js.opts.SweepInterval, js.sweepOrphanImages)
}

func (js *JobScheduler) add(name string, interval time.Duration, task func(), extra ...gocron.JobOption) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	options := append([]gocron.JobOption{
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}, extra...)

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		options...,
	)
	if err != nil {
		return fmt.Errorf("failed to create %s job: %w", name, err)
	}

	js.jobs[name] = job
	return nil
}

func (js *JobScheduler) warmListingCache() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	if err := js.warmer.WarmCache(ctx); err != nil {
		metrics.JobRuns.WithLabelValues(ListingCacheWarmJob, "error").Inc()
		js.log.Warn("Listing cache warm-up failed", zap.Error(err))
		return
	}
	metrics.JobRuns.WithLabelValues(ListingCacheWarmJob, "ok").Inc()
	js.log.Debug("Listing cache warmed", zap.Duration("took", time.Since(start)))
}

func (js *JobScheduler) sweepOrphanImages() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	removed, err := js.sweeper.SweepOrphans(ctx, js.opts.OrphanGrace)
	if err != nil {
		metrics.JobRuns.WithLabelValues(OrphanSweepJob, "error").Inc()
		js.log.Warn("Orphan image sweep failed", zap.Int("removed", removed), zap.Error(err))
		return
	}
	metrics.JobRuns.WithLabelValues(OrphanSweepJob, "ok").Inc()
	if removed > 0 {
		js.log.Info("Removed orphaned images", zap.Int("removed", removed))
	}
}

// GetJobStatus returns information about scheduled jobs
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	jobs := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		jobs = append(jobs, name)
	}
	sort.Strings(jobs)

	return map[string]interface{}{
		"total_jobs": len(js.jobs),
		"jobs":       jobs,
	}
}
