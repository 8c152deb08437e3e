package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"storehouse/internal/metrics"
	"storehouse/internal/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

const referenceAuditJob = "reference-audit"

// JobScheduler runs the periodic maintenance jobs of the service
type JobScheduler struct {
	scheduler gocron.Scheduler
	audit     services.ReferenceAuditService
	timeout   time.Duration
	log       *logrus.Logger
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler registers the reference audit to run at start and then
// every interval. Each run is bounded by timeout.
func NewJobScheduler(audit services.ReferenceAuditService, interval, timeout time.Duration, log *logrus.Logger) (*JobScheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("audit interval must be positive, got %s", interval)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		audit:     audit,
		timeout:   timeout,
		log:       log,
		jobs:      make(map[string]gocron.Job),
	}

	job, err := scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(js.runReferenceAudit),
		gocron.WithName(referenceAuditJob),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("failed to create %s job: %w", referenceAuditJob, err)
	}
	js.jobs[referenceAuditJob] = job

	log.WithField("interval", interval.String()).Info("registered background jobs")
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.log.Info("starting background job scheduler")
	js.scheduler.Start()
}

// Stop waits for running jobs and stops the scheduler
func (js *JobScheduler) Stop() error {
	js.log.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// JobNames lists the registered jobs
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return names
}

func (js *JobScheduler) runReferenceAudit() {
	ctx, cancel := context.WithTimeout(context.Background(), js.timeout)
	defer cancel()

	started := time.Now()
	audit, err := js.audit.Audit(ctx)
	if err != nil {
		metrics.AuditRuns.WithLabelValues("failed").Inc()
		js.log.WithError(err).Error("reference audit failed")
		return
	}

	metrics.AuditRuns.WithLabelValues("succeeded").Inc()
	js.log.WithFields(logrus.Fields{
		"stale_references": audit.Total(),
		"duration":         time.Since(started).String(),
	}).Info("reference audit completed")
}
