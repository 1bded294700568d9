// Package scheduler runs the daily club maintenance jobs on a worker pool.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobStatus represents the status of a scheduled job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusSkipped JobStatus = "SKIPPED"
	JobStatusFailed  JobStatus = "FAILED"
)

// JobKind names the work a job performs
type JobKind string

const (
	// JobDuesMaintenance refreshes overdue dues and generates the lookahead
	JobDuesMaintenance JobKind = "DUES_MAINTENANCE"
	// JobCollectionCampaigns runs every active collection campaign
	JobCollectionCampaigns JobKind = "COLLECTION_CAMPAIGNS"
)

// DailyJobKinds lists the kinds submitted for each club on every daily run
func DailyJobKinds() []JobKind {
	return []JobKind{JobDuesMaintenance, JobCollectionCampaigns}
}

// Job is one unit of work for one club on one civil day
type Job struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	Kind     JobKind
	// Day is the club's civil date the run belongs to, formatted 2006-01-02
	Day         string
	Status      JobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
	NextRetryAt *time.Time
}

// NewJob creates a new job instance
func NewJob(tenantID uuid.UUID, kind JobKind, day string, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		TenantID:   tenantID,
		Kind:       kind,
		Day:        day,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
	}
}

// Start marks the job as running
func (j *Job) Start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

// Complete marks the job as successful
func (j *Job) Complete() {
	now := time.Now()
	j.Status = JobStatusSuccess
	j.CompletedAt = &now
}

// Skip marks a job another instance already ran
func (j *Job) Skip() {
	now := time.Now()
	j.Status = JobStatusSkipped
	j.CompletedAt = &now
}

// Fail marks the job as failed
func (j *Job) Fail(err string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}

// ShouldRetry returns true if the job should be retried
func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// ScheduleRetry schedules the job for retry
func (j *Job) ScheduleRetry(delay time.Duration) {
	j.RetryCount++
	j.Status = JobStatusPending
	nextRetry := time.Now().Add(delay)
	j.NextRetryAt = &nextRetry
	j.Error = ""
}

// JobExecutor runs jobs. Returning ErrAlreadyRan marks the job skipped.
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

// SchedulerConfig holds worker pool configuration
type SchedulerConfig struct {
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
	QueueSize         int
}

// DefaultSchedulerConfig returns default scheduler configuration
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		MaxConcurrentJobs: 3,
		JobTimeout:        10 * time.Minute,
		RetryAttempts:     3,
		RetryDelay:        5 * time.Minute,
		QueueSize:         256,
	}
}

// Scheduler executes submitted jobs on a fixed pool of workers
type Scheduler struct {
	config   SchedulerConfig
	executor JobExecutor
	logger   *zap.Logger

	jobs      chan *Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	done      func(*Job)
}

// NewScheduler creates a new scheduler instance
func NewScheduler(config SchedulerConfig, executor JobExecutor, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxConcurrentJobs <= 0 {
		config.MaxConcurrentJobs = 1
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 256
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = 10 * time.Minute
	}
	return &Scheduler{
		config:   config,
		executor: executor,
		logger:   logger.Named("scheduler"),
		jobs:     make(chan *Job, config.QueueSize),
	}
}

// OnFinished registers a callback invoked once a job reaches a final status
func (s *Scheduler) OnFinished(fn func(*Job)) {
	s.mu.Lock()
	s.done = fn
	s.mu.Unlock()
}

// Start starts the workers
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.config.MaxConcurrentJobs; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Job scheduler started",
		zap.Int("workers", s.config.MaxConcurrentJobs),
		zap.Duration("job_timeout", s.config.JobTimeout))
	return nil
}

// Stop cancels running jobs and waits for the workers to exit
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Job scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Job scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether workers are accepting jobs
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// SubmitJob queues a job for execution
func (s *Scheduler) SubmitJob(job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return ErrSchedulerNotRunning
	}

	select {
	case s.jobs <- job:
		s.logger.Debug("Job submitted",
			zap.String("job_id", job.ID.String()),
			zap.String("kind", string(job.Kind)),
			zap.String("tenant_id", job.TenantID.String()))
		return nil
	default:
		return ErrJobQueueFull
	}
}

func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-s.jobs:
			s.processJob(ctx, job, workerID)
		}
	}
}

func (s *Scheduler) processJob(ctx context.Context, job *Job, workerID int) {
	job.Start()
	log := s.logger.With(
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("kind", string(job.Kind)),
		zap.String("tenant_id", job.TenantID.String()),
		zap.String("day", job.Day))
	log.Info("Processing job")

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	err := s.executor.Execute(jobCtx, job)
	cancel()

	switch {
	case err == nil:
		job.Complete()
		log.Info("Job completed")
	case errors.Is(err, ErrAlreadyRan):
		job.Skip()
		log.Info("Job already ran on another instance")
	default:
		job.Fail(err.Error())
		log.Error("Job failed", zap.Error(err))
		if job.ShouldRetry() && ctx.Err() == nil {
			job.ScheduleRetry(s.config.RetryDelay)
			log.Info("Job scheduled for retry",
				zap.Int("retry_count", job.RetryCount),
				zap.Int("max_retries", job.MaxRetries))
			time.AfterFunc(s.config.RetryDelay, func() {
				if err := s.SubmitJob(job); err != nil {
					log.Warn("Failed to re-queue job for retry", zap.Error(err))
				}
			})
			return
		}
	}

	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		done(job)
	}
}
