package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/robfig/cron/v3"

	"github.com/wonny/finlab/backend/pkg/logger"
)

// Options retry/timeout settings
type Options struct {
	MaxRetries uint64        // 실패 시 재시도 횟수
	RetryDelay time.Duration // 첫 재시도 대기 (지수 증가)
	JobTimeout time.Duration // 1회 실행 제한 (0 = 무제한)
}

// DefaultOptions 3회 재시도, 1초부터 지수 증가, 1분 타임아웃
func DefaultOptions() Options {
	return Options{
		MaxRetries: 3,
		RetryDelay: time.Second,
		JobTimeout: time.Minute,
	}
}

type registered struct {
	job     Job
	entryID cron.EntryID
	history *JobHistory
}

// Scheduler manages scheduled jobs
// ⭐ SSOT: 스케줄 관리는 이 스케줄러에서만
type Scheduler struct {
	cron   *cron.Cron
	logger *logger.Logger
	opts   Options

	mu   sync.RWMutex
	jobs map[string]*registered

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new scheduler
func New(opts Options, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		logger: log.WithComponent("scheduler"),
		opts:   opts,
		jobs:   make(map[string]*registered),
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddJob registers a job under its cron schedule
func (s *Scheduler) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := job.Name()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already exists", name)
	}

	entryID, err := s.cron.AddFunc(job.Schedule(), func() {
		s.runJob(job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	s.jobs[name] = &registered{
		job:     job,
		entryID: entryID,
		history: &JobHistory{},
	}

	s.logger.WithFields(map[string]interface{}{
		"job":      name,
		"schedule": job.Schedule(),
	}).Info("Job added to scheduler")

	return nil
}

// RemoveJob unregisters a job
func (s *Scheduler) RemoveJob(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, exists := s.jobs[name]
	if !exists {
		return fmt.Errorf("job %s not found", name)
	}

	s.cron.Remove(reg.entryID)
	delete(s.jobs, name)
	s.logger.WithField("job", name).Info("Job removed from scheduler")

	return nil
}

// Start starts the cron loop
func (s *Scheduler) Start() {
	s.logger.Info("Starting scheduler")
	s.cron.Start()
}

// Stop stops the cron loop, cancels running jobs and waits for them
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	stopCtx := s.cron.Stop()
	s.cancel()
	<-stopCtx.Done()
	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
}

// RunNow runs a job synchronously outside of its schedule
func (s *Scheduler) RunNow(name string) (JobResult, error) {
	s.mu.RLock()
	reg, exists := s.jobs[name]
	s.mu.RUnlock()

	if !exists {
		return JobResult{}, fmt.Errorf("job %s not found", name)
	}
	return s.runJob(reg.job), nil
}

// runJob executes a job with exponential-backoff retries
func (s *Scheduler) runJob(job Job) JobResult {
	s.wg.Add(1)
	defer s.wg.Done()

	name := job.Name()
	start := time.Now()
	s.logger.WithField("job", name).Debug("Job started")

	attempts := 0
	operation := func() error {
		attempts++
		ctx := s.ctx
		if s.opts.JobTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(s.ctx, s.opts.JobTimeout)
			defer cancel()
		}

		err := job.Run(ctx)
		if err != nil {
			s.logger.WithFields(map[string]interface{}{
				"job":     name,
				"attempt": attempts,
				"error":   err.Error(),
			}).Warn("Job execution failed")
		}
		return err
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = s.opts.RetryDelay
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, s.opts.MaxRetries), s.ctx)

	err := backoff.Retry(operation, policy)

	end := time.Now()
	result := JobResult{
		JobName:   name,
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start),
		Attempts:  attempts,
		Success:   err == nil,
	}
	if err != nil {
		result.Error = err.Error()
	}

	s.mu.RLock()
	if reg, exists := s.jobs[name]; exists {
		reg.history.AddResult(result)
	}
	s.mu.RUnlock()

	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"job":      name,
			"duration": result.Duration,
			"attempts": attempts,
		}).WithError(err).Error("Job failed after all retries")
	} else {
		s.logger.WithFields(map[string]interface{}{
			"job":      name,
			"duration": result.Duration,
		}).Debug("Job completed successfully")
	}

	return result
}

// History returns the latest n results of a job
func (s *Scheduler) History(name string, n int) ([]JobResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reg, exists := s.jobs[name]
	if !exists {
		return nil, fmt.Errorf("job %s not found", name)
	}
	return reg.history.Latest(n), nil
}

// Jobs returns registered job names
func (s *Scheduler) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}

// Stats returns statistics for all jobs
func (s *Scheduler) Stats() map[string]JobStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]JobStats, len(s.jobs))
	for name, reg := range s.jobs {
		stats[name] = reg.history.Stats(name, reg.job.Schedule())
	}
	return stats
}
