package jobs

import (
	"context"

	"github.com/wonny/finlab/backend/pkg/logger"
)

// Evicter removes expired simulation results
type Evicter interface {
	EvictExpired(ctx context.Context) (int, error)
}

// SessionCleanupJob evicts expired simulation results
type SessionCleanupJob struct {
	evicter  Evicter
	schedule string
	logger   *logger.Logger
}

// NewSessionCleanupJob creates a new session cleanup job
func NewSessionCleanupJob(evicter Evicter, schedule string, log *logger.Logger) *SessionCleanupJob {
	if schedule == "" {
		schedule = "0 */5 * * * *"
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SessionCleanupJob{
		evicter:  evicter,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *SessionCleanupJob) Name() string {
	return "session_cleanup"
}

// Schedule returns the cron schedule
func (j *SessionCleanupJob) Schedule() string {
	return j.schedule
}

// Run evicts expired results
func (j *SessionCleanupJob) Run(ctx context.Context) error {
	count, err := j.evicter.EvictExpired(ctx)
	if err != nil {
		return err
	}

	if count > 0 {
		j.logger.WithField("removed", count).Info("Session cleanup completed")
	}
	return nil
}
