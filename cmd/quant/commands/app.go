package commands

import (
	"context"
	"fmt"

	"github.com/wonny/finlab/backend/internal/montecarlo"
	"github.com/wonny/finlab/backend/internal/portfolio"
	"github.com/wonny/finlab/backend/internal/realtime"
	"github.com/wonny/finlab/backend/internal/scheduler"
	"github.com/wonny/finlab/backend/internal/scheduler/jobs"
	"github.com/wonny/finlab/backend/internal/session"
	"github.com/wonny/finlab/backend/internal/simulation"
	"github.com/wonny/finlab/backend/pkg/config"
	"github.com/wonny/finlab/backend/pkg/logger"
)

// app 서버/CLI 공통 의존성
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	store session.Store
	hub   *realtime.Hub
	svc   *simulation.Service
}

// newApp wires store → runner/optimizer → service
func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	store, err := session.New(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("init session store: %w", err)
	}

	runner := montecarlo.NewRunner(montecarlo.RunnerConfig{
		Workers:     cfg.Simulation.Workers,
		SamplePaths: cfg.Simulation.SamplePaths,
	}, log)
	optimizer := portfolio.NewOptimizer(log)
	hub := realtime.NewHub(log)

	return &app{
		cfg:   cfg,
		log:   log,
		store: store,
		hub:   hub,
		svc:   simulation.NewService(runner, optimizer, store, hub, log),
	}, nil
}

// newScheduler registers the background jobs
func (a *app) newScheduler() (*scheduler.Scheduler, error) {
	sched := scheduler.New(scheduler.DefaultOptions(), a.log)
	if err := sched.AddJob(jobs.NewSessionCleanupJob(a.svc, a.cfg.Session.CleanupSchedule, a.log)); err != nil {
		return nil, fmt.Errorf("register session cleanup: %w", err)
	}
	return sched, nil
}

// Close releases the hub and store
func (a *app) Close() {
	a.hub.Close()
	if err := a.store.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close session store")
	}
}
