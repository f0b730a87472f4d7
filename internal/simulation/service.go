package simulation

import (
	"context"
	"fmt"

	"github.com/wonny/finlab/backend/internal/montecarlo"
	"github.com/wonny/finlab/backend/internal/portfolio"
	"github.com/wonny/finlab/backend/internal/realtime"
	"github.com/wonny/finlab/backend/internal/session"
	"github.com/wonny/finlab/backend/pkg/logger"
)

// Service 검증 → 실행 → 저장 → 이벤트 발행
// ⭐ SSOT: 시뮬레이션 실행 흐름은 여기서만
type Service struct {
	runner    *montecarlo.Runner
	optimizer *portfolio.Optimizer
	store     session.Store
	publisher realtime.Publisher
	bounds    montecarlo.Bounds
	logger    *logger.Logger
}

// NewService creates a new simulation service
func NewService(
	runner *montecarlo.Runner,
	optimizer *portfolio.Optimizer,
	store session.Store,
	publisher realtime.Publisher,
	log *logger.Logger,
) *Service {
	if publisher == nil {
		publisher = realtime.NopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		runner:    runner,
		optimizer: optimizer,
		store:     store,
		publisher: publisher,
		bounds:    montecarlo.DefaultBounds(),
		logger:    log.WithComponent("simulation"),
	}
}

// RunSimulation 요청 범위 검증 후 동기 실행, 결과 저장
// 반환 시점에 결과는 이미 조회 가능
func (s *Service) RunSimulation(ctx context.Context, cfg montecarlo.SimulationConfig) (*montecarlo.SimulationResult, error) {
	if err := cfg.ValidateBounds(s.bounds); err != nil {
		return nil, err
	}

	result, err := s.runner.Run(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to store simulation: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"simulation_id": result.ID,
		"type":          cfg.SimulationType,
		"iterations":    cfg.Iterations,
		"duration_ms":   result.Duration,
	}).Info("Simulation stored")

	s.publisher.Publish(realtime.Event{
		Type:         realtime.EventSimulationCompleted,
		SimulationID: result.ID,
		Timestamp:    result.Timestamp,
		Data: realtime.CompletedSummary{
			SimulationType:    string(cfg.SimulationType),
			Iterations:        cfg.Iterations,
			ExpectedValue:     result.Results.ExpectedValue,
			VaR:               result.Results.VaR,
			ProbabilityOfLoss: result.Results.ProbabilityOfLoss,
			Duration:          result.Duration,
		},
	})

	return result, nil
}

// GetSimulation returns a stored result or session.ErrNotFound
func (s *Service) GetSimulation(ctx context.Context, id string) (*montecarlo.SimulationResult, error) {
	return s.store.Get(ctx, id)
}

// ListSimulations returns all live results
func (s *Service) ListSimulations(ctx context.Context) ([]*montecarlo.SimulationResult, error) {
	return s.store.List(ctx)
}

// DeleteSimulation removes a result
func (s *Service) DeleteSimulation(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.publisher.Publish(realtime.Event{
		Type:         realtime.EventSimulationDeleted,
		SimulationID: id,
	})
	return nil
}

// Optimize 요청 범위 검증 후 최적화. 결과는 저장하지 않음
func (s *Service) Optimize(ctx context.Context, cfg portfolio.OptimizationConfig) (*portfolio.OptimizationResult, error) {
	if err := cfg.ValidateBounds(); err != nil {
		return nil, err
	}
	return s.optimizer.Optimize(ctx, cfg)
}

// EvictExpired 만료 결과 정리 (scheduler에서 호출)
func (s *Service) EvictExpired(ctx context.Context) (int, error) {
	count, err := s.store.EvictExpired(ctx)
	if err != nil {
		return 0, err
	}

	if count > 0 {
		s.publisher.Publish(realtime.Event{
			Type: realtime.EventSessionsEvicted,
			Data: map[string]int{"count": count},
		})
	}
	return count, nil
}

// StoredCount returns the number of stored results
func (s *Service) StoredCount(ctx context.Context) (int, error) {
	return s.store.Len(ctx)
}
