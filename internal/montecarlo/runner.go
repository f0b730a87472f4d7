package montecarlo

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/wonny/finlab/backend/pkg/logger"
)

// cancelCheckInterval 워커가 ctx를 확인하는 경로 간격
const cancelCheckInterval = 64

// RunnerConfig 실행기 튜닝
type RunnerConfig struct {
	Workers     int // 병렬 워커 수 (<= 0 이면 1)
	SamplePaths int // 시각화용 샘플 경로 수
}

// DefaultRunnerConfig CPU 수만큼 워커, 샘플 경로 10개
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Workers:     runtime.NumCPU(),
		SamplePaths: DefaultSamplePaths,
	}
}

// Runner Monte Carlo 실행기
// 상태가 없으므로 여러 요청에서 동시에 사용 가능
type Runner struct {
	cfg    RunnerConfig
	logger *logger.Logger
}

// NewRunner 새 실행기 생성
func NewRunner(cfg RunnerConfig, log *logger.Logger) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.SamplePaths < 0 {
		cfg.SamplePaths = 0
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{
		cfg:    cfg,
		logger: log.WithComponent("montecarlo"),
	}
}

// Run 경로 N개 생성 → 종가 정렬 → 통계 계산
// 결과는 ID, 타임스탬프, 소요 시간까지 채워서 반환. 저장은 호출자 책임
func (r *Runner) Run(ctx context.Context, cfg SimulationConfig) (*SimulationResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	seed := cfg.Seed
	if seed == 0 {
		seed = start.UnixNano()
	}

	base, err := NewPathSimulator(cfg, seed)
	if err != nil {
		return nil, err
	}

	finals, drawdowns, err := r.simulate(ctx, base, cfg, seed)
	if err != nil {
		return nil, err
	}

	sort.Float64s(finals)
	metrics := ComputeMetrics(finals, cfg.InitialValue, cfg.Confidence)
	metrics.PathMaxDrawdown = stat.Mean(drawdowns, nil)

	// 샘플 경로는 통계와 별개의 난수열
	paths := make([][]float64, r.cfg.SamplePaths)
	for i := range paths {
		paths[i] = base.Generate()
	}

	// 입력은 유한해도 경로가 오버플로할 수 있음. 저장/직렬화 전에 차단
	if err := checkFinite(finals, metrics, paths); err != nil {
		return nil, err
	}

	duration := time.Since(start)
	result := &SimulationResult{
		ID:        NewSimulationID(start),
		Status:    StatusCompleted,
		Config:    cfg,
		Results:   metrics,
		Paths:     paths,
		Timestamp: start,
		Duration:  duration.Milliseconds(),
	}

	r.logger.WithFields(map[string]interface{}{
		"simulation_id": result.ID,
		"type":          cfg.SimulationType,
		"iterations":    cfg.Iterations,
		"time_horizon":  cfg.TimeHorizon,
		"duration_ms":   result.Duration,
	}).Debug("Simulation completed")

	return result, nil
}

// simulate 반복 구간을 워커에 나눠 실행
// 워커 w는 seed+w+1로 시드된 독립 rng 사용. 같은 seed/워커 수면 결과 동일
func (r *Runner) simulate(ctx context.Context, base *PathSimulator, cfg SimulationConfig, seed int64) ([]float64, []float64, error) {
	n := cfg.Iterations
	finals := make([]float64, n)
	drawdowns := make([]float64, n)

	workers := min(r.cfg.Workers, n)
	chunk := (n + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, n)
		if lo >= hi {
			break
		}

		sim := base.Fork(seed + int64(w) + 1)
		g.Go(func() error {
			buf := make([]float64, cfg.TimeHorizon+1)
			for i := lo; i < hi; i++ {
				if (i-lo)%cancelCheckInterval == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				sim.generateInto(buf)
				finals[i] = buf[cfg.TimeHorizon]
				drawdowns[i] = PathDrawdown(buf)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("simulation aborted: %w", err)
	}
	return finals, drawdowns, nil
}

// checkFinite 종가, 통계, 샘플 경로에 NaN/Inf가 있으면 검증 오류 반환
func checkFinite(finals []float64, m Metrics, paths [][]float64) error {
	overflow := invalid("expectedReturn", "simulation produced non-finite values")

	for _, v := range finals {
		if !finite(v) {
			return overflow
		}
	}
	for _, p := range paths {
		for _, v := range p {
			if !finite(v) {
				return overflow
			}
		}
	}

	scalars := []float64{
		m.VaR, m.CVaR, m.SharpeRatio, m.MaxDrawdown, m.PathMaxDrawdown,
		m.ProbabilityOfLoss, m.ExpectedValue, m.StandardDeviation,
	}
	for _, v := range scalars {
		if !finite(v) {
			return overflow
		}
	}
	for _, v := range m.Percentiles {
		if !finite(v) {
			return overflow
		}
	}
	return nil
}
