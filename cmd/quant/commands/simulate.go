package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/finlab/backend/internal/api/handlers"
	"github.com/wonny/finlab/backend/internal/montecarlo"
	"github.com/wonny/finlab/backend/internal/scenario"
	"github.com/wonny/finlab/backend/pkg/httputil"
)

// simulateCmd represents the simulate command
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Monte Carlo 시뮬레이션 실행",
	Long: `Monte Carlo 시뮬레이션을 실행하고 요약 통계를 출력합니다.

설정은 YAML 시나리오 파일(--file) 또는 플래그로 지정합니다.
--remote를 주면 --server의 API로 실행하고 결과를 세션 저장소에 남깁니다.

Example:
  go run ./cmd/quant simulate --file scenarios/gbm.yaml
  go run ./cmd/quant simulate --type jump_diffusion --iterations 20000 --seed 42
  go run ./cmd/quant simulate --file scenarios/gbm.yaml --remote`,
	RunE: runSimulate,
}

var (
	simFile   string
	simRemote bool
	simCfg    montecarlo.SimulationConfig
	simType   string
)

func init() {
	rootCmd.AddCommand(simulateCmd)

	f := simulateCmd.Flags()
	f.StringVarP(&simFile, "file", "f", "", "시나리오 YAML 파일")
	f.BoolVar(&simRemote, "remote", false, "API 서버에서 실행 (--server)")
	f.StringVar(&simType, "type", string(montecarlo.TypeGeometricBrownian), "모델 (geometric_brownian|jump_diffusion|mean_reversion|portfolio)")
	f.IntVar(&simCfg.Iterations, "iterations", 10000, "경로 수")
	f.IntVar(&simCfg.TimeHorizon, "horizon", 252, "스텝 수 (거래일)")
	f.Float64Var(&simCfg.InitialValue, "initial", 100, "초기 값")
	f.Float64Var(&simCfg.ExpectedReturn, "return", 0.08, "연 기대수익률")
	f.Float64Var(&simCfg.Volatility, "volatility", 0.2, "연 변동성")
	f.Float64Var(&simCfg.Confidence, "confidence", 0.95, "VaR 신뢰수준")
	f.Int64Var(&simCfg.Seed, "seed", 0, "난수 시드 (0 = 시간 기반)")
}

// resolveSimulationConfig 파일이 있으면 파일 우선
func resolveSimulationConfig() (montecarlo.SimulationConfig, error) {
	if simFile == "" {
		cfg := simCfg
		cfg.SimulationType = montecarlo.SimulationType(simType)
		return cfg, nil
	}

	sc, _, err := scenario.Load(simFile)
	if err != nil {
		return montecarlo.SimulationConfig{}, err
	}
	if sc.Simulation == nil {
		return montecarlo.SimulationConfig{}, fmt.Errorf("scenario %q has no simulation section", simFile)
	}

	hash, err := scenario.Hash(sc)
	if err != nil {
		return montecarlo.SimulationConfig{}, err
	}
	PrintInfo(fmt.Sprintf("Scenario: %s (sha256 %s)", sc.Meta.Name, hash[:12]))
	return *sc.Simulation, nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := resolveSimulationConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var result *montecarlo.SimulationResult
	if simRemote {
		result, err = simulateRemote(ctx, cfg)
	} else {
		result, err = simulateLocal(ctx, cfg)
	}
	if err != nil {
		return err
	}

	if jsonOut {
		return PrintJSON(result)
	}
	PrintSimulationReport(result)
	return nil
}

func simulateLocal(ctx context.Context, cfg montecarlo.SimulationConfig) (*montecarlo.SimulationResult, error) {
	appCfg, log, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateBounds(montecarlo.DefaultBounds()); err != nil {
		return nil, err
	}

	runner := montecarlo.NewRunner(montecarlo.RunnerConfig{
		Workers:     appCfg.Simulation.Workers,
		SamplePaths: appCfg.Simulation.SamplePaths,
	}, log)
	return runner.Run(ctx, cfg)
}

// submitClient 제출(POST)용 클라이언트. 서버가 매 요청마다 새 결과를 저장하므로 재시도 없음
func submitClient() *httputil.Client {
	return httputil.New(serverURL, nil).DisableRetry()
}

func simulateRemote(ctx context.Context, cfg montecarlo.SimulationConfig) (*montecarlo.SimulationResult, error) {
	client := httputil.New(serverURL, nil)

	var created handlers.CreateResponse
	if err := submitClient().PostJSON(ctx, "/api/simulate", cfg, &created); err != nil {
		return nil, fmt.Errorf("submit simulation: %w", err)
	}
	PrintSuccess(fmt.Sprintf("Simulation %s %s", created.SimulationID, created.Status))

	var result montecarlo.SimulationResult
	if err := client.GetJSON(ctx, "/api/simulate/"+created.SimulationID, &result); err != nil {
		return nil, fmt.Errorf("fetch result: %w", err)
	}
	return &result, nil
}
