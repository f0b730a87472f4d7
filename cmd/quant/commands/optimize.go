package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/finlab/backend/internal/montecarlo"
	"github.com/wonny/finlab/backend/internal/portfolio"
	"github.com/wonny/finlab/backend/internal/scenario"
)

// optimizeCmd represents the optimize command
var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "포트폴리오 비중 최적화",
	Long: `랜덤 탐색으로 포트폴리오 비중을 최적화합니다.

자산은 시나리오 파일(--file)의 optimization 섹션 또는
--asset SYMBOL:RETURN:VOLATILITY 플래그(반복)로 지정합니다.

Objectives:
  min_variance  - 변동성 최소화
  max_sharpe    - Sharpe 최대화 (target_return, risk_parity도 동일하게 처리)

Example:
  go run ./cmd/quant optimize --file scenarios/portfolio.yaml
  go run ./cmd/quant optimize --asset BOND:0.04:0.06 --asset EQUITY:0.09:0.18 --objective min_variance`,
	RunE: runOptimize,
}

var (
	optFile       string
	optRemote     bool
	optAssets     []string
	optObjective  string
	optIterations int
	optRiskFree   float64
	optSeed       int64
)

func init() {
	rootCmd.AddCommand(optimizeCmd)

	f := optimizeCmd.Flags()
	f.StringVarP(&optFile, "file", "f", "", "시나리오 YAML 파일")
	f.BoolVar(&optRemote, "remote", false, "API 서버에서 실행 (--server)")
	f.StringArrayVar(&optAssets, "asset", nil, "자산 SYMBOL:RETURN:VOLATILITY (반복 가능)")
	f.StringVar(&optObjective, "objective", string(portfolio.ObjectiveMaxSharpe), "목표 함수")
	f.IntVar(&optIterations, "iterations", 10000, "탐색 횟수")
	f.Float64Var(&optRiskFree, "risk-free", 0.02, "무위험 수익률")
	f.Int64Var(&optSeed, "seed", 0, "난수 시드 (0 = 시간 기반)")
}

// parseAssetFlag SYMBOL:RETURN:VOLATILITY
func parseAssetFlag(s string) (montecarlo.AssetConfig, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return montecarlo.AssetConfig{}, fmt.Errorf("invalid --asset %q: want SYMBOL:RETURN:VOLATILITY", s)
	}
	ret, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return montecarlo.AssetConfig{}, fmt.Errorf("invalid return in --asset %q: %w", s, err)
	}
	vol, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return montecarlo.AssetConfig{}, fmt.Errorf("invalid volatility in --asset %q: %w", s, err)
	}
	return montecarlo.AssetConfig{Symbol: parts[0], ExpectedReturn: ret, Volatility: vol}, nil
}

func resolveOptimizationConfig() (portfolio.OptimizationConfig, error) {
	if optFile != "" {
		sc, _, err := scenario.Load(optFile)
		if err != nil {
			return portfolio.OptimizationConfig{}, err
		}
		if sc.Optimization == nil {
			return portfolio.OptimizationConfig{}, fmt.Errorf("scenario %q has no optimization section", optFile)
		}
		return *sc.Optimization, nil
	}

	if len(optAssets) == 0 {
		return portfolio.OptimizationConfig{}, fmt.Errorf("either --file or at least one --asset is required")
	}

	cfg := portfolio.OptimizationConfig{
		RiskFreeRate:   optRiskFree,
		ConstraintType: portfolio.ObjectiveType(optObjective),
		Iterations:     optIterations,
		Seed:           optSeed,
	}
	for _, s := range optAssets {
		a, err := parseAssetFlag(s)
		if err != nil {
			return portfolio.OptimizationConfig{}, err
		}
		cfg.Assets = append(cfg.Assets, a)
	}
	return cfg, nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := resolveOptimizationConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateBounds(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var result *portfolio.OptimizationResult
	if optRemote {
		result, err = optimizeRemote(ctx, cfg)
	} else {
		_, log, lerr := loadConfig()
		if lerr != nil {
			return fmt.Errorf("load config: %w", lerr)
		}
		result, err = portfolio.NewOptimizer(log).Optimize(ctx, cfg)
	}
	if err != nil {
		return err
	}

	if jsonOut {
		return PrintJSON(result)
	}
	PrintOptimizationReport(cfg.ConstraintType, result)
	return nil
}

func optimizeRemote(ctx context.Context, cfg portfolio.OptimizationConfig) (*portfolio.OptimizationResult, error) {
	var result portfolio.OptimizationResult
	if err := submitClient().PostJSON(ctx, "/api/portfolio/optimize", cfg, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
