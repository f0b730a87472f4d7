package commands

import (
	"github.com/spf13/cobra"

	"github.com/wonny/finlab/backend/pkg/config"
	"github.com/wonny/finlab/backend/pkg/logger"
)

var (
	// Global flags
	serverURL string
	verbose   bool
	jsonOut   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quant",
	Short: "finlab - Monte Carlo 시뮬레이션 & 포트폴리오 최적화",
	Long: `finlab Unified CLI

Monte Carlo 경로 시뮬레이션, 랜덤 탐색 포트폴리오 최적화,
결과 세션 저장소를 HTTP API와 CLI로 제공합니다.

Usage:
  go run ./cmd/quant [command]

Examples:
  go run ./cmd/quant api
  go run ./cmd/quant simulate --file scenarios/gbm.yaml
  go run ./cmd/quant optimize --file scenarios/portfolio.yaml
  go run ./cmd/quant sessions list --server http://localhost:8080`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "API 서버 주소 (원격 명령용)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "JSON으로 출력")
}

// loadConfig loads config and applies global flag overrides
func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, logger.New(cfg), nil
}
