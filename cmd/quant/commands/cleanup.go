package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/finlab/backend/pkg/config"
)

// cleanupCmd represents the cleanup command
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "데이터 정리 도구",
	Long: `저장소 정리 작업을 수행합니다.

Example:
  quant cleanup sessions`,
}

var cleanupSessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "만료된 시뮬레이션 결과 삭제",
	Long: `SESSION_TTL이 지난 결과를 세션 저장소에서 삭제합니다.

memory 백엔드는 프로세스 내부 저장소이므로 API 서버의 스케줄러가 정리합니다.
redis 백엔드는 키 TTL로 자동 만료됩니다.

Example:
  SESSION_STORE=postgres quant cleanup sessions`,
	RunE: runCleanupSessions,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
	cleanupCmd.AddCommand(cleanupSessionsCmd)
}

func runCleanupSessions(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Session Cleanup ===")

	cfg, log, err := loadConfig()
	if err != nil {
		return fmt.Errorf("❌ Failed to load config: %w", err)
	}

	if cfg.Session.Backend == config.StoreMemory {
		PrintWarning("memory backend: nothing to clean outside the API server process")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("❌ %w", err)
	}
	defer a.Close()

	before, err := a.svc.StoredCount(ctx)
	if err != nil {
		return fmt.Errorf("❌ Failed to count results: %w", err)
	}
	fmt.Printf("📊 %d stored result(s) in %s (TTL %s)\n", before, cfg.Session.Backend, cfg.Session.TTL)

	removed, err := a.svc.EvictExpired(ctx)
	if err != nil {
		return fmt.Errorf("❌ Failed to evict results: %w", err)
	}

	if removed == 0 {
		PrintSuccess("No expired results")
		return nil
	}
	PrintSuccess(fmt.Sprintf("Removed %d expired result(s)", removed))
	return nil
}
