package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/finlab/backend/internal/api/handlers"
	"github.com/wonny/finlab/backend/pkg/httputil"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "API 서버 상태 조회",
	Long: `API 서버(--server)의 /api/health를 조회합니다.

표시 정보:
- 서비스 상태
- 세션 저장소 백엔드와 저장된 결과 수
- WebSocket 연결 수

Example:
  go run ./cmd/quant status
  go run ./cmd/quant status --watch 5s`,
	RunE: runStatus,
}

var (
	// Status flags
	statusWatch time.Duration
)

func init() {
	rootCmd.AddCommand(statusCmd)

	// Flags
	statusCmd.Flags().DurationVar(&statusWatch, "watch", 0, "갱신 간격 (0 = 한 번만)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	client := httputil.New(serverURL, nil).WithTimeout(5 * time.Second)

	if statusWatch <= 0 {
		return displayStatus(client)
	}

	fmt.Printf("Refresh: %v\n", statusWatch)
	fmt.Printf("Press Ctrl+C to stop\n\n")

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(statusWatch)
	defer ticker.Stop()

	// Initial display
	if err := displayStatus(client); err != nil {
		PrintWarning(err.Error())
	}

	for {
		select {
		case <-sigChan:
			fmt.Println("\nStopped")
			return nil
		case <-ticker.C:
			if err := displayStatus(client); err != nil {
				PrintWarning(err.Error())
			}
		}
	}
}

func displayStatus(client *httputil.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var health handlers.HealthResponse
	if err := client.GetJSON(ctx, "/api/health", &health); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	if jsonOut {
		return PrintJSON(health)
	}

	PrintDoubleSeparator()
	fmt.Printf("  %s  (%s)\n", serverURL, health.Timestamp)
	PrintSeparator()
	PrintKeyValue("Status", health.Status, 16)
	PrintKeyValue("Uptime", health.Uptime, 16)
	PrintKeyValue("Session store", health.SessionBackend, 16)
	PrintKeyValue("Stored results", fmt.Sprintf("%d", health.StoredSimulations), 16)
	PrintKeyValue("WS clients", fmt.Sprintf("%d", health.WebSocketClients), 16)
	PrintSeparator()

	names := make([]string, 0, len(health.Services))
	for name := range health.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		PrintKeyValue(name, health.Services[name], 24)
	}
	PrintDoubleSeparator()
	return nil
}
