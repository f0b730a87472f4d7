package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/finlab/backend/internal/api"
	"github.com/wonny/finlab/backend/internal/api/handlers"
	"github.com/wonny/finlab/backend/pkg/config"
	"github.com/wonny/finlab/backend/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 세션 정리 스케줄러 시작
- WebSocket 이벤트 스트림 제공

Endpoints:
  POST   /api/simulate              - 시뮬레이션 실행
  GET    /api/simulate              - 저장된 결과 목록
  GET    /api/simulate/{id}         - 결과 조회
  DELETE /api/simulate/{id}         - 결과 삭제
  POST   /api/portfolio/optimize    - 포트폴리오 최적화
  GET    /api/models                - 모델 카탈로그
  GET    /api/health                - Health check
  GET    /api/ws                    - 이벤트 스트림

Example:
  go run ./cmd/quant api
  go run ./cmd/quant api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT 환경변수)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== finlab API Server ===")

	// 1. Load config
	cfg, log, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	log.WithFields(map[string]interface{}{
		"port":    cfg.Port,
		"env":     cfg.Env,
		"store":   cfg.Session.Backend,
		"workers": cfg.Simulation.Workers,
	}).Info("Initializing API server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 2. Session store, engine, service
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	// 3. Rate limiter (Redis 활성 시 공유 윈도)
	var redisClient *redis.Client
	if cfg.RateLimit.Enabled && cfg.Redis.Enabled {
		redisClient, err = redis.New(ctx, cfg)
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, using local rate limiter")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}
	limiter := api.NewLimiter(cfg, redisClient)

	// 4. Scheduler
	sched, err := a.newScheduler()
	if err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	// 5. Router & server
	router := api.NewRouter(api.RouterDeps{
		Simulations: handlers.NewSimulationHandler(a.svc, log),
		Health:      handlers.NewHealthHandler(a.svc, cfg.Session.Backend, a.hub.Clients),
		Events:      a.hub,
		Limiter:     limiter,
		Logger:      log,
	})
	server := api.New(cfg, log, router)

	// 6. Start server with graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	log.Info("API server started successfully")
	printEndpoints(cfg)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	}

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

func printEndpoints(cfg *config.Config) {
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Printf("   Session store: %s (TTL %s)\n", cfg.Session.Backend, cfg.Session.TTL)
	fmt.Println("\nAvailable endpoints:")
	PrintList([]string{
		"POST   /api/simulate",
		"GET    /api/simulate/{id}",
		"DELETE /api/simulate/{id}",
		"POST   /api/portfolio/optimize",
		"GET    /api/models",
		"GET    /api/health",
		"GET    /api/ws",
	})
	fmt.Println("\nPress Ctrl+C to stop")
}
