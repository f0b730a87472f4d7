package commands

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/finlab/backend/internal/montecarlo"
	"github.com/wonny/finlab/backend/pkg/httputil"
)

// sessionsCmd represents the sessions command
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "저장된 시뮬레이션 결과 관리",
	Long: `API 서버(--server)의 세션 저장소에 있는 결과를 조회/삭제합니다.

Subcommands:
  list          - 결과 목록
  get [id]      - 결과 상세
  delete [id]   - 결과 삭제

Example:
  go run ./cmd/quant sessions list
  go run ./cmd/quant sessions get mc_1700000000000_a1b2c3d4e --server http://localhost:8080`,
}

var (
	sessionsListCmd = &cobra.Command{
		Use:   "list",
		Short: "결과 목록",
		RunE:  listSessions,
	}

	sessionsGetCmd = &cobra.Command{
		Use:   "get [id]",
		Short: "결과 상세",
		Args:  cobra.ExactArgs(1),
		RunE:  getSession,
	}

	sessionsDeleteCmd = &cobra.Command{
		Use:   "delete [id]",
		Short: "결과 삭제",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteSession,
	}
)

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsGetCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
}

func sessionsContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func listSessions(cmd *cobra.Command, args []string) error {
	ctx, cancel := sessionsContext()
	defer cancel()

	var results []montecarlo.SimulationResult
	if err := httputil.New(serverURL, nil).GetJSON(ctx, "/api/simulate", &results); err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if jsonOut {
		return PrintJSON(results)
	}
	if len(results) == 0 {
		PrintInfo("No stored simulations")
		return nil
	}

	widths := []int{30, 20, 10, 14, 12, 19}
	PrintTableHeader([]string{"ID", "Type", "Iter", "Expected", "VaR", "Timestamp"}, widths)
	for _, r := range results {
		PrintTableRow([]string{
			r.ID,
			string(r.Config.SimulationType),
			fmt.Sprintf("%d", r.Config.Iterations),
			FormatMoney(r.Results.ExpectedValue),
			FormatMoney(r.Results.VaR),
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
		}, widths)
	}
	fmt.Printf("\n%d simulation(s)\n", len(results))
	return nil
}

func getSession(cmd *cobra.Command, args []string) error {
	ctx, cancel := sessionsContext()
	defer cancel()

	var result montecarlo.SimulationResult
	err := httputil.New(serverURL, nil).GetJSON(ctx, "/api/simulate/"+args[0], &result)
	if httputil.IsStatus(err, http.StatusNotFound) {
		return fmt.Errorf("simulation %s not found", args[0])
	}
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}

	if jsonOut {
		return PrintJSON(result)
	}
	PrintSimulationReport(&result)
	return nil
}

func deleteSession(cmd *cobra.Command, args []string) error {
	ctx, cancel := sessionsContext()
	defer cancel()

	err := httputil.New(serverURL, nil).Delete(ctx, "/api/simulate/"+args[0])
	if httputil.IsStatus(err, http.StatusNotFound) {
		return fmt.Errorf("simulation %s not found", args[0])
	}
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	PrintSuccess(fmt.Sprintf("Deleted %s", args[0]))
	return nil
}
