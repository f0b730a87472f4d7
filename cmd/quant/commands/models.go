package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/finlab/backend/internal/api/handlers"
)

// modelsCmd represents the models command
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "모델 카탈로그 출력",
	Long: `GET /api/models와 같은 정적 모델 목록을 출력합니다.

Example:
  go run ./cmd/quant models
  go run ./cmd/quant models --json`,
	RunE: runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	if jsonOut {
		return PrintJSON(handlers.Catalog)
	}

	widths := []int{14, 22, 18, 11}
	PrintTableHeader([]string{"ID", "Name", "Category", "Output"}, widths)
	for _, m := range handlers.Catalog {
		PrintTableRow([]string{m.ID, m.Name, m.Category, m.OutputType}, widths)
	}
	PrintSeparator()
	for _, m := range handlers.Catalog {
		PrintKeyValue(m.ID, strings.Join(m.InputFeatures, ", "), 14)
	}
	return nil
}
