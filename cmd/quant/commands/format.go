package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/finlab/backend/internal/montecarlo"
	"github.com/wonny/finlab/backend/internal/portfolio"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// 금액/비율은 decimal로 반올림해 float 표기 오차를 숨김
// ═══════════════════════════════════════════════════════════

var hundred = decimal.NewFromInt(100)

// FormatMoney 소수 둘째 자리 금액 (1234.5 → "1,234.50")
func FormatMoney(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	s := d.StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return sign + b.String() + frac
}

// FormatPercent 비율을 퍼센트로 (0.1234 → "12.34%")
func FormatPercent(v float64) string {
	return decimal.NewFromFloat(v).Mul(hundred).StringFixed(2) + "%"
}

// FormatRatio 소수 넷째 자리
func FormatRatio(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(4)
}

// PrintJSON prints v as indented JSON
func PrintJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintSimulationReport 시뮬레이션 결과 요약
func PrintSimulationReport(r *montecarlo.SimulationResult) {
	c := r.Config
	m := r.Results

	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  Monte Carlo Simulation (%s)\n", c.SimulationType)
	PrintSeparator()
	PrintKeyValue("ID", r.ID, 18)
	PrintKeyValue("Status", string(r.Status), 18)
	PrintKeyValue("Iterations", fmt.Sprintf("%d", c.Iterations), 18)
	PrintKeyValue("Time horizon", fmt.Sprintf("%d steps", c.TimeHorizon), 18)
	PrintKeyValue("Initial value", FormatMoney(c.InitialValue), 18)
	PrintKeyValue("Duration", (time.Duration(r.Duration) * time.Millisecond).String(), 18)
	PrintSeparator()
	PrintKeyValue("Expected value", FormatMoney(m.ExpectedValue), 18)
	PrintKeyValue("Std deviation", FormatMoney(m.StandardDeviation), 18)
	PrintKeyValue(fmt.Sprintf("VaR (%s)", FormatPercent(c.Confidence)), FormatMoney(m.VaR), 18)
	PrintKeyValue("CVaR", FormatMoney(m.CVaR), 18)
	PrintKeyValue("Sharpe ratio", FormatRatio(m.SharpeRatio), 18)
	PrintKeyValue("Max drawdown", FormatPercent(m.MaxDrawdown), 18)
	PrintKeyValue("Path drawdown", FormatPercent(m.PathMaxDrawdown), 18)
	PrintKeyValue("P(loss)", FormatPercent(m.ProbabilityOfLoss), 18)
	PrintSeparator()

	widths := []int{6, 14}
	PrintTableHeader([]string{"Pct", "Value"}, widths)
	for _, p := range montecarlo.PercentilePoints {
		key := fmt.Sprintf("p%d", p)
		PrintTableRow([]string{key, FormatMoney(m.Percentiles[key])}, widths)
	}
	PrintDoubleSeparator()
}

// PrintOptimizationReport 최적화 결과 요약
func PrintOptimizationReport(objective portfolio.ObjectiveType, r *portfolio.OptimizationResult) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  Portfolio Optimization (%s)\n", objective)
	PrintSeparator()

	widths := []int{12, 10}
	PrintTableHeader([]string{"Symbol", "Weight"}, widths)
	for i, w := range r.Weights {
		symbol := fmt.Sprintf("#%d", i+1)
		if i < len(r.Symbols) && r.Symbols[i] != "" {
			symbol = r.Symbols[i]
		}
		PrintTableRow([]string{symbol, FormatPercent(w)}, widths)
	}

	PrintSeparator()
	PrintKeyValue("Expected return", FormatPercent(r.ExpectedReturn), 18)
	PrintKeyValue("Volatility", FormatPercent(r.Volatility), 18)
	PrintKeyValue("Sharpe ratio", FormatRatio(r.SharpeRatio), 18)
	PrintKeyValue("Diversification", FormatRatio(r.DiversificationRatio), 18)
	PrintKeyValue(fmt.Sprintf("VaR (%s)", FormatPercent(r.Risk.Confidence)), FormatPercent(r.Risk.VaR), 18)
	PrintKeyValue("CVaR", FormatPercent(r.Risk.CVaR), 18)
	PrintDoubleSeparator()
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Println()
	fmt.Printf("⚠️  %s\n", message)
	fmt.Println()
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Printf("ℹ️  %s\n", message)
}

// PrintTableHeader prints a table header
func PrintTableHeader(columns []string, widths []int) {
	PrintTableRow(columns, widths)

	// Separator line
	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Println(strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row
func PrintTableRow(values []string, widths []int) {
	for i, val := range values {
		fmt.Printf("%-*s", widths[i], val)
		if i < len(values)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()
}

// PrintList prints a bulleted list
func PrintList(items []string) {
	for _, item := range items {
		fmt.Printf("   • %s\n", item)
	}
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Printf("   %-*s : %s\n", keyWidth, key, value)
}
