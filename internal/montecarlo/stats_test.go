package montecarlo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func oneToHundred() []float64 {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i + 1)
	}
	return values
}

func TestPercentiles(t *testing.T) {
	p := Percentiles(oneToHundred())

	assert.Len(t, p, len(PercentilePoints))
	assert.Equal(t, 1.0, p["p1"])   // floor(0.01*99) = 0
	assert.Equal(t, 50.0, p["p50"]) // floor(0.5*99) = 49
	assert.Equal(t, 99.0, p["p99"]) // floor(0.99*99) = 98
	assert.Empty(t, Percentiles(nil))
}

func TestValueAtRiskAndCVaR(t *testing.T) {
	sorted := oneToHundred()

	// idx = floor(0.05*100) = 5
	assert.InDelta(t, 1.0-6.0, ValueAtRisk(sorted, 0.95), 1e-12)
	// mean(1..6) = 3.5
	assert.InDelta(t, 1.0-3.5, ConditionalVaR(sorted, 0.95), 1e-12)

	// 부호는 기존 결과 형식대로 <= 0, 꼬리 평균이 더 가까움
	assert.GreaterOrEqual(t, ConditionalVaR(sorted, 0.95), ValueAtRisk(sorted, 0.95))
}

func TestValueAtRisk_IndexClamped(t *testing.T) {
	sorted := []float64{1, 2, 3}

	// floor((1-0.0)*3) = 3 → 2로 제한
	assert.Equal(t, 1.0-3.0, ValueAtRisk(sorted, 0.0))
	assert.Equal(t, 0.0, ValueAtRisk(nil, 0.95))
	assert.Equal(t, 0.0, ConditionalVaR(nil, 0.95))
}

func TestSharpeRatio(t *testing.T) {
	assert.Equal(t, 0.0, SharpeRatio([]float64{0.5, 0.5, 0.5}), "zero std")

	// mean 0.1, pop std 0.1
	assert.InDelta(t, (0.1-RiskFreeRate)/0.1, SharpeRatio([]float64{0.0, 0.2}), 1e-12)
}

func TestSortedMaxDrawdown(t *testing.T) {
	assert.InDelta(t, 0.3, SortedMaxDrawdown([]float64{0.1, 0.2, -0.1, 0.3}), 1e-12)
	// 오름차순이면 고점이 0에서 시작하므로 음수 수익률만 낙폭
	assert.InDelta(t, 0.5, SortedMaxDrawdown([]float64{-0.5, -0.2, 0.1}), 1e-12)
	assert.Equal(t, 0.0, SortedMaxDrawdown(nil))
}

func TestProbabilityOfLoss(t *testing.T) {
	assert.Equal(t, 0.25, ProbabilityOfLoss([]float64{90, 100, 110, 120}, 100))
	assert.Equal(t, 0.0, ProbabilityOfLoss(nil, 100))
}

func TestComputeMetrics(t *testing.T) {
	sorted := oneToHundred()
	m := ComputeMetrics(sorted, 50, 0.95)

	assert.Equal(t, sorted, m.FinalValues)
	assert.InDelta(t, 50.5, m.ExpectedValue, 1e-12)
	assert.InDelta(t, 28.86607, m.StandardDeviation, 1e-4)
	assert.Equal(t, 0.49, m.ProbabilityOfLoss)
	assert.LessOrEqual(t, m.Percentiles["p25"], m.Percentiles["p50"])
	assert.LessOrEqual(t, m.Percentiles["p50"], m.Percentiles["p75"])
}
