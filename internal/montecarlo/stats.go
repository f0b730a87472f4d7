package montecarlo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// =============================================================================
// Distribution statistics
// 모든 함수는 오름차순 정렬된 종가 슬라이스를 입력으로 받음
// =============================================================================

// Percentiles 백분위수 (인덱스 floor(p/100*(n-1)), 보간 없음)
func Percentiles(sorted []float64) map[string]float64 {
	out := make(map[string]float64, len(PercentilePoints))
	n := len(sorted)
	if n == 0 {
		return out
	}

	for _, p := range PercentilePoints {
		idx := int(math.Floor(float64(p) / 100 * float64(n-1)))
		out[fmt.Sprintf("p%d", p)] = sorted[idx]
	}
	return out
}

// tailIndex floor((1-confidence)*n), [0, n-1] 범위로 제한
func tailIndex(n int, confidence float64) int {
	idx := int(math.Floor((1 - confidence) * float64(n)))
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}

// ValueAtRisk sorted[0] - sorted[idx]
// 최악 시나리오 기준이라 항상 <= 0 (부호 유지)
func ValueAtRisk(sorted []float64, confidence float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := tailIndex(len(sorted), confidence)
	return sorted[0] - sorted[idx]
}

// ConditionalVaR sorted[0] - mean(sorted[0..idx]), idx 포함
func ConditionalVaR(sorted []float64, confidence float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := tailIndex(len(sorted), confidence)
	return sorted[0] - stat.Mean(sorted[:idx+1], nil)
}

// SimpleReturns (v - initial) / initial
func SimpleReturns(values []float64, initial float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - initial) / initial
	}
	return out
}

// SharpeRatio 단순 수익률 기준 (mean - rf) / std, std == 0이면 0
func SharpeRatio(returns []float64) float64 {
	mean, std := meanStd(returns)
	if std <= 0 {
		return 0
	}
	return (mean - RiskFreeRate) / std
}

// SortedMaxDrawdown 수익률 시퀀스에 대한 peak - ret 최대값
// 고점 초기값 0. 정렬된 종가를 넣으면 시간 순서가 아닌 결과 분산을 측정
func SortedMaxDrawdown(returns []float64) float64 {
	peak := 0.0
	maxDD := 0.0
	for _, r := range returns {
		if r > peak {
			peak = r
		}
		if dd := peak - r; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// ProbabilityOfLoss count(v < initial) / n
func ProbabilityOfLoss(values []float64, initial float64) float64 {
	if len(values) == 0 {
		return 0
	}
	losses := 0
	for _, v := range values {
		if v < initial {
			losses++
		}
	}
	return float64(losses) / float64(len(values))
}

// meanStd 평균과 모표준편차
func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}

// ComputeMetrics 정렬된 종가로 전체 통계 계산
// PathMaxDrawdown은 경로 정보가 필요하므로 Runner에서 채움
func ComputeMetrics(sorted []float64, initialValue, confidence float64) Metrics {
	mean, std := meanStd(sorted)
	returns := SimpleReturns(sorted, initialValue)

	return Metrics{
		FinalValues:       sorted,
		Percentiles:       Percentiles(sorted),
		VaR:               ValueAtRisk(sorted, confidence),
		CVaR:              ConditionalVaR(sorted, confidence),
		SharpeRatio:       SharpeRatio(returns),
		MaxDrawdown:       SortedMaxDrawdown(returns),
		ProbabilityOfLoss: ProbabilityOfLoss(sorted, initialValue),
		ExpectedValue:     mean,
		StandardDeviation: std,
	}
}
