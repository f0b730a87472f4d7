package portfolio

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultRiskConfidence 최적 포트폴리오 위험 지표 신뢰수준
const DefaultRiskConfidence = 0.95

// ParametricRisk 정규분포 가정 연간 VaR/CVaR
// ⭐ SSOT: 손실을 양수로 표현 (VaR=0.12 → 95% 신뢰수준에서 최대 12% 손실)
type ParametricRisk struct {
	Confidence float64 `json:"confidence"`
	VaR        float64 `json:"var"`
	CVaR       float64 `json:"cvar"`
}

// NewParametricRisk VaR = -μ + zσ, CVaR = -μ + σφ(z)/(1-c), 둘 다 0 하한
func NewParametricRisk(mean, stdDev, confidence float64) ParametricRisk {
	z := distuv.UnitNormal.Quantile(confidence)
	phi := distuv.UnitNormal.Prob(z)

	return ParametricRisk{
		Confidence: confidence,
		VaR:        math.Max(0, -mean+z*stdDev),
		CVaR:       math.Max(0, -mean+stdDev*phi/(1-confidence)),
	}
}
