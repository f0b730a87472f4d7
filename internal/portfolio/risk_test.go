package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewParametricRisk(t *testing.T) {
	r := NewParametricRisk(0, 0.2, 0.95)

	assert.Equal(t, 0.95, r.Confidence)
	assert.InDelta(t, 1.644854*0.2, r.VaR, 1e-5)
	assert.InDelta(t, 0.2*0.103136/0.05, r.CVaR, 1e-4)
	assert.Greater(t, r.CVaR, r.VaR)
}

func TestNewParametricRisk_FlooredAtZero(t *testing.T) {
	// 기대수익이 충분히 크면 손실 없음
	r := NewParametricRisk(1.0, 0.1, 0.95)

	assert.Zero(t, r.VaR)
	assert.Zero(t, r.CVaR)
}

func TestNewParametricRisk_HigherConfidenceLargerLoss(t *testing.T) {
	r95 := NewParametricRisk(0.05, 0.2, 0.95)
	r99 := NewParametricRisk(0.05, 0.2, 0.99)

	assert.Greater(t, r99.VaR, r95.VaR)
	assert.Greater(t, r99.CVaR, r95.CVaR)
}
