package montecarlo

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulationConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *SimulationConfig)
		field  string
	}{
		{"valid", func(c *SimulationConfig) {}, ""},
		{"zero iterations", func(c *SimulationConfig) { c.Iterations = 0 }, "iterations"},
		{"zero horizon", func(c *SimulationConfig) { c.TimeHorizon = 0 }, "timeHorizon"},
		{"NaN initial value", func(c *SimulationConfig) { c.InitialValue = math.NaN() }, "initialValue"},
		{"Inf return", func(c *SimulationConfig) { c.ExpectedReturn = math.Inf(1) }, "expectedReturn"},
		{"negative volatility", func(c *SimulationConfig) { c.Volatility = -1 }, "volatility"},
		{"confidence one", func(c *SimulationConfig) { c.Confidence = 1 }, "confidence"},
		{"unknown type", func(c *SimulationConfig) { c.SimulationType = "heston" }, "simulationType"},
		{"NaN asset weight", func(c *SimulationConfig) {
			c.Assets = []AssetConfig{{Weight: math.NaN(), Volatility: 0.1}}
		}, "assets[0].weight"},
		{"correlation ignored without assets", func(c *SimulationConfig) {
			c.Correlation = [][]float64{{1}}
		}, ""},
		{"portfolio correlation without assets", func(c *SimulationConfig) {
			c.SimulationType = TypePortfolio
			c.Correlation = [][]float64{{1}}
		}, "correlation"},
		{"bad correlation shape", func(c *SimulationConfig) {
			c.Assets = []AssetConfig{{Weight: 1, Volatility: 0.1}, {Weight: 1, Volatility: 0.1}}
			c.Correlation = [][]float64{{1}}
		}, "correlation"},
		{"asymmetric correlation", func(c *SimulationConfig) {
			c.Assets = []AssetConfig{{Weight: 1, Volatility: 0.1}, {Weight: 1, Volatility: 0.1}}
			c.Correlation = [][]float64{{1, 0.2}, {0.3, 1}}
		}, "correlation"},
		{"ragged correlation", func(c *SimulationConfig) {
			c.Assets = []AssetConfig{{Weight: 1, Volatility: 0.1}, {Weight: 1, Volatility: 0.1}}
			c.Correlation = [][]float64{{1, 0.2}, {0.2}}
		}, "correlation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig(TypeGeometricBrownian)
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestSimulationConfig_ValidateBounds(t *testing.T) {
	b := DefaultBounds()

	cfg := baseConfig(TypeGeometricBrownian)
	assert.NoError(t, cfg.ValidateBounds(b))

	cfg.Iterations = 999
	assert.ErrorIs(t, cfg.ValidateBounds(b), ErrInvalidConfig)

	cfg = baseConfig(TypeGeometricBrownian)
	cfg.Volatility = 0
	assert.Error(t, cfg.ValidateBounds(b))

	cfg = baseConfig(TypeGeometricBrownian)
	cfg.Confidence = 0.5
	assert.Error(t, cfg.ValidateBounds(b))

	cfg = baseConfig("")
	assert.Error(t, cfg.ValidateBounds(b), "type is required at the request boundary")

	cfg = baseConfig(TypePortfolio)
	cfg.Assets = []AssetConfig{{Symbol: "A", Weight: 1, Volatility: 0}}
	assert.Error(t, cfg.ValidateBounds(b))
}
