package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/finlab/backend/internal/montecarlo"
	"github.com/wonny/finlab/backend/internal/portfolio"
)

const fullScenario = `
meta:
  name: balanced_2026
  description: 60/40 blend with correlated assets
simulation:
  iterations: 5000
  time_horizon: 252
  initial_value: 100000
  expected_return: 0.07
  volatility: 0.15
  confidence: 0.95
  simulation_type: portfolio
  seed: 42
  assets:
    - symbol: EQUITY
      weight: 0.6
      expected_return: 0.09
      volatility: 0.2
    - symbol: BOND
      weight: 0.4
      expected_return: 0.03
      volatility: 0.05
  correlation:
    - [1.0, -0.2]
    - [-0.2, 1.0]
optimization:
  iterations: 10000
  risk_free_rate: 0.02
  constraint_type: max_sharpe
  assets:
    - symbol: EQUITY
      expected_return: 0.09
      volatility: 0.2
    - symbol: BOND
      expected_return: 0.03
      volatility: 0.05
`

func TestParse_FullScenario(t *testing.T) {
	s, err := Parse([]byte(fullScenario))
	require.NoError(t, err)

	assert.Equal(t, "balanced_2026", s.Meta.Name)

	require.NotNil(t, s.Simulation)
	assert.Equal(t, montecarlo.TypePortfolio, s.Simulation.SimulationType)
	assert.Equal(t, 252, s.Simulation.TimeHorizon)
	assert.Equal(t, int64(42), s.Simulation.Seed)
	require.Len(t, s.Simulation.Assets, 2)
	assert.Equal(t, 0.6, s.Simulation.Assets[0].Weight)
	assert.Equal(t, -0.2, s.Simulation.Correlation[0][1])

	require.NotNil(t, s.Optimization)
	assert.Equal(t, portfolio.ObjectiveMaxSharpe, s.Optimization.ConstraintType)
	assert.Equal(t, 0.02, s.Optimization.RiskFreeRate)
}

func TestParse_UnknownFieldRejected(t *testing.T) {
	_, err := Parse([]byte(`
meta:
  name: typo
simulation:
  iteratons: 5000
`))
	assert.Error(t, err)
}

func TestParse_ValidationErrors(t *testing.T) {
	_, err := Parse([]byte("meta:\n  name: empty\n"))
	assert.ErrorIs(t, err, montecarlo.ErrInvalidConfig)

	_, err = Parse([]byte(`
meta:
  name: bad_confidence
simulation:
  iterations: 5000
  time_horizon: 10
  initial_value: 100
  expected_return: 0.05
  volatility: 0.2
  confidence: 0.5
  simulation_type: geometric_brownian
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, montecarlo.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "simulation.confidence")
}

func TestLoadAndHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullScenario), 0o644))

	s, raw, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, fullScenario, string(raw))

	h1, err := Hash(s)
	require.NoError(t, err)
	assert.Len(t, h1, 64)

	again, err := Parse(raw)
	require.NoError(t, err)
	h2, err := Hash(again)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	_, _, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
