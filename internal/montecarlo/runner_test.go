package montecarlo

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner(workers int) *Runner {
	return NewRunner(RunnerConfig{Workers: workers, SamplePaths: DefaultSamplePaths}, nil)
}

func TestRunner_Run(t *testing.T) {
	cfg := baseConfig(TypeGeometricBrownian)
	cfg.TimeHorizon = 10
	cfg.ExpectedReturn = 0.08
	cfg.Seed = 2024

	result, err := newTestRunner(4).Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.ID, "mc_"))
	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, cfg, result.Config)
	assert.False(t, result.Timestamp.IsZero())
	assert.GreaterOrEqual(t, result.Duration, int64(0))

	m := result.Results
	require.Len(t, m.FinalValues, cfg.Iterations)
	assert.True(t, sort.Float64sAreSorted(m.FinalValues))
	assert.InEpsilon(t, 100.0, m.ExpectedValue, 0.3)
	assert.LessOrEqual(t, m.Percentiles["p25"], m.Percentiles["p50"])
	assert.LessOrEqual(t, m.Percentiles["p50"], m.Percentiles["p75"])
	assert.GreaterOrEqual(t, m.CVaR, m.VaR)
	assert.GreaterOrEqual(t, m.PathMaxDrawdown, 0.0)

	losses := 0
	for _, v := range m.FinalValues {
		if v < cfg.InitialValue {
			losses++
		}
	}
	assert.Equal(t, float64(losses)/float64(cfg.Iterations), m.ProbabilityOfLoss)

	require.Len(t, result.Paths, DefaultSamplePaths)
	for _, p := range result.Paths {
		assert.Len(t, p, cfg.TimeHorizon+1)
	}
}

func TestRunner_SeedIsReproducible(t *testing.T) {
	cfg := baseConfig(TypeJumpDiffusion)
	cfg.TimeHorizon = 30
	cfg.Seed = 77

	a, err := newTestRunner(3).Run(context.Background(), cfg)
	require.NoError(t, err)
	b, err := newTestRunner(3).Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Results.FinalValues, b.Results.FinalValues)
	assert.Equal(t, a.Paths, b.Paths)
}

func TestRunner_MoreWorkersThanIterations(t *testing.T) {
	cfg := baseConfig(TypeMeanReversion)
	cfg.Iterations = 3
	cfg.TimeHorizon = 5

	result, err := newTestRunner(16).Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Len(t, result.Results.FinalValues, 3)
}

func TestRunner_RejectsInvalidConfig(t *testing.T) {
	cfg := baseConfig(TypeGeometricBrownian)
	cfg.Volatility = -0.1

	_, err := newTestRunner(1).Run(context.Background(), cfg)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "volatility", verr.Field)
}

func TestRunner_RejectsOverflowingResult(t *testing.T) {
	cfg := baseConfig(TypeGeometricBrownian)
	cfg.ExpectedReturn = 1e300
	cfg.TimeHorizon = 1000
	cfg.Iterations = 50
	cfg.Seed = 42

	result, err := newTestRunner(2).Run(context.Background(), cfg)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "expectedReturn", verr.Field)
	assert.Contains(t, verr.Message, "non-finite")
}

func TestCheckFinite(t *testing.T) {
	m := Metrics{Percentiles: map[string]float64{"p50": 100}}
	assert.NoError(t, checkFinite([]float64{90, 110}, m, [][]float64{{100, 101}}))

	assert.Error(t, checkFinite([]float64{90, math.Inf(1)}, m, nil))
	assert.Error(t, checkFinite([]float64{90}, m, [][]float64{{100, math.NaN()}}))

	bad := m
	bad.SharpeRatio = math.NaN()
	assert.Error(t, checkFinite([]float64{90}, bad, nil))

	bad = Metrics{Percentiles: map[string]float64{"p99": math.Inf(1)}}
	assert.Error(t, checkFinite([]float64{90}, bad, nil))
}

func TestRunner_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestRunner(2).Run(ctx, baseConfig(TypeGeometricBrownian))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRunner_Defaults(t *testing.T) {
	r := NewRunner(RunnerConfig{Workers: 0, SamplePaths: -1}, nil)
	assert.Equal(t, 1, r.cfg.Workers)
	assert.Equal(t, 0, r.cfg.SamplePaths)
	assert.NotNil(t, r.logger)
}
