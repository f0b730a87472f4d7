package montecarlo

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ValidationError 설정 검증 실패
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is(err, ErrInvalidConfig) match
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate 수치 입력 검증 (NaN/Inf, 음수 변동성, 상관행렬 형태)
// 범위 제한은 ValidateBounds에서 별도로 수행
func (c SimulationConfig) Validate() error {
	if c.Iterations < 1 {
		return invalid("iterations", "must be >= 1, got %d", c.Iterations)
	}
	if c.TimeHorizon < 1 {
		return invalid("timeHorizon", "must be >= 1, got %d", c.TimeHorizon)
	}
	if !finite(c.InitialValue) || c.InitialValue <= 0 {
		return invalid("initialValue", "must be a positive finite number")
	}
	if !finite(c.ExpectedReturn) {
		return invalid("expectedReturn", "must be finite")
	}
	if !finite(c.Volatility) || c.Volatility < 0 {
		return invalid("volatility", "must be a non-negative finite number")
	}
	if !finite(c.Confidence) || c.Confidence <= 0 || c.Confidence >= 1 {
		return invalid("confidence", "must be in (0, 1)")
	}
	if c.SimulationType != "" && !c.SimulationType.Valid() {
		return invalid("simulationType", "unknown type %q", c.SimulationType)
	}

	for i, a := range c.Assets {
		field := fmt.Sprintf("assets[%d]", i)
		if !finite(a.Weight) {
			return invalid(field+".weight", "must be finite")
		}
		if !finite(a.ExpectedReturn) {
			return invalid(field+".expectedReturn", "must be finite")
		}
		if !finite(a.Volatility) || a.Volatility < 0 {
			return invalid(field+".volatility", "must be a non-negative finite number")
		}
	}

	// 상관행렬은 자산 결합에만 쓰임. 단일 자산 모델에서는 무시
	usesAssets := c.SimulationType == TypePortfolio || len(c.Assets) > 0
	if corr := c.CorrelationMatrix(); corr != nil && usesAssets {
		if err := ValidateCorrelation(corr, len(c.Assets)); err != nil {
			return err
		}
	}

	return nil
}

// ValidateCorrelation checks shape, symmetry, unit diagonal and [-1, 1] entries.
// Positive definiteness is checked when the matrix is factorized.
func ValidateCorrelation(corr [][]float64, n int) error {
	if len(corr) != n {
		return invalid("correlation", "expected %dx%d matrix, got %d rows", n, n, len(corr))
	}
	for i := range corr {
		if len(corr[i]) != n {
			return invalid("correlation", "row %d has %d columns, expected %d", i, len(corr[i]), n)
		}
	}
	for i := range corr {
		for j := range corr[i] {
			v := corr[i][j]
			if !finite(v) || v < -1 || v > 1 {
				return invalid("correlation", "entry [%d][%d] must be in [-1, 1]", i, j)
			}
			if i == j && math.Abs(v-1) > 1e-9 {
				return invalid("correlation", "diagonal entry [%d][%d] must be 1", i, i)
			}
			if math.Abs(v-corr[j][i]) > 1e-9 {
				return invalid("correlation", "matrix is not symmetric at [%d][%d]", i, j)
			}
		}
	}
	return nil
}

// =============================================================================
// Request bounds (API/CLI boundary)
// =============================================================================

// Bounds 요청 스키마 범위
type Bounds struct {
	MinIterations  int
	MaxIterations  int
	MinTimeHorizon int
	MaxTimeHorizon int
	MinConfidence  float64
	MaxConfidence  float64
}

// DefaultBounds 기본 요청 범위
func DefaultBounds() Bounds {
	return Bounds{
		MinIterations:  1000,
		MaxIterations:  100000,
		MinTimeHorizon: 1,
		MaxTimeHorizon: 1000,
		MinConfidence:  0.9,
		MaxConfidence:  0.99,
	}
}

// ValidateBounds 요청 스키마 검증 + Validate
func (c SimulationConfig) ValidateBounds(b Bounds) error {
	if c.Iterations < b.MinIterations || c.Iterations > b.MaxIterations {
		return invalid("iterations", "must be in [%d, %d], got %d", b.MinIterations, b.MaxIterations, c.Iterations)
	}
	if c.TimeHorizon < b.MinTimeHorizon || c.TimeHorizon > b.MaxTimeHorizon {
		return invalid("timeHorizon", "must be in [%d, %d], got %d", b.MinTimeHorizon, b.MaxTimeHorizon, c.TimeHorizon)
	}
	if c.Confidence < b.MinConfidence || c.Confidence > b.MaxConfidence {
		return invalid("confidence", "must be in [%.2f, %.2f], got %v", b.MinConfidence, b.MaxConfidence, c.Confidence)
	}
	if !c.SimulationType.Valid() {
		return invalid("simulationType", "must be one of geometric_brownian, jump_diffusion, mean_reversion, portfolio")
	}
	if c.Volatility <= 0 {
		return invalid("volatility", "must be > 0")
	}
	for i, a := range c.Assets {
		if a.Volatility <= 0 {
			return invalid(fmt.Sprintf("assets[%d].volatility", i), "must be > 0")
		}
	}

	return c.Validate()
}
