package portfolio

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/wonny/finlab/backend/internal/montecarlo"
	"github.com/wonny/finlab/backend/pkg/logger"
)

// 검증 오류는 montecarlo 패키지와 같은 타입을 사용 (API에서 한 번에 매핑)
type ValidationError = montecarlo.ValidationError

var ErrInvalidConfig = montecarlo.ErrInvalidConfig

// ObjectiveType 최적화 목표
type ObjectiveType string

const (
	ObjectiveMinVariance  ObjectiveType = "min_variance"
	ObjectiveMaxSharpe    ObjectiveType = "max_sharpe"
	ObjectiveTargetReturn ObjectiveType = "target_return" // max_sharpe로 처리
	ObjectiveRiskParity   ObjectiveType = "risk_parity"   // max_sharpe로 처리
)

// Valid reports whether o is an accepted objective tag
func (o ObjectiveType) Valid() bool {
	switch o {
	case ObjectiveMinVariance, ObjectiveMaxSharpe, ObjectiveTargetReturn, ObjectiveRiskParity:
		return true
	}
	return false
}

const cancelCheckInterval = 1024

// OptimizationConfig 최적화 요청
// Asset.Weight는 무시됨
type OptimizationConfig struct {
	Assets         []montecarlo.AssetConfig `json:"assets" yaml:"assets"`
	RiskFreeRate   float64                  `json:"riskFreeRate" yaml:"risk_free_rate"`
	TargetReturn   *float64                 `json:"targetReturn,omitempty" yaml:"target_return,omitempty"`
	ConstraintType ObjectiveType            `json:"constraintType" yaml:"constraint_type"`
	Iterations     int                      `json:"iterations" yaml:"iterations"`
	Correlation    [][]float64              `json:"correlation,omitempty" yaml:"correlation,omitempty"`
	Seed           int64                    `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// OptimizationResult 최적 비중과 지표. 저장하지 않음
type OptimizationResult struct {
	Symbols              []string       `json:"symbols"`
	Weights              []float64      `json:"weights"`
	ExpectedReturn       float64        `json:"expectedReturn"`
	Volatility           float64        `json:"volatility"`
	SharpeRatio          float64        `json:"sharpeRatio"`
	DiversificationRatio float64        `json:"diversificationRatio"`
	Risk                 ParametricRisk `json:"risk"` // 정규분포 가정 연간 위험
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate 수치 입력 검증
func (c OptimizationConfig) Validate() error {
	if len(c.Assets) == 0 {
		return invalid("assets", "at least one asset is required")
	}
	if c.Iterations < 1 {
		return invalid("iterations", "must be >= 1, got %d", c.Iterations)
	}
	if !finite(c.RiskFreeRate) {
		return invalid("riskFreeRate", "must be finite")
	}
	if c.TargetReturn != nil && !finite(*c.TargetReturn) {
		return invalid("targetReturn", "must be finite")
	}
	for i, a := range c.Assets {
		if !finite(a.ExpectedReturn) {
			return invalid(fmt.Sprintf("assets[%d].expectedReturn", i), "must be finite")
		}
		if !finite(a.Volatility) || a.Volatility < 0 {
			return invalid(fmt.Sprintf("assets[%d].volatility", i), "must be a non-negative finite number")
		}
	}
	if len(c.Correlation) > 0 {
		if err := montecarlo.ValidateCorrelation(c.Correlation, len(c.Assets)); err != nil {
			return err
		}
	}
	return nil
}

// ValidateBounds 요청 스키마 검증 (iterations 1000..50000, volatility > 0, 목표 enum)
func (c OptimizationConfig) ValidateBounds() error {
	if c.Iterations < 1000 || c.Iterations > 50000 {
		return invalid("iterations", "must be in [1000, 50000], got %d", c.Iterations)
	}
	if !c.ConstraintType.Valid() {
		return invalid("constraintType", "must be one of min_variance, max_sharpe, target_return, risk_parity")
	}
	for i, a := range c.Assets {
		if a.Volatility <= 0 {
			return invalid(fmt.Sprintf("assets[%d].volatility", i), "must be > 0")
		}
	}
	return c.Validate()
}

// Optimizer 랜덤 탐색 기반 비중 최적화
// 수렴 보장 없음. 품질은 iterations에 비례
type Optimizer struct {
	logger *logger.Logger
}

// NewOptimizer creates a new optimizer
func NewOptimizer(log *logger.Logger) *Optimizer {
	if log == nil {
		log = logger.Nop()
	}
	return &Optimizer{logger: log.WithComponent("optimizer")}
}

// Optimize 랜덤 비중 iterations개 중 목표 기준 최적값 선택
func (o *Optimizer) Optimize(ctx context.Context, cfg OptimizationConfig) (*OptimizationResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := newModel(cfg)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	minimize := cfg.ConstraintType == ObjectiveMinVariance
	best := math.Inf(1)
	if !minimize {
		best = math.Inf(-1)
	}

	n := len(cfg.Assets)
	weights := make([]float64, n)
	bestWeights := make([]float64, n)
	found := false

	for i := 0; i < cfg.Iterations; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("optimization aborted: %w", err)
			}
		}

		randomWeights(rng, weights)
		ret, vol := m.evaluate(weights)

		var score float64
		if minimize {
			score = vol
		} else {
			score = sharpe(ret, vol, cfg.RiskFreeRate)
		}

		if (minimize && score < best) || (!minimize && score > best) {
			best = score
			copy(bestWeights, weights)
			found = true
		}
	}

	if !found {
		// 모든 점수가 NaN인 경우만 해당
		equalWeights(bestWeights)
	}

	result := m.result(bestWeights, cfg.RiskFreeRate)

	o.logger.WithFields(map[string]interface{}{
		"objective":  cfg.ConstraintType,
		"assets":     n,
		"iterations": cfg.Iterations,
		"volatility": result.Volatility,
		"sharpe":     result.SharpeRatio,
	}).Debug("Optimization completed")

	return result, nil
}

// randomWeights uniform[0,1] 후 합계 1로 정규화
func randomWeights(rng *rand.Rand, w []float64) {
	for i := range w {
		w[i] = rng.Float64()
	}
	sum := floats.Sum(w)
	if sum == 0 {
		equalWeights(w)
		return
	}
	floats.Scale(1/sum, w)
}

func equalWeights(w []float64) {
	for i := range w {
		w[i] = 1 / float64(len(w))
	}
}

func sharpe(ret, vol, rf float64) float64 {
	if vol > 0 {
		return (ret - rf) / vol
	}
	return 0
}

// model 자산 수익률/변동성 벡터와 공분산 행렬
type model struct {
	symbols []string
	returns []float64
	vols    []float64
	cov     *mat.SymDense // nil = 상관 없음 (Σ w²σ²)
}

func newModel(cfg OptimizationConfig) *model {
	n := len(cfg.Assets)
	m := &model{
		symbols: make([]string, n),
		returns: make([]float64, n),
		vols:    make([]float64, n),
	}
	for i, a := range cfg.Assets {
		m.symbols[i] = a.Symbol
		m.returns[i] = a.ExpectedReturn
		m.vols[i] = a.Volatility
	}

	if len(cfg.Correlation) > 0 {
		cov := mat.NewSymDense(n, nil)
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				cov.SetSym(i, j, m.vols[i]*m.vols[j]*cfg.Correlation[i][j])
			}
		}
		m.cov = cov
	}
	return m
}

// evaluate 기대수익률과 변동성
func (m *model) evaluate(w []float64) (float64, float64) {
	ret := floats.Dot(w, m.returns)

	var variance float64
	if m.cov != nil {
		x := mat.NewVecDense(len(w), w)
		variance = mat.Inner(x, m.cov, x)
	} else {
		for i, wi := range w {
			variance += wi * wi * m.vols[i] * m.vols[i]
		}
	}
	if variance < 0 {
		variance = 0
	}
	return ret, math.Sqrt(variance)
}

func (m *model) result(w []float64, rf float64) *OptimizationResult {
	ret, vol := m.evaluate(w)

	diversification := 1.0
	if vol > 0 {
		diversification = floats.Dot(w, m.vols) / vol
	}

	return &OptimizationResult{
		Symbols:              m.symbols,
		Weights:              w,
		ExpectedReturn:       ret,
		Volatility:           vol,
		SharpeRatio:          sharpe(ret, vol, rf),
		DiversificationRatio: diversification,
		Risk:                 NewParametricRisk(ret, vol, DefaultRiskConfidence),
	}
}
