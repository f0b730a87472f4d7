package montecarlo

import "time"

// =============================================================================
// Simulation Types
// =============================================================================

// SimulationType 경로 생성 모델
type SimulationType string

const (
	TypeGeometricBrownian SimulationType = "geometric_brownian" // 기하 브라운 운동
	TypeJumpDiffusion     SimulationType = "jump_diffusion"     // 점프 확산
	TypeMeanReversion     SimulationType = "mean_reversion"     // 평균 회귀
	TypePortfolio         SimulationType = "portfolio"          // 다자산 가중 합
)

// Valid reports whether t is one of the known simulation models
func (t SimulationType) Valid() bool {
	switch t {
	case TypeGeometricBrownian, TypeJumpDiffusion, TypeMeanReversion, TypePortfolio:
		return true
	}
	return false
}

// Model constants
// ⭐ SSOT: 모델 상수는 여기서만 정의
const (
	TradingDaysPerYear = 252
	RiskFreeRate       = 0.02 // Sharpe 계산용 무위험 수익률

	JumpIntensity      = 0.1   // 연간 점프 빈도
	JumpMean           = -0.05 // 평균 점프 크기
	JumpVolatility     = 0.2   // 점프 크기 변동성
	MeanReversionSpeed = 2.0   // 평균 회귀 속도

	DefaultSamplePaths = 10
)

// PercentilePoints 결과에 기록되는 백분위수
var PercentilePoints = []int{1, 5, 10, 25, 50, 75, 90, 95, 99}

// =============================================================================
// Config
// =============================================================================

// AssetConfig portfolio 모델의 자산별 설정
// Weight는 호출자가 지정하며 합계 1로 정규화하지 않음
type AssetConfig struct {
	Symbol         string      `json:"symbol" yaml:"symbol"`
	Weight         float64     `json:"weight" yaml:"weight"`
	ExpectedReturn float64     `json:"expectedReturn" yaml:"expected_return"`
	Volatility     float64     `json:"volatility" yaml:"volatility"`
	Correlation    [][]float64 `json:"correlation,omitempty" yaml:"correlation,omitempty"`
}

// SimulationConfig Monte Carlo 실행 설정
type SimulationConfig struct {
	Iterations     int            `json:"iterations" yaml:"iterations"`
	TimeHorizon    int            `json:"timeHorizon" yaml:"time_horizon"` // 스텝 수 (거래일)
	InitialValue   float64        `json:"initialValue" yaml:"initial_value"`
	ExpectedReturn float64        `json:"expectedReturn" yaml:"expected_return"` // 연율
	Volatility     float64        `json:"volatility" yaml:"volatility"`          // 연율
	Confidence     float64        `json:"confidence" yaml:"confidence"`
	SimulationType SimulationType `json:"simulationType" yaml:"simulation_type"`
	Assets         []AssetConfig  `json:"assets,omitempty" yaml:"assets,omitempty"`
	Correlation    [][]float64    `json:"correlation,omitempty" yaml:"correlation,omitempty"`
	Seed           int64          `json:"seed,omitempty" yaml:"seed,omitempty"` // 0 = 시간 기반
}

// CorrelationMatrix returns the asset correlation matrix, if any.
// Top-level matrix wins; otherwise the first asset carrying one is used.
func (c SimulationConfig) CorrelationMatrix() [][]float64 {
	if len(c.Correlation) > 0 {
		return c.Correlation
	}
	for _, a := range c.Assets {
		if len(a.Correlation) > 0 {
			return a.Correlation
		}
	}
	return nil
}

// =============================================================================
// Result
// =============================================================================

// Status 결과 상태
type Status string

const (
	StatusCompleted Status = "completed"
)

// Metrics 종가 분포 통계
type Metrics struct {
	FinalValues       []float64          `json:"finalValues"` // 오름차순
	Percentiles       map[string]float64 `json:"percentiles"` // p1 ... p99
	VaR               float64            `json:"var"`
	CVaR              float64            `json:"cvar"`
	SharpeRatio       float64            `json:"sharpeRatio"`
	MaxDrawdown       float64            `json:"maxDrawdown"`     // 정렬된 수익률 기준
	PathMaxDrawdown   float64            `json:"pathMaxDrawdown"` // 경로 내 고점 대비 하락 평균
	ProbabilityOfLoss float64            `json:"probabilityOfLoss"`
	ExpectedValue     float64            `json:"expectedValue"`
	StandardDeviation float64            `json:"standardDeviation"`
}

// SimulationResult 실행 결과
// 생성 후 변경하지 않음. 저장소가 소유
type SimulationResult struct {
	ID        string           `json:"id"`
	Status    Status           `json:"status"`
	Config    SimulationConfig `json:"config"`
	Results   Metrics          `json:"results"`
	Paths     [][]float64      `json:"paths"`
	Timestamp time.Time        `json:"timestamp"`
	Duration  int64            `json:"duration"` // ms
}
