package montecarlo

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// PathSimulator 단일 경로 생성기
// rng는 goroutine 간 공유 불가. 워커마다 Fork로 분리해서 사용
type PathSimulator struct {
	cfg    SimulationConfig
	dt     float64
	sqrtDt float64
	factor [][]float64 // 상관행렬 Cholesky 하삼각 (nil = 독립)
	rng    *rand.Rand

	assetBuf []float64
	shockBuf []float64
	corrBuf  []float64
}

// NewPathSimulator 새 경로 생성기
// portfolio 모델에 상관행렬이 있으면 Cholesky 분해를 미리 수행
func NewPathSimulator(cfg SimulationConfig, seed int64) (*PathSimulator, error) {
	dt := 1.0 / TradingDaysPerYear
	p := &PathSimulator{
		cfg:    cfg,
		dt:     dt,
		sqrtDt: math.Sqrt(dt),
		rng:    rand.New(rand.NewSource(seed)),
	}

	if cfg.SimulationType == TypePortfolio && len(cfg.Assets) > 0 {
		if corr := cfg.CorrelationMatrix(); corr != nil {
			factor, err := CholeskyFactor(corr)
			if err != nil {
				return nil, err
			}
			p.factor = factor
		}
	}
	p.allocBuffers()

	return p, nil
}

// Fork returns a simulator sharing the (read-only) factor with its own rng
func (p *PathSimulator) Fork(seed int64) *PathSimulator {
	f := &PathSimulator{
		cfg:    p.cfg,
		dt:     p.dt,
		sqrtDt: p.sqrtDt,
		factor: p.factor,
		rng:    rand.New(rand.NewSource(seed)),
	}
	f.allocBuffers()
	return f
}

func (p *PathSimulator) allocBuffers() {
	n := len(p.cfg.Assets)
	p.assetBuf = make([]float64, n)
	p.shockBuf = make([]float64, n)
	p.corrBuf = make([]float64, n)
}

// Generate 새 경로 생성 (길이 TimeHorizon+1, 첫 값 = InitialValue)
func (p *PathSimulator) Generate() []float64 {
	path := make([]float64, p.cfg.TimeHorizon+1)
	p.generateInto(path)
	return path
}

// generateInto writes a path into buf (len TimeHorizon+1) without allocating
func (p *PathSimulator) generateInto(path []float64) {
	switch p.cfg.SimulationType {
	case TypeJumpDiffusion:
		p.jumpDiffusion(path)
	case TypeMeanReversion:
		p.meanReversion(path)
	case TypePortfolio:
		if len(p.cfg.Assets) == 0 {
			p.geometricBrownian(path)
			return
		}
		p.portfolio(path)
	default:
		p.geometricBrownian(path)
	}
}

// normal 표준정규 난수 (Box-Muller)
func (p *PathSimulator) normal() float64 {
	u1 := 1 - p.rng.Float64() // (0, 1]: log(0) 방지
	u2 := p.rng.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// geometricBrownian S += S * (drift*dt + σ*dW)
func (p *PathSimulator) geometricBrownian(path []float64) {
	c := p.cfg
	drift := c.ExpectedReturn - 0.5*c.Volatility*c.Volatility

	path[0] = c.InitialValue
	for t := 1; t < len(path); t++ {
		dW := p.normal() * p.sqrtDt
		prev := path[t-1]
		path[t] = prev + prev*(drift*p.dt+c.Volatility*dW)
	}
}

// jumpDiffusion GBM + 포아송 점프, 0 하한
func (p *PathSimulator) jumpDiffusion(path []float64) {
	c := p.cfg
	drift := c.ExpectedReturn - 0.5*c.Volatility*c.Volatility

	path[0] = c.InitialValue
	for t := 1; t < len(path); t++ {
		dW := p.normal() * p.sqrtDt

		jump := 0.0
		if p.rng.Float64() < JumpIntensity*p.dt {
			jump = JumpMean + JumpVolatility*p.normal()
		}

		prev := path[t-1]
		path[t] = math.Max(0, prev+prev*(drift*p.dt+c.Volatility*dW+jump))
	}
}

// meanReversion InitialValue로 회귀, 0 하한
func (p *PathSimulator) meanReversion(path []float64) {
	c := p.cfg
	longTermMean := c.InitialValue

	path[0] = c.InitialValue
	for t := 1; t < len(path); t++ {
		dW := p.normal() * p.sqrtDt
		prev := path[t-1]
		pull := MeanReversionSpeed * (longTermMean - prev) * p.dt
		path[t] = math.Max(0, prev+pull+c.Volatility*prev*dW)
	}
}

// portfolio 자산별 GBM 경로의 가중 합
// 자산은 모두 InitialValue에서 시작. Weight 정규화 없음
func (p *PathSimulator) portfolio(path []float64) {
	c := p.cfg
	assets := p.assetBuf
	for i := range assets {
		assets[i] = c.InitialValue
	}

	path[0] = c.InitialValue
	for t := 1; t < len(path); t++ {
		shocks := p.shocks()

		value := 0.0
		for i, a := range c.Assets {
			drift := a.ExpectedReturn - 0.5*a.Volatility*a.Volatility
			dW := shocks[i] * p.sqrtDt
			assets[i] = math.Max(0, assets[i]+assets[i]*(drift*p.dt+a.Volatility*dW))
			value += a.Weight * assets[i]
		}
		path[t] = value
	}
}

// shocks 자산 수만큼 표준정규 난수. 상관행렬이 있으면 L*z
func (p *PathSimulator) shocks() []float64 {
	z := p.shockBuf
	for i := range z {
		z[i] = p.normal()
	}
	if p.factor == nil {
		return z
	}

	x := p.corrBuf
	for i, row := range p.factor {
		var sum float64
		for j := 0; j <= i; j++ {
			sum += row[j] * z[j]
		}
		x[i] = sum
	}
	return x
}

// CholeskyFactor 상관행렬의 하삼각 Cholesky 인자 (행 단위 슬라이스)
func CholeskyFactor(corr [][]float64) ([][]float64, error) {
	n := len(corr)
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, corr[i][j])
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(sym); !ok {
		return nil, invalid("correlation", "matrix is not positive definite")
	}

	var l mat.TriDense
	chol.LTo(&l)

	factor := make([][]float64, n)
	for i := 0; i < n; i++ {
		factor[i] = make([]float64, n)
		for j := 0; j <= i; j++ {
			factor[i][j] = l.At(i, j)
		}
	}
	return factor, nil
}

// PathDrawdown 경로 내 최대 고점 대비 하락률
func PathDrawdown(path []float64) float64 {
	if len(path) == 0 {
		return 0
	}

	peak := path[0]
	maxDD := 0.0
	for _, v := range path {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			if dd := (peak - v) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}
