package api

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/finlab/backend/pkg/config"
	redispkg "github.com/wonny/finlab/backend/pkg/redis"
)

// Limiter decides whether a request from key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// NewLimiter 설정에 따라 Limiter 선택
// Redis 활성 시 인스턴스 간 공유 슬라이딩 윈도, 아니면 프로세스 로컬 토큰 버킷
func NewLimiter(cfg *config.Config, client *redispkg.Client) Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	if client != nil && client.Enabled() {
		return &RedisLimiter{
			limiter: redispkg.NewRateLimiter(client, cfg.Redis.Prefix),
			limit:   cfg.RateLimit.Burst,
		}
	}
	return NewLocalLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
}

// =============================================================================
// Local token bucket
// =============================================================================

// maxTrackedClients 로컬 limiter가 보관하는 클라이언트 수 상한
const maxTrackedClients = 10000

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalLimiter 클라이언트별 x/time/rate 토큰 버킷
type LocalLimiter struct {
	rps   rate.Limit
	burst int

	mu       sync.Mutex
	visitors map[string]*visitor
}

// NewLocalLimiter creates a per-client token bucket limiter
func NewLocalLimiter(rps float64, burst int) *LocalLimiter {
	if burst < 1 {
		burst = 1
	}
	return &LocalLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		visitors: make(map[string]*visitor),
	}
}

// Allow consumes one token for key
func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	v, ok := l.visitors[key]
	if !ok {
		if len(l.visitors) >= maxTrackedClients {
			l.pruneLocked(now)
		}
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1), nil
}

// pruneLocked 1분 이상 조용한 클라이언트 제거
func (l *LocalLimiter) pruneLocked(now time.Time) {
	for k, v := range l.visitors {
		if now.Sub(v.lastSeen) > time.Minute {
			delete(l.visitors, k)
		}
	}
}

// =============================================================================
// Redis sliding window
// =============================================================================

// RedisLimiter 초당 limit 요청 (Redis 슬라이딩 윈도)
type RedisLimiter struct {
	limiter *redispkg.RateLimiter
	limit   int
}

// Allow checks the shared window for key
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	allowed, _, err := l.limiter.Allow(ctx, redispkg.PerSecond("compute:"+key, l.limit))
	return allowed, err
}
