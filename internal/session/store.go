package session

import (
	"context"
	"errors"
	"time"

	"github.com/wonny/finlab/backend/internal/montecarlo"
)

// ErrNotFound 알 수 없거나 만료된 시뮬레이션 ID
var ErrNotFound = errors.New("simulation not found")

// Store 시뮬레이션 결과 저장소
// ⭐ SSOT: 결과의 소유권은 Store에 있음. 저장 후 결과를 수정하지 않음
type Store interface {
	Save(ctx context.Context, result *montecarlo.SimulationResult) error
	Get(ctx context.Context, id string) (*montecarlo.SimulationResult, error)
	List(ctx context.Context) ([]*montecarlo.SimulationResult, error)
	Delete(ctx context.Context, id string) error
	EvictExpired(ctx context.Context) (int, error)
	Len(ctx context.Context) (int, error)
	Close() error
}

// Options 공통 보존 정책
type Options struct {
	TTL        time.Duration // 0 = 무기한
	MaxEntries int           // 0 = 무제한 (memory 백엔드만 적용)
}

// expiresAt returns the expiry for an entry created at t (zero = never)
func (o Options) expiresAt(t time.Time) time.Time {
	if o.TTL <= 0 {
		return time.Time{}
	}
	return t.Add(o.TTL)
}
