package simulation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/finlab/backend/internal/montecarlo"
	"github.com/wonny/finlab/backend/internal/portfolio"
	"github.com/wonny/finlab/backend/internal/realtime"
	"github.com/wonny/finlab/backend/internal/session"
)

// recorder 발행된 이벤트 기록
type recorder struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (r *recorder) Publish(e realtime.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []realtime.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]realtime.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func newTestService(store session.Store, pub realtime.Publisher) *Service {
	runner := montecarlo.NewRunner(montecarlo.RunnerConfig{Workers: 2, SamplePaths: 3}, nil)
	return NewService(runner, portfolio.NewOptimizer(nil), store, pub, nil)
}

func validConfig() montecarlo.SimulationConfig {
	return montecarlo.SimulationConfig{
		Iterations:     1000,
		TimeHorizon:    10,
		InitialValue:   100,
		ExpectedReturn: 0.08,
		Volatility:     0.2,
		Confidence:     0.95,
		SimulationType: montecarlo.TypeGeometricBrownian,
		Seed:           9,
	}
}

func TestService_RunSimulationStoresAndPublishes(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore(session.Options{}, nil)
	pub := &recorder{}
	svc := newTestService(store, pub)

	result, err := svc.RunSimulation(ctx, validConfig())
	require.NoError(t, err)

	stored, err := svc.GetSimulation(ctx, result.ID)
	require.NoError(t, err)
	assert.Same(t, result, stored)
	assert.Len(t, stored.Paths, 3)

	list, err := svc.ListSimulations(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.Equal(t, []realtime.EventType{realtime.EventSimulationCompleted}, pub.types())
	assert.Equal(t, result.ID, pub.events[0].SimulationID)
}

func TestService_RunSimulationRejectsOutOfBounds(t *testing.T) {
	store := session.NewMemoryStore(session.Options{}, nil)
	pub := &recorder{}
	svc := newTestService(store, pub)

	cfg := validConfig()
	cfg.Iterations = 10

	_, err := svc.RunSimulation(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, montecarlo.ErrInvalidConfig)

	n, _ := store.Len(context.Background())
	assert.Equal(t, 0, n)
	assert.Empty(t, pub.types())
}

// failingStore Save 실패 재현
type failingStore struct {
	session.Store
}

func (failingStore) Save(context.Context, *montecarlo.SimulationResult) error {
	return errors.New("connection refused")
}

func TestService_RunSimulationStoreFailure(t *testing.T) {
	pub := &recorder{}
	svc := newTestService(failingStore{Store: session.NewMemoryStore(session.Options{}, nil)}, pub)

	_, err := svc.RunSimulation(context.Background(), validConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to store simulation")
	assert.Empty(t, pub.types())
}

func TestService_DeleteAndEvict(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore(session.Options{TTL: time.Nanosecond}, nil)
	pub := &recorder{}
	svc := newTestService(store, pub)

	a, err := svc.RunSimulation(ctx, validConfig())
	require.NoError(t, err)
	_, err = svc.RunSimulation(ctx, validConfig())
	require.NoError(t, err)

	// TTL 1ns: 삭제 전 이미 만료됐어도 Delete는 항목 자체를 제거
	require.NoError(t, svc.DeleteSimulation(ctx, a.ID))
	assert.ErrorIs(t, svc.DeleteSimulation(ctx, a.ID), session.ErrNotFound)

	time.Sleep(time.Millisecond)
	count, err := svc.EvictExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	n, err := svc.StoredCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	assert.Equal(t, []realtime.EventType{
		realtime.EventSimulationCompleted,
		realtime.EventSimulationCompleted,
		realtime.EventSimulationDeleted,
		realtime.EventSessionsEvicted,
	}, pub.types())
}

func TestService_Optimize(t *testing.T) {
	svc := newTestService(session.NewMemoryStore(session.Options{}, nil), nil)

	result, err := svc.Optimize(context.Background(), portfolio.OptimizationConfig{
		Assets: []montecarlo.AssetConfig{
			{Symbol: "A", ExpectedReturn: 0.08, Volatility: 0.2},
			{Symbol: "B", ExpectedReturn: 0.08, Volatility: 0.2},
		},
		RiskFreeRate:   0.02,
		ConstraintType: portfolio.ObjectiveMinVariance,
		Iterations:     5000,
		Seed:           1,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, result.Weights[0], 0.05)

	_, err = svc.Optimize(context.Background(), portfolio.OptimizationConfig{Iterations: 5000})
	assert.ErrorIs(t, err, portfolio.ErrInvalidConfig)
}
