package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/finlab/backend/internal/montecarlo"
)

func newResult(id string) *montecarlo.SimulationResult {
	return &montecarlo.SimulationResult{
		ID:        id,
		Status:    montecarlo.StatusCompleted,
		Timestamp: time.Now(),
		Results: montecarlo.Metrics{
			FinalValues: []float64{90, 100, 110},
			Percentiles: map[string]float64{"p50": 100},
		},
	}
}

// fakeClock 테스트용 시계
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemoryStore_SaveGetList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(Options{}, nil)

	require.NoError(t, store.Save(ctx, newResult("a")))
	require.NoError(t, store.Save(ctx, newResult("b")))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)

	_, err = store.Get(ctx, "unknown-id")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMemoryStore_SaveSameIDReplaces(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(Options{}, nil)

	first := newResult("dup")
	second := newResult("dup")
	second.Duration = 42

	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	got, err := store.Get(ctx, "dup")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.Duration)

	list, _ := store.List(ctx)
	assert.Len(t, list, 1)
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(Options{}, nil)

	require.NoError(t, store.Save(ctx, newResult("a")))
	require.NoError(t, store.Delete(ctx, "a"))

	assert.ErrorIs(t, store.Delete(ctx, "a"), ErrNotFound)
	_, err := store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	list, _ := store.List(ctx)
	assert.Empty(t, list)
}

func TestMemoryStore_MaxEntriesEvictsOldest(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(Options{MaxEntries: 2}, nil)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Save(ctx, newResult(id)))
	}

	_, err := store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	list, _ := store.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "c", list[1].ID)
}

func TestMemoryStore_TTL(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}

	store := NewMemoryStore(Options{TTL: time.Hour}, nil)
	store.now = clock.Now

	require.NoError(t, store.Save(ctx, newResult("old")))
	clock.Advance(30 * time.Minute)
	require.NoError(t, store.Save(ctx, newResult("new")))
	clock.Advance(45 * time.Minute)

	// old 만료, new 유효
	_, err := store.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, "new")
	assert.NoError(t, err)

	list, _ := store.List(ctx)
	require.Len(t, list, 1)

	n, _ := store.Len(ctx)
	assert.Equal(t, 2, n, "expired entries count until evicted")

	evicted, err := store.EvictExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, evicted)

	n, _ = store.Len(ctx)
	assert.Equal(t, 1, n)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(Options{MaxEntries: 50}, nil)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				id := fmt.Sprintf("w%d-%d", w, i)
				_ = store.Save(ctx, newResult(id))
				_, _ = store.Get(ctx, id)
				_, _ = store.List(ctx)
			}
		}(w)
	}
	wg.Wait()

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, n)
}
