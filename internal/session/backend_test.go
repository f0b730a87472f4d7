package session

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/finlab/backend/pkg/config"
	"github.com/wonny/finlab/backend/pkg/database"
	"github.com/wonny/finlab/backend/pkg/redis"
)

// exerciseStore 백엔드 공통 동작 검증
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	id := "mc_test_" + time.Now().Format("150405.000000000")
	require.NoError(t, store.Save(ctx, newResult(id)))

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, []float64{90, 100, 110}, got.Results.FinalValues)

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, list)

	require.NoError(t, store.Delete(ctx, id))
	assert.ErrorIs(t, store.Delete(ctx, id), ErrNotFound)

	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.EvictExpired(ctx)
	assert.NoError(t, err)
}

func TestRedisStore_Integration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping integration test")
	}

	client := redis.NewFromRedis(goredis.NewClient(&goredis.Options{Addr: addr}))
	require.NoError(t, client.Ping(context.Background()))

	store, err := NewRedisStore(client, "finlab_test", Options{TTL: time.Minute}, nil)
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestRedisStore_RequiresEnabledClient(t *testing.T) {
	client, err := redis.New(context.Background(), &config.Config{})
	require.NoError(t, err)

	_, err = NewRedisStore(client, "finlab", Options{}, nil)
	assert.Error(t, err)
}

func TestPostgresStore_Integration(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	db, err := database.New(ctx, &config.Config{
		Database: config.DatabaseConfig{URL: url, MaxConns: 4, MinConns: 1},
	})
	require.NoError(t, err)

	store := NewPostgresStore(db, Options{TTL: time.Minute}, nil)
	defer store.Close()

	require.NoError(t, store.EnsureSchema(ctx))
	exerciseStore(t, store)
}

func TestNew_MemoryDefault(t *testing.T) {
	store, err := New(context.Background(), &config.Config{
		Session: config.SessionConfig{Backend: config.StoreMemory, MaxEntries: 10},
	}, nil)
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.(*MemoryStore)
	assert.True(t, ok)
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(context.Background(), &config.Config{
		Session: config.SessionConfig{Backend: "etcd"},
	}, nil)
	assert.Error(t, err)
}
