package session

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/wonny/finlab/backend/internal/montecarlo"
	"github.com/wonny/finlab/backend/pkg/logger"
	"github.com/wonny/finlab/backend/pkg/redis"
)

// RedisStore keeps results as JSON under <prefix>:sim:<id>
// 만료는 Redis 네이티브 TTL에 맡김
type RedisStore struct {
	client *redis.Client
	cache  *redis.Cache
	opts   Options
	logger *logger.Logger
}

// NewRedisStore creates a Redis-backed store
func NewRedisStore(client *redis.Client, prefix string, opts Options, log *logger.Logger) (*RedisStore, error) {
	if !client.Enabled() {
		return nil, fmt.Errorf("redis session store requires an enabled redis client")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RedisStore{
		client: client,
		cache:  redis.NewCache(client, prefix, redis.NamespaceSimulation),
		opts:   opts,
		logger: log.WithComponent("session.redis"),
	}, nil
}

// Save stores a result with the configured TTL
func (s *RedisStore) Save(ctx context.Context, result *montecarlo.SimulationResult) error {
	if err := s.cache.Set(ctx, result.ID, result, s.opts.TTL); err != nil {
		return fmt.Errorf("failed to save simulation %s: %w", result.ID, err)
	}
	return nil
}

// Get loads a result by id
func (s *RedisStore) Get(ctx context.Context, id string) (*montecarlo.SimulationResult, error) {
	var result montecarlo.SimulationResult
	found, err := s.cache.Get(ctx, id, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to load simulation %s: %w", id, err)
	}
	if !found {
		return nil, ErrNotFound
	}
	return &result, nil
}

// List scans the namespace and returns results ordered by timestamp
func (s *RedisStore) List(ctx context.Context) ([]*montecarlo.SimulationResult, error) {
	ids, err := s.cache.Keys(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*montecarlo.SimulationResult, 0, len(ids))
	for _, id := range ids {
		result, err := s.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue // SCAN 이후 만료
		}
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Timestamp.Before(results[j].Timestamp)
	})
	return results, nil
}

// Delete removes a result
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	deleted, err := s.cache.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete simulation %s: %w", id, err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// EvictExpired is a no-op: Redis expires keys itself
func (s *RedisStore) EvictExpired(_ context.Context) (int, error) {
	return 0, nil
}

// Len counts keys in the namespace
func (s *RedisStore) Len(ctx context.Context) (int, error) {
	ids, err := s.cache.Keys(ctx)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// Close closes the underlying client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
