package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache JSON 값 저장소 (<prefix>:<namespace>:<key>)
// ⭐ SSOT: 키 포맷은 여기서만
type Cache struct {
	client    *Client
	prefix    string
	namespace string
}

// NewCache creates a new cache helper under prefix:namespace
func NewCache(client *Client, prefix, namespace string) *Cache {
	return &Cache{
		client:    client,
		prefix:    prefix,
		namespace: namespace,
	}
}

// Key returns the full Redis key for key
func (c *Cache) Key(key string) string {
	return fmt.Sprintf("%s:%s:%s", c.prefix, c.namespace, key)
}

func (c *Cache) pattern() string {
	return fmt.Sprintf("%s:%s:*", c.prefix, c.namespace)
}

// Get retrieves a cached value. Missing key is (false, nil)
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.client.Enabled() {
		return false, nil
	}

	data, err := c.client.Redis().Get(ctx, c.Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get failed: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// Set stores a value with TTL (0 = no expiry)
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	if err := c.client.Redis().Set(ctx, c.Key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

// Delete removes a value and reports whether it existed
func (c *Cache) Delete(ctx context.Context, key string) (bool, error) {
	if !c.client.Enabled() {
		return false, nil
	}

	n, err := c.client.Redis().Del(ctx, c.Key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("cache delete failed: %w", err)
	}
	return n > 0, nil
}

// Keys lists keys in the namespace (prefix stripped) using SCAN
func (c *Cache) Keys(ctx context.Context) ([]string, error) {
	if !c.client.Enabled() {
		return nil, nil
	}

	strip := fmt.Sprintf("%s:%s:", c.prefix, c.namespace)
	keys := make([]string, 0)

	iter := c.client.Redis().Scan(ctx, 0, c.pattern(), 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), strip))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("cache scan failed: %w", err)
	}

	return keys, nil
}

// Predefined TTLs
const (
	TTLShort  = 10 * time.Minute // 조회 캐시
	TTLDaily  = 24 * time.Hour   // 시뮬레이션 결과 기본값
	TTLWeekly = 7 * 24 * time.Hour
)

// Namespaces
const (
	NamespaceSimulation = "sim"
	NamespaceRateLimit  = "ratelimit"
)
