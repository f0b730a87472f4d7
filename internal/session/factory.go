package session

import (
	"context"
	"fmt"

	"github.com/wonny/finlab/backend/pkg/config"
	"github.com/wonny/finlab/backend/pkg/database"
	"github.com/wonny/finlab/backend/pkg/logger"
	"github.com/wonny/finlab/backend/pkg/redis"
)

// New builds the store selected by SESSION_STORE
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (Store, error) {
	opts := Options{
		TTL:        cfg.Session.TTL,
		MaxEntries: cfg.Session.MaxEntries,
	}

	switch cfg.Session.Backend {
	case config.StoreRedis:
		client, err := redis.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store, err := NewRedisStore(client, cfg.Redis.Prefix, opts, log)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return store, nil

	case config.StorePostgres:
		db, err := database.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store := NewPostgresStore(db, opts, log)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return store, nil

	case config.StoreMemory, "":
		return NewMemoryStore(opts, log), nil

	default:
		return nil, fmt.Errorf("unknown session store backend: %s", cfg.Session.Backend)
	}
}
