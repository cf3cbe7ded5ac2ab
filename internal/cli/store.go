package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/adapters/redis"
	"github.com/aretw0/turing/pkg/ports"
)

// Persistence bundles the snapshot store and the session locker of a backend.
type Persistence struct {
	Store  ports.SnapshotStore
	Locker ports.Locker
	Close  func() error
}

// OpenPersistence connects to the backend named by cfg.Store.
// A redis backend is pinged so that a wrong address fails before the run starts.
func OpenPersistence(ctx context.Context, cfg config.Config) (*Persistence, error) {
	switch cfg.Store {
	case config.StoreMemory, "":
		return &Persistence{
			Store:  memory.NewStore(),
			Locker: memory.NewLocker(),
			Close:  func() error { return nil },
		}, nil

	case config.StoreRedis:
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := store.Client().Ping(pingCtx).Err(); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		return &Persistence{
			Store:  store,
			Locker: redis.NewLocker(store.Client(), cfg.Redis.Prefix),
			Close:  store.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}
