package challenges

import (
	"context"
	"encoding/json"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
)

const (
	snapshotKey               = "reroute:challenges:snapshot"
	DefaultSnapshotExpiration = 7 * 24 * time.Hour
)

// RedisSnapshotStore keeps the last good plans in Redis as JSON.
type RedisSnapshotStore struct {
	cache *cache.Cache[string]
}

func NewRedisSnapshotStore(client *redis.Client, expiration time.Duration) *RedisSnapshotStore {
	if expiration <= 0 {
		expiration = DefaultSnapshotExpiration
	}

	redisStore := redisstore.NewRedis(client, store.WithExpiration(expiration))

	return &RedisSnapshotStore{
		cache: cache.New[string](redisStore),
	}
}

func (r *RedisSnapshotStore) Save(ctx context.Context, plans []*Plan) error {
	body, err := json.Marshal(plans)
	if err != nil {
		return err
	}

	return r.cache.Set(ctx, snapshotKey, string(body))
}

func (r *RedisSnapshotStore) Load(ctx context.Context) ([]*Plan, error) {
	value, err := r.cache.Get(ctx, snapshotKey)
	if err != nil {
		return nil, err
	}

	var plans []*Plan
	if err := json.Unmarshal([]byte(value), &plans); err != nil {
		return nil, err
	}
	return plans, nil
}
