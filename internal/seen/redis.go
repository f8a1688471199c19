package seen

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultRedisKey = "internscope:seen"

// RedisStore keeps the seen set in a Redis set, for deployments where the
// local filesystem is not durable.
type RedisStore struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// NewRedisStore parses redisURL, verifies connectivity, and returns a store
// bound to the given key (defaultRedisKey when empty).
func NewRedisStore(ctx context.Context, redisURL, key string, logger *zap.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	if key == "" {
		key = defaultRedisKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RedisStore{client: client, key: key, logger: logger}, nil
}

// Load fetches all members of the seen set. A read failure degrades to an
// empty set so the cycle still runs.
func (r *RedisStore) Load(ctx context.Context) (Set, error) {
	ids, err := r.client.SMembers(ctx, r.key).Result()
	if err != nil {
		r.logger.Warn("seen set unreadable from redis, starting from empty",
			zap.String("key", r.key),
			zap.Error(err),
		)
		return NewSet(), nil
	}
	return NewSet(ids...), nil
}

// Save replaces the stored contents wholesale. The delete and repopulate
// run in one transaction, so a reset racing an in-flight cycle never
// resurrects cleared ids.
func (r *RedisStore) Save(ctx context.Context, s Set) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.key)

	if s.Len() > 0 {
		members := make([]interface{}, 0, s.Len())
		for _, id := range s.IDs() {
			members = append(members, id)
		}
		pipe.SAdd(ctx, r.key, members...)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save seen set to redis: %w", err)
	}
	return nil
}

// Reset deletes the backing key.
func (r *RedisStore) Reset(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("reset seen set in redis: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
