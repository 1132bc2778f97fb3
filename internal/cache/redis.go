package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/echohealth-screening-server/internal/domain"
)

// RedisStore persists the recent-activity blob under a single namespaced
// Redis key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to Redis and returns a blob store bound to the
// configured namespace.
func NewRedisStore(config domain.CacheConfig, logger *logrus.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing Redis URL: %w", err)
	}
	if config.PoolSize > 0 {
		opts.PoolSize = config.PoolSize
	}

	client := redis.NewClient(opts)

	wait := config.DialWait
	if wait <= 0 {
		wait = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	namespace := config.Namespace
	if namespace == "" {
		namespace = "recent_activity"
	}

	logger.WithField("namespace", namespace).Info("Recent-activity cache connected")

	return &RedisStore{
		client: client,
		key:    namespace + ":items",
	}, nil
}

// Get returns the stored blob, or nil when the key does not exist.
func (s *RedisStore) Get(ctx context.Context) ([]byte, error) {
	blob, err := s.client.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting cache blob: %w", err)
	}
	return blob, nil
}

// Set stores the blob. The entry list is small and bounded, so no TTL is
// applied; Clear is the only way it goes away.
func (s *RedisStore) Set(ctx context.Context, blob []byte) error {
	if err := s.client.Set(ctx, s.key, blob, 0).Err(); err != nil {
		return fmt.Errorf("setting cache blob: %w", err)
	}
	return nil
}

// Delete removes the blob.
func (s *RedisStore) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("deleting cache blob: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
