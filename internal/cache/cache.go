package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const Namespace = "book-muse:"

func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("unable to ping redis: %w", err)
	}
	return client, nil
}

// Store keeps JSON values under the Namespace prefix. Redis failures never
// reach callers: they are logged and reads report a miss.
type Store struct {
	client *redis.Client
	log    *zap.Logger
}

func NewStore(client *redis.Client, log *zap.Logger) *Store {
	return &Store{client: client, log: log}
}

func (s *Store) Get(ctx context.Context, key string, dst any) bool {
	raw, err := s.client.Get(ctx, Namespace+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		s.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.Warn("cache entry unreadable", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *Store) Set(ctx context.Context, key string, v any, ttl time.Duration) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.log.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.client.Set(ctx, Namespace+key, raw, ttl).Err(); err != nil {
		s.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Remember returns the cached value for key, or calls load and caches its
// result for ttl. Load errors are returned and nothing is stored.
func Remember[T any](ctx context.Context, s *Store, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var v T
	if s.Get(ctx, key, &v) {
		return v, nil
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	s.Set(ctx, key, v, ttl)
	return v, nil
}
