package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	appErrors "github.com/johnquangdev/meeting-analysis/errors"
	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
	"github.com/johnquangdev/meeting-analysis/pkg/config"
)

// RedisRunStore shares runs between API replicas. Entries expire after ttl
// so nothing outlives the session.
type RedisRunStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRunStore connects to Redis and verifies the connection
func NewRedisRunStore(ctx context.Context, cfg *config.Config) (*RedisRunStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisRunStoreFromClient(client, cfg.RunStore.TTL), nil
}

// NewRedisRunStoreFromClient wraps an existing client
func NewRedisRunStoreFromClient(client *redis.Client, ttl time.Duration) *RedisRunStore {
	return &RedisRunStore{client: client, ttl: ttl}
}

// Save replaces the stored snapshot of run
func (s *RedisRunStore) Save(ctx context.Context, run *entities.AnalysisRun) error {
	b, err := encodeRun(run)
	if err != nil {
		return appErrors.ErrStoreFailed("save", err)
	}
	if err := s.client.Set(ctx, runKey(run.ID), b, s.ttl).Err(); err != nil {
		return appErrors.ErrStoreFailed("save", err)
	}
	return nil
}

// Get returns the run or RUN_NOT_FOUND
func (s *RedisRunStore) Get(ctx context.Context, id string) (*entities.AnalysisRun, error) {
	b, err := s.client.Get(ctx, runKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, appErrors.ErrRunNotFound(id)
	}
	if err != nil {
		return nil, appErrors.ErrStoreFailed("get", err)
	}
	run, err := decodeRun(b)
	if err != nil {
		return nil, appErrors.ErrStoreFailed("get", err)
	}
	return run, nil
}

// Ping checks the connection
func (s *RedisRunStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the client
func (s *RedisRunStore) Close() error {
	return s.client.Close()
}
