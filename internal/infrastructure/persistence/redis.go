package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/glowstock/backend/internal/domain/snapshot"
	"github.com/redis/go-redis/v9"
)

// RedisStore persists the snapshot as a single Redis string value. The
// whole state travels in one SET, keeping the single-slot write atomic.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(ctx context.Context, addr, password string, db int, key string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return &RedisStore{client: client, key: key}, nil
}

// Load fetches and parses the snapshot value. A missing key yields an
// empty normalized snapshot.
func (s *RedisStore) Load(ctx context.Context) (*snapshot.Snapshot, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return snapshot.New(), nil
		}
		return nil, fmt.Errorf("read snapshot key %s: %w", s.key, err)
	}

	snap := &snapshot.Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("parse snapshot key %s: %w", s.key, err)
	}
	snap.Normalize()
	return snap, nil
}

// Save replaces the snapshot value
func (s *RedisStore) Save(ctx context.Context, snap *snapshot.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("serialize snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("write snapshot key %s: %w", s.key, err)
	}
	return nil
}

// Close releases the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
