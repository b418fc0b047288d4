// Package session owns the only cross-component shared mutable state: the
// bearer token and the cached identity. Gateways read it, only the
// Manager writes it. The browser holds a signed cookie with the session
// id; the actual state lives in Redis.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nguyenbachduyhoang/cafedaily/internal/config"
	"github.com/nguyenbachduyhoang/cafedaily/internal/models"
)

// Store persists sessions between requests.
type Store interface {
	// Save writes the session under id.
	Save(ctx context.Context, id string, s models.Session) error
	// Get returns the session or nil when it does not exist.
	Get(ctx context.Context, id string) (*models.Session, error)
	// Delete removes the session; deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
}

// RedisStore is the Redis-backed Store used in production.
type RedisStore struct {
	db  *redis.Client
	ttl time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg config.RedisConnection, ttl time.Duration) (*RedisStore, error) {
	const op = "session.NewRedisStore"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &RedisStore{db: db, ttl: ttl}, nil
}

func key(id string) string { return "session:" + id }

// Save writes the session as JSON with the configured TTL.
func (s *RedisStore) Save(ctx context.Context, id string, sess models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.db.Set(ctx, key(id), data, s.ttl).Err()
}

// Get reads the session back, nil when expired or never written.
func (s *RedisStore) Get(ctx context.Context, id string) (*models.Session, error) {
	const op = "session.Get"
	val, err := s.db.Get(ctx, key(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var sess models.Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sess, nil
}

// Delete removes the session entry.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.db.Del(ctx, key(id)).Err()
}

// Close releases the underlying connection.
func (s *RedisStore) Close() error { return s.db.Close() }
