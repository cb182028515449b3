package otpstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainErrors "github.com/wealthdesk/fundmart/internal/domain/errors"
)

// Store keeps hashed login one-time codes with an explicit expiry.
type Store interface {
	Put(ctx context.Context, key, hash string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// RedisStore implements Store on redis; expiry is enforced by key TTL.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to redis and verifies connectivity.
func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis at %s: %w", addr, err)
	}

	return &RedisStore{client: client}, nil
}

func storeKey(key string) string {
	return "login_otp:" + key
}

// Put stores the code hash under key for ttl, replacing any previous value.
func (s *RedisStore) Put(ctx context.Context, key, hash string, ttl time.Duration) error {
	return s.client.Set(ctx, storeKey(key), hash, ttl).Err()
}

// Get returns the stored hash, or ErrNotFound when absent or expired.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, storeKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domainErrors.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Delete removes the stored hash; absent keys are not an error.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, storeKey(key)).Err()
}

// Close releases the redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
