package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL 상수 정의
const (
	TTLProfile = 5 * time.Minute
)

// 캐시 키 접두사
const (
	PrefixProfile = "whisperbox:profile:"
)

// ErrMiss is returned when a key is absent or the cache is unavailable
var ErrMiss = errors.New("cache miss")

// Service is the Redis-backed cache used by the API
type Service interface {
	// 기본 캐시 연산
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	// 프로필 캐시 (사용자 이름 기준)
	GetProfile(ctx context.Context, username string, dest interface{}) error
	SetProfile(ctx context.Context, username string, data interface{}) error
	InvalidateProfile(ctx context.Context, usernames ...string) error

	// 유틸리티
	IsAvailable() bool
	Ping(ctx context.Context) error
}

// redisCache implements Service on Redis
type redisCache struct {
	client     *redis.Client
	profileTTL time.Duration
}

// NewService creates a cache Service. A nil client yields a no-op cache.
func NewService(client *redis.Client, profileTTL time.Duration) Service {
	if profileTTL <= 0 {
		profileTTL = TTLProfile
	}
	return &redisCache{client: client, profileTTL: profileTTL}
}

// IsAvailable reports whether a Redis client is configured
func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

// Ping checks the Redis connection
func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

// Get decodes the cached JSON at key into dest. It returns ErrMiss when absent.
func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrMiss
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

// Set stores value as JSON with ttl
func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil // Redis 없으면 무시
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete removes keys
func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Exists reports whether key is cached
func (c *redisCache) Exists(ctx context.Context, key string) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	n, err := c.client.Exists(ctx, key).Result()
	return n > 0, err
}

// ProfileKey returns the cache key for a username
func ProfileKey(username string) string {
	return PrefixProfile + username
}

func (c *redisCache) GetProfile(ctx context.Context, username string, dest interface{}) error {
	return c.Get(ctx, ProfileKey(username), dest)
}

func (c *redisCache) SetProfile(ctx context.Context, username string, data interface{}) error {
	return c.Set(ctx, ProfileKey(username), data, c.profileTTL)
}

func (c *redisCache) InvalidateProfile(ctx context.Context, usernames ...string) error {
	keys := make([]string, 0, len(usernames))
	for _, u := range usernames {
		if u != "" {
			keys = append(keys, ProfileKey(u))
		}
	}
	return c.Delete(ctx, keys...)
}
