package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/opec-platform/opec-backend/internal/config"
)

// RedisSessionStore keeps one key per live token, expiring with the token.
type RedisSessionStore struct {
	rdb *redis.Client
}

func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb}
}

func (s *RedisSessionStore) Save(ctx context.Context, userID int, jti string, ttl time.Duration) error {
	return s.rdb.Set(ctx, config.CacheKey.UserSessionKey(userID, jti), "1", ttl).Err()
}

func (s *RedisSessionStore) Exists(ctx context.Context, userID int, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, config.CacheKey.UserSessionKey(userID, jti)).Result()
	return n > 0, err
}

func (s *RedisSessionStore) Delete(ctx context.Context, userID int, jti string) error {
	return s.rdb.Del(ctx, config.CacheKey.UserSessionKey(userID, jti)).Err()
}
