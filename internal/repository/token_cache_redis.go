package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type redisTokenCache struct {
	client *redis.Client
}

func NewRedisTokenCache(client *redis.Client) TokenCache {
	return &redisTokenCache{client: client}
}

func (s *redisTokenCache) Put(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	return s.client.Set(ctx, tokenCacheKey(token), userID.String(), ttl).Err()
}

func (s *redisTokenCache) Lookup(ctx context.Context, token string) (uuid.UUID, bool, error) {
	val, err := s.client.Get(ctx, tokenCacheKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("corrupt token cache entry: %w", err)
	}
	return id, true, nil
}

func (s *redisTokenCache) Evict(ctx context.Context, token string) error {
	return s.client.Del(ctx, tokenCacheKey(token)).Err()
}
