package redis

import (
	"context"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/joinboard/backend/domain"
	"github.com/joinboard/backend/repository"
)

type tokenCache struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// NewTokenCache creates a Redis-backed token lookup cache. Postgres stays the
// source of truth; entries here only shortcut the per-request token check.
func NewTokenCache(client *redislib.Client, ttl time.Duration) repository.TokenCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &tokenCache{
		client: client,
		prefix: "authtoken:",
		ttl:    ttl,
	}
}

func (c *tokenCache) Get(ctx context.Context, key string) (string, error) {
	userID, err := c.client.Get(ctx, c.key(key)).Result()
	if err != nil {
		if err == redislib.Nil {
			return "", domain.ErrTokenNotFound
		}
		return "", err
	}
	return userID, nil
}

func (c *tokenCache) Set(ctx context.Context, key, userID string) error {
	if key == "" || userID == "" {
		return domain.ErrInvalidPayload
	}
	return c.client.Set(ctx, c.key(key), userID, c.ttl).Err()
}

func (c *tokenCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}

func (c *tokenCache) key(token string) string {
	return fmt.Sprintf("%s%s", c.prefix, token)
}
