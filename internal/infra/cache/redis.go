package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const blacklistPrefix = "jwt:blacklist:"

func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 10 * time.Second,
		ReadTimeout: 10 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// TokenBlacklist implementa auth.Blacklist sobre o Redis.
type TokenBlacklist struct {
	Client *redis.Client
}

func NewTokenBlacklist(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{Client: client}
}

func blacklistKey(jti string) string {
	return blacklistPrefix + jti
}

func (b *TokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return b.Client.Set(ctx, blacklistKey(jti), "revoked", ttl).Err()
}

func (b *TokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.Client.Exists(ctx, blacklistKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (b *TokenBlacklist) Ping(ctx context.Context) error {
	return b.Client.Ping(ctx).Err()
}
