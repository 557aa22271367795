package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// ErrNotConnected Redis 未初始化时返回
var ErrNotConnected = errors.New("redis not connected")

// Nil key 不存在
var Nil = redis.Nil

// SetClient 设置 Redis 客户端（由 internal/initial 调用）
func SetClient(c *redis.Client) {
	client = c
}

func Close() error {
	if client == nil {
		return nil
	}
	return client.Close()
}

func IsConnected() bool {
	return client != nil
}

func GetClient() *redis.Client {
	return client
}

func Get(ctx context.Context, key string) (string, error) {
	if client == nil {
		return "", ErrNotConnected
	}
	return client.Get(ctx, key).Result()
}

func Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if client == nil {
		return ErrNotConnected
	}
	return client.Set(ctx, key, value, expiration).Err()
}

func Del(ctx context.Context, keys ...string) (int64, error) {
	if client == nil {
		return 0, ErrNotConnected
	}
	if len(keys) == 0 {
		return 0, nil
	}
	return client.Del(ctx, keys...).Result()
}
