package cache

import (
	"context"
	"errors"
	"time"

	"SupportDesk/pkg/redis"
	"SupportDesk/pkg/zlog"

	"go.uber.org/zap"
)

const keyPrefix = "notifications_list:"

// ListCache 按用户缓存通知列表的序列化结果
type ListCache interface {
	Get(ctx context.Context, userID string) ([]byte, bool)
	Set(ctx context.Context, userID string, data []byte)
	Invalidate(ctx context.Context, userID string)
}

type redisListCache struct {
	ttl time.Duration
}

// NewRedisListCache Redis 未连接时所有操作直接跳过
func NewRedisListCache(ttl time.Duration) ListCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &redisListCache{ttl: ttl}
}

func Key(userID string) string {
	return keyPrefix + userID
}

func (c *redisListCache) Get(ctx context.Context, userID string) ([]byte, bool) {
	if !redis.IsConnected() {
		return nil, false
	}
	v, err := redis.Get(ctx, Key(userID))
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zlog.Warn("notification cache get failed", zap.String("user_id", userID), zap.Error(err))
		}
		return nil, false
	}
	return []byte(v), true
}

func (c *redisListCache) Set(ctx context.Context, userID string, data []byte) {
	if !redis.IsConnected() {
		return
	}
	if err := redis.Set(ctx, Key(userID), data, c.ttl); err != nil {
		zlog.Warn("notification cache set failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func (c *redisListCache) Invalidate(ctx context.Context, userID string) {
	if !redis.IsConnected() {
		return
	}
	if _, err := redis.Del(ctx, Key(userID)); err != nil {
		zlog.Warn("notification cache invalidate failed", zap.String("user_id", userID), zap.Error(err))
	}
}

type nopCache struct{}

// Nop 不缓存
func Nop() ListCache {
	return nopCache{}
}

func (nopCache) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (nopCache) Set(context.Context, string, []byte)        {}
func (nopCache) Invalidate(context.Context, string)         {}
