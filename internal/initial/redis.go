package initial

import (
	"context"
	"fmt"
	"time"

	"SupportDesk/internal/config"
	"SupportDesk/pkg/redis"
	"SupportDesk/pkg/zlog"

	goredis "github.com/redis/go-redis/v9"
)

// InitRedis 连接 Redis 并注册到 pkg/redis。未配置或连接失败时通知列表不走缓存
func InitRedis(conf config.RedisConfig) bool {
	host := conf.Host
	port := conf.Port

	// 如果未配置主机，则跳过 Redis 初始化
	if host == "" {
		zlog.Info("Redis 未配置，跳过初始化")
		return false
	}

	if port == 0 {
		port = 6379
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	zlog.Info(fmt.Sprintf("Redis connecting: %s", addr))

	client := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     conf.Password,
		DB:           conf.DB,
		PoolSize:     conf.PoolSize,
		MinIdleConns: conf.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		zlog.Error(fmt.Sprintf("Redis 连接失败: %v", err))
		_ = client.Close()
		return false
	}

	redis.SetClient(client)
	zlog.Info("Redis 连接成功")
	return true
}
