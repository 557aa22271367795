package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	https_server "SupportDesk/api/http"
	"SupportDesk/internal/config"
	"SupportDesk/internal/initial"
	"SupportDesk/pkg/redis"
	"SupportDesk/pkg/zlog"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置与日志
	conf := config.GetConfig()
	if err := zlog.Init(zlog.Options{LogPath: conf.LogPath, Level: conf.Level}); err != nil {
		fmt.Fprintf(os.Stderr, "日志初始化失败: %v\n", err)
		os.Exit(1)
	}
	defer zlog.Sync()

	// 2. 基础设施
	db, err := initial.NewGorm(conf)
	if err != nil {
		zlog.Fatal("数据库初始化失败", zap.Error(err))
	}
	initial.InitRedis(conf.RedisConfig)
	stream := initial.NewNotificationStream(conf.KafkaConfig)

	server := https_server.NewServer(conf, db, stream)
	addr := fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 3. 启动 HTTP 服务
	go func() {
		zlog.Info(fmt.Sprintf("服务器正在启动，监听地址: %s", addr))
		var err error
		if conf.CertFile != "" && conf.KeyFile != "" {
			err = srv.ListenAndServeTLS(conf.CertFile, conf.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("服务器启动失败: " + err.Error())
		}
	}()

	// 4. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("正在关闭服务器...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("服务器关闭超时", zap.Error(err))
	}
	if err := server.Close(); err != nil {
		zlog.Warn("kafka producer close failed", zap.Error(err))
	}
	if err := redis.Close(); err != nil {
		zlog.Warn("redis close failed", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	zlog.Info("服务器已关闭")
}
