package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/azhengyongqin/redisurl-hub/docs" // Swagger docs
	"github.com/azhengyongqin/redisurl-hub/internal/config"
	"github.com/azhengyongqin/redisurl-hub/internal/healthcheck"
	"github.com/azhengyongqin/redisurl-hub/internal/logger"
	asynqx "github.com/azhengyongqin/redisurl-hub/internal/queue"
	"github.com/azhengyongqin/redisurl-hub/internal/redisclient"
	httpserver "github.com/azhengyongqin/redisurl-hub/internal/server"
)

// version 由 -ldflags "-X main.version=..." 注入
var version = "dev"

// @title RedisURL-Hub API
// @version 1.0.0
// @description Redis 连接串解析服务
// @contact.name RedisURL-Hub Support
// @license.name MIT
// @BasePath /
// @schemes http https
// @host localhost:28080

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 初始化结构化日志
	if err := logger.Init(cfg.Log.Format == "json"); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.SetLevel(cfg.Log.Level)

	// 验证配置
	if err := cfg.Validate(); err != nil {
		logger.L.Fatal().Err(err).Msg("配置验证失败")
	}

	spec, err := cfg.RedisSpec()
	if err != nil {
		logger.L.Fatal().Err(err).Msg("解析 REDIS_URL 失败")
	}

	logger.L.Info().
		Str("http", cfg.HTTP.Addr).
		Str("redis_url", spec.String()).
		Str("scheme", string(spec.Scheme)).
		Str("version", version).
		Msg("服务启动")

	// go-redis client：就绪检查使用，不在启动时 PING
	redisClient, err := redisclient.New(spec)
	if err != nil {
		logger.L.Fatal().Err(err).Msg("创建 Redis 客户端失败")
	}
	defer redisClient.Close()

	redisOpt, err := asynqx.RedisConnOptFromSpec(spec)
	if err != nil {
		logger.L.Fatal().Err(err).Msg("创建 asynq 连接配置失败")
	}

	healthChecker := healthcheck.NewHealthChecker(redisClient, redisOpt, cfg.Health.Timeout)

	httpSrv := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: httpserver.NewRouter(httpserver.Deps{
			HealthChecker: healthChecker,
			Version:       version,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// 独立的 metrics 端口（可选）
	var metricsSrv *http.Server
	if cfg.Monitoring.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Monitoring.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.L.Info().Str("addr", metricsSrv.Addr).Msg("Metrics 服务监听")
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.L.Error().Err(err).Msg("Metrics 服务错误")
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.L.Info().Str("addr", cfg.HTTP.Addr).Msg("HTTP 服务监听")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.L.Fatal().Err(err).Msg("HTTP 服务错误")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpSrv.Shutdown(shutdownCtx)
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	logger.L.Info().Msg("服务已优雅关闭")
}
