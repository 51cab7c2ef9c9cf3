package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/azhengyongqin/redisurl-hub/internal/middleware"
	"github.com/azhengyongqin/redisurl-hub/internal/server/handler"
)

type Deps struct {
	// HealthChecker 健康检查器（可选）
	HealthChecker handler.Checker

	// Version 健康检查返回的版本号
	Version string
}

// NewRouter 提供 Gin HTTP API
// @title RedisURL-Hub API
// @version 1.0.0
// @description Redis 连接串解析服务
// @BasePath /
// @schemes http https
func NewRouter(deps Deps) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	// 全局中间件
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.PrometheusMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.PayloadSizeLimit(middleware.MaxPayloadSize))
	r.Use(middleware.CORSMiddleware())

	healthHandler := handler.NewHealthHandler(deps.HealthChecker, deps.Version)
	parseHandler := handler.NewParseHandler()

	// 健康检查路由
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// Prometheus metrics 端点
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger API 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	{
		api.GET("/parse", parseHandler.ParseQuery)
		api.POST("/parse", parseHandler.Parse)
		api.POST("/parse/batch", parseHandler.ParseBatch)
		api.POST("/options", parseHandler.Options)
	}

	return r
}
