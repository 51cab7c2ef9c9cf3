package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/azhengyongqin/redisurl-hub/internal/healthcheck"
)

// Checker 健康检查器接口（*healthcheck.HealthChecker）
type Checker interface {
	LivenessCheck() healthcheck.CheckResult
	ReadinessCheck(ctx context.Context) healthcheck.CheckResult
}

// HealthHandler 健康检查 Handler
type HealthHandler struct {
	checker Checker
	version string
}

// NewHealthHandler 创建 HealthHandler；checker 为 nil 时总是返回 ok
func NewHealthHandler(checker Checker, version string) *HealthHandler {
	return &HealthHandler{
		checker: checker,
		version: version,
	}
}

// Liveness godoc
// @Summary Liveness 检查
// @Description 服务存活检查，用于 Kubernetes liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} healthcheck.CheckResult
// @Router /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	if h.checker == nil {
		c.String(http.StatusOK, "ok")
		return
	}
	result := h.checker.LivenessCheck()
	result.Version = h.version
	c.JSON(http.StatusOK, result)
}

// Readiness godoc
// @Summary Readiness 检查
// @Description 服务就绪检查，探测 REDIS_URL 指向的 Redis（go-redis PING 与 asynq inspector）
// @Tags Health
// @Produce json
// @Success 200 {object} healthcheck.CheckResult
// @Failure 503 {object} healthcheck.CheckResult
// @Router /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.checker == nil {
		c.String(http.StatusOK, "ok")
		return
	}
	result := h.checker.ReadinessCheck(c.Request.Context())
	result.Version = h.version
	if result.Status == "error" {
		c.JSON(http.StatusServiceUnavailable, result)
		return
	}
	c.JSON(http.StatusOK, result)
}
