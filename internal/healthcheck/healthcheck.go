package healthcheck

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/azhengyongqin/redisurl-hub/internal/logger"
	"github.com/azhengyongqin/redisurl-hub/internal/metrics"
)

// Pinger 可以探测连通性的依赖（*redisclient.Client 实现了该接口）
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker 健康检查器
type HealthChecker struct {
	redis    Pinger
	asynqOpt asynq.RedisConnOpt
	timeout  time.Duration
}

// NewHealthChecker 创建健康检查器，redis / asynqOpt 为 nil 时跳过对应检查
func NewHealthChecker(redis Pinger, asynqOpt asynq.RedisConnOpt, timeout time.Duration) *HealthChecker {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthChecker{
		redis:    redis,
		asynqOpt: asynqOpt,
		timeout:  timeout,
	}
}

// CheckResult 健康检查结果
type CheckResult struct {
	Status  string            `json:"status"` // "ok" or "error"
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version,omitempty"`
}

// LivenessCheck 存活检查（快速返回，不检查依赖）
func (h *HealthChecker) LivenessCheck() CheckResult {
	return CheckResult{
		Status: "ok",
		Checks: map[string]string{
			"service": "running",
		},
	}
}

// ReadinessCheck 就绪检查（检查所有依赖）
func (h *HealthChecker) ReadinessCheck(ctx context.Context) CheckResult {
	if ctx == nil {
		ctx = context.Background()
	}
	result := CheckResult{
		Checks: make(map[string]string),
	}

	// 检查 Redis 连接（go-redis）
	if h.redis != nil {
		h.record(&result, "redis", h.checkRedis(ctx))
	}

	// 检查 Redis 连接（通过 Asynq Inspector）
	if h.asynqOpt != nil {
		h.record(&result, "asynq", h.checkAsynq(ctx))
	}

	// 如果所有检查都通过
	if result.Status == "" {
		result.Status = "ok"
	}

	return result
}

func (h *HealthChecker) record(result *CheckResult, name string, err error) {
	metrics.SetDependencyUp(name, err == nil)
	if err != nil {
		metrics.RecordError("healthcheck", name)
		log := logger.WithComponent("healthcheck")
		log.Warn().Err(err).Str("dependency", name).Msg("依赖检查失败")
		result.Checks[name] = "error: " + err.Error()
		result.Status = "error"
		return
	}
	result.Checks[name] = "ok"
}

// checkRedis 检查 Redis 连接
func (h *HealthChecker) checkRedis(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	return h.redis.Ping(ctx)
}

// checkAsynq 检查 Redis 连接（通过 Asynq Inspector）。
// Inspector 不接受 context，超时后直接返回，后台调用结束时自行关闭。
func (h *HealthChecker) checkAsynq(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		inspector := asynq.NewInspector(h.asynqOpt)
		defer inspector.Close()

		// 尝试获取队列列表
		_, err := inspector.Queues()
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("asynq inspector: %w", ctx.Err())
	}
}
