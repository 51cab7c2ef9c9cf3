package middleware

import (
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/azhengyongqin/redisurl-hub/internal/logger"
	"github.com/azhengyongqin/redisurl-hub/redisurl"
)

// 请求上下文中由 handler 写入、供访问日志读取的键
const (
	// CtxRedisURL 已脱敏的连接串
	CtxRedisURL = "redis_url"
	// CtxParseReason 解析失败原因
	CtxParseReason = "parse_reason"
)

// LoggingMiddleware 记录请求日志。
// 请求体里是带密码的连接串，所以不记录请求体，只记录 handler 写入的脱敏连接串。
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 记录请求开始时间
		start := time.Now()

		// 获取路径（优先使用路由模板）
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		// 处理请求
		c.Next()

		status := c.Writer.Status()

		// 构建日志事件
		var logEvent *zerolog.Event
		switch {
		case status >= 500:
			logEvent = logger.L.Error()
		case status >= 400:
			logEvent = logger.L.Warn()
		default:
			logEvent = logger.L.Info()
		}

		// 添加通用字段
		if requestID := GetRequestID(c); requestID != "" {
			logEvent = logEvent.Str("request_id", requestID)
		}
		logEvent = logEvent.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("duration(ms)", time.Since(start)).
			Int("response_size", c.Writer.Size()).
			Str("client_ip", c.ClientIP())

		if c.Request.URL.RawQuery != "" {
			logEvent = logEvent.Str("query", redactQuery(c.Request.URL.Query()))
		}
		if v := c.GetString(CtxRedisURL); v != "" {
			logEvent = logEvent.Str("redis_url", v)
		}
		if v := c.GetString(CtxParseReason); v != "" {
			logEvent = logEvent.Str("reason", v)
		}

		// 记录错误信息（如果有）
		if len(c.Errors) > 0 {
			logEvent = logEvent.Str("errors", c.Errors.String())
		}

		logEvent.Msg("HTTP 请求")
	}
}

// redactQuery 对每个 query 值做密码脱敏（?url=redis://u:p@h）
func redactQuery(q url.Values) string {
	for key, values := range q {
		for i, v := range values {
			q[key][i] = redisurl.Redact(v)
		}
	}
	return q.Encode()
}

// GetRequestID 从上下文中获取请求 ID
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}
