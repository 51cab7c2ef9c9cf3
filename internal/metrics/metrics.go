package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/azhengyongqin/redisurl-hub/redisurl"
)

var (
	// HTTP 请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redisurl_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redisurl_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// 解析指标
	ParseTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redisurl_parse_total",
			Help: "Total number of connection strings parsed",
		},
		[]string{"scheme", "result"},
	)

	ParseErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redisurl_parse_errors_total",
			Help: "Total number of rejected connection strings by reason",
		},
		[]string{"reason"},
	)

	// 依赖检查指标
	DependencyUp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "redisurl_dependency_up",
			Help: "Whether the last readiness check of a dependency succeeded",
		},
		[]string{"dependency"},
	)

	// 错误指标
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redisurl_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "type"},
	)
)

// RecordHTTPRequest 记录 HTTP 请求
func RecordHTTPRequest(method, path string, status int, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, statusClass(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordParse 记录一次解析；失败时 scheme 固定为 unknown，避免标签基数失控
func RecordParse(spec *redisurl.ConnectionSpec, err error) {
	if err != nil {
		reason := string(redisurl.ReasonOf(err))
		if reason == "" {
			reason = "other"
		}
		ParseTotal.WithLabelValues("unknown", "error").Inc()
		ParseErrorsTotal.WithLabelValues(reason).Inc()
		return
	}
	ParseTotal.WithLabelValues(string(spec.Scheme), "ok").Inc()
}

// SetDependencyUp 更新依赖检查结果
func SetDependencyUp(dependency string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	DependencyUp.WithLabelValues(dependency).Set(v)
}

// RecordError 记录错误
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// statusClass 将 HTTP 状态码转为类别
func statusClass(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
