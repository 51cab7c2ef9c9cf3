package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/azhengyongqin/redisurl-hub/redisurl"
)

// Config 应用配置
type Config struct {
	HTTP       HTTPConfig
	Redis      RedisConfig
	Log        LogConfig
	Health     HealthConfig
	Monitoring MonitoringConfig
}

// HTTPConfig HTTP 服务配置
type HTTPConfig struct {
	Addr string
}

// RedisConfig 服务自身依赖的 Redis（就绪检查使用）
type RedisConfig struct {
	URL string
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string
	Format string // console 或 json
}

// HealthConfig 健康检查配置
type HealthConfig struct {
	Timeout time.Duration
}

// MonitoringConfig 监控配置
type MonitoringConfig struct {
	Enabled bool
	Port    int
}

// Load 加载配置
func Load() (*Config, error) {
	v := viper.New()

	// 设置配置文件名和路径
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.AddConfigPath("../..")

	// 允许从环境变量读取（优先级最高）
	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":28080")
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("HEALTH_TIMEOUT", 2*time.Second)
	v.SetDefault("MONITORING_PORT", 29091)

	// 读取配置文件（如果存在）
	_ = v.ReadInConfig() // 忽略错误，因为可能只使用环境变量

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("HTTP_ADDR")
	cfg.Redis.URL = NormalizeRedisURL(v.GetString("REDIS_URL"))
	cfg.Log.Level = strings.ToLower(v.GetString("LOG_LEVEL"))
	cfg.Log.Format = strings.ToLower(v.GetString("LOG_FORMAT"))
	cfg.Health.Timeout = v.GetDuration("HEALTH_TIMEOUT")
	cfg.Monitoring.Enabled = v.GetBool("MONITORING_ENABLED")
	cfg.Monitoring.Port = v.GetInt("MONITORING_PORT")

	if cfg.Health.Timeout <= 0 {
		return nil, fmt.Errorf("HEALTH_TIMEOUT must be positive")
	}

	return cfg, nil
}

// NormalizeRedisURL 兼容只写 host:port 的旧配置
func NormalizeRedisURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, "://") {
		return raw
	}
	return "redis://" + raw + "/0"
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return fmt.Errorf("HTTP address is required")
	}
	if c.Redis.URL == "" {
		return fmt.Errorf("Redis URL is required")
	}
	if _, err := redisurl.Parse(c.Redis.URL); err != nil {
		return fmt.Errorf("REDIS_URL: %w", err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be console or json (got %q)", c.Log.Format)
	}
	return nil
}

// RedisSpec 返回解析后的 REDIS_URL，调用前应先 Validate
func (c *Config) RedisSpec() (*redisurl.ConnectionSpec, error) {
	return redisurl.Parse(c.Redis.URL)
}
