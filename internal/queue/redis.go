package asynqx

import (
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/azhengyongqin/redisurl-hub/internal/redisclient"
	"github.com/azhengyongqin/redisurl-hub/redisurl"
)

// NewRedisConnOpt 仅接受 URI（例如 redis://localhost:6379/6、redis+unix:///tmp/redis.sock?db=6）。
// 统一走 redisurl.Parse，Unix socket 和 TLS 与 go-redis 客户端保持一致。
func NewRedisConnOpt(redisURI string) (asynq.RedisClientOpt, error) {
	spec, err := redisurl.Parse(redisURI)
	if err != nil {
		return asynq.RedisClientOpt{}, fmt.Errorf("parse redis url: %w", err)
	}
	return RedisConnOptFromSpec(spec)
}

// RedisConnOptFromSpec 复用 go-redis 的转换结果，asynq 只支持其中一部分参数
func RedisConnOptFromSpec(spec *redisurl.ConnectionSpec) (asynq.RedisClientOpt, error) {
	opts, err := redisclient.Options(spec)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}
	return asynq.RedisClientOpt{
		Network:      opts.Network,
		Addr:         opts.Addr,
		Username:     opts.Username,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolSize:     opts.PoolSize,
		TLSConfig:    opts.TLSConfig,
	}, nil
}
