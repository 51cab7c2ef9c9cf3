package redisclient

import (
	"crypto/tls"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/azhengyongqin/redisurl-hub/redisurl"
)

// Options 把解析结果转换为 go-redis 配置。
// query 中可识别的参数与 redis.ParseURL 保持一致，未知参数忽略。
func Options(spec *redisurl.ConnectionSpec) (*redis.Options, error) {
	opts := &redis.Options{
		Network: spec.Network(),
		Addr:    spec.Addr(),
		DB:      spec.DB,
	}
	if spec.Username != nil {
		opts.Username = *spec.Username
	}
	if spec.Password != nil {
		opts.Password = *spec.Password
	}

	q := queryReader{values: spec.QueryParams}
	opts.Protocol = q.int("protocol")
	opts.ClientName = q.string("client_name")
	opts.MaxRetries = q.int("max_retries")
	opts.MinRetryBackoff = q.duration("min_retry_backoff")
	opts.MaxRetryBackoff = q.duration("max_retry_backoff")
	opts.DialTimeout = q.duration("dial_timeout")
	opts.ReadTimeout = q.duration("read_timeout")
	opts.WriteTimeout = q.duration("write_timeout")
	opts.PoolFIFO = q.bool("pool_fifo")
	opts.PoolSize = q.int("pool_size")
	opts.PoolTimeout = q.duration("pool_timeout")
	opts.MinIdleConns = q.int("min_idle_conns")
	opts.MaxIdleConns = q.int("max_idle_conns")
	opts.MaxActiveConns = q.int("max_active_conns")
	opts.ConnMaxIdleTime = q.duration("conn_max_idle_time")
	opts.ConnMaxLifetime = q.duration("conn_max_lifetime")
	skipVerify := q.bool("skip_verify")
	if q.err != nil {
		return nil, q.err
	}

	if spec.UseTLS {
		opts.TLSConfig = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: skipVerify, //nolint:gosec // 由连接串显式开启
		}
		if spec.Host != nil {
			opts.TLSConfig.ServerName = *spec.Host
		}
	}

	return opts, nil
}

// queryReader 读取 query 参数，只记录第一个错误
type queryReader struct {
	values url.Values
	err    error
}

func (r *queryReader) string(name string) string {
	return r.values.Get(name)
}

func (r *queryReader) int(name string) int {
	s := r.values.Get(name)
	if s == "" || r.err != nil {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		r.fail(name, s, err)
		return 0
	}
	return n
}

// duration 接受 Go duration 字符串或整数秒；-1 表示不超时
func (r *queryReader) duration(name string) time.Duration {
	s := r.values.Get(name)
	if s == "" || r.err != nil {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n == -1 {
			return -1
		}
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		r.fail(name, s, err)
		return 0
	}
	return d
}

func (r *queryReader) bool(name string) bool {
	s := r.values.Get(name)
	if s == "" || r.err != nil {
		return false
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		r.fail(name, s, err)
		return false
	}
	return b
}

func (r *queryReader) fail(name, value string, err error) {
	r.err = &redisurl.InvalidURLError{
		Reason: redisurl.ReasonQuery,
		Detail: fmt.Sprintf("invalid value %q for query parameter %s", value, name),
		Err:    err,
	}
}
