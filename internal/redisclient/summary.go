package redisclient

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// OptionsSummary go-redis 配置的可展示视图，不包含密码
type OptionsSummary struct {
	Network         string `json:"network" example:"tcp"`
	Addr            string `json:"addr" example:"cache.internal:6380"`
	DB              int    `json:"db" example:"2"`
	Username        string `json:"username,omitempty" example:"user"`
	HasPassword     bool   `json:"has_password" example:"true"`
	TLS             bool   `json:"tls" example:"true"`
	ServerName      string `json:"server_name,omitempty" example:"cache.internal"`
	SkipVerify      bool   `json:"skip_verify,omitempty"`
	ClientName      string `json:"client_name,omitempty"`
	Protocol        int    `json:"protocol,omitempty"`
	MaxRetries      int    `json:"max_retries,omitempty"`
	PoolFIFO        bool   `json:"pool_fifo,omitempty"`
	PoolSize        int    `json:"pool_size,omitempty"`
	MinIdleConns    int    `json:"min_idle_conns,omitempty"`
	MaxIdleConns    int    `json:"max_idle_conns,omitempty"`
	MaxActiveConns  int    `json:"max_active_conns,omitempty"`
	DialTimeout     string `json:"dial_timeout,omitempty" example:"5s"`
	ReadTimeout     string `json:"read_timeout,omitempty"`
	WriteTimeout    string `json:"write_timeout,omitempty"`
	PoolTimeout     string `json:"pool_timeout,omitempty"`
	ConnMaxIdleTime string `json:"conn_max_idle_time,omitempty"`
	ConnMaxLifetime string `json:"conn_max_lifetime,omitempty"`
}

// Summarize 生成配置视图；未设置（零值）的字段表示使用 go-redis 默认值
func Summarize(opts *redis.Options) OptionsSummary {
	s := OptionsSummary{
		Network:         opts.Network,
		Addr:            opts.Addr,
		DB:              opts.DB,
		Username:        opts.Username,
		HasPassword:     opts.Password != "",
		TLS:             opts.TLSConfig != nil,
		ClientName:      opts.ClientName,
		Protocol:        opts.Protocol,
		MaxRetries:      opts.MaxRetries,
		PoolFIFO:        opts.PoolFIFO,
		PoolSize:        opts.PoolSize,
		MinIdleConns:    opts.MinIdleConns,
		MaxIdleConns:    opts.MaxIdleConns,
		MaxActiveConns:  opts.MaxActiveConns,
		DialTimeout:     formatDuration(opts.DialTimeout),
		ReadTimeout:     formatDuration(opts.ReadTimeout),
		WriteTimeout:    formatDuration(opts.WriteTimeout),
		PoolTimeout:     formatDuration(opts.PoolTimeout),
		ConnMaxIdleTime: formatDuration(opts.ConnMaxIdleTime),
		ConnMaxLifetime: formatDuration(opts.ConnMaxLifetime),
	}
	if opts.TLSConfig != nil {
		s.ServerName = opts.TLSConfig.ServerName
		s.SkipVerify = opts.TLSConfig.InsecureSkipVerify
	}
	return s
}

func formatDuration(d time.Duration) string {
	switch {
	case d == 0:
		return ""
	case d < 0:
		return "none"
	default:
		return d.String()
	}
}
