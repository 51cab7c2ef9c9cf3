package redisurl

import (
	"net"
	"net/url"
	"strconv"
)

// ConnectionSpec 连接串解析结果。
// 网络 scheme 下 Host/Port 有值、UnixSocketPath 为 nil；Unix socket scheme 下相反。
type ConnectionSpec struct {
	Scheme         Scheme     `json:"scheme"`
	Username       *string    `json:"username,omitempty"`
	Password       *string    `json:"password,omitempty"`
	Host           *string    `json:"host,omitempty"`
	Port           *int       `json:"port,omitempty"`
	DB             int        `json:"db"`
	UseTLS         bool       `json:"use_tls"`
	UnixSocketPath *string    `json:"unix_socket_path,omitempty"`
	QueryParams    url.Values `json:"query_params"`
	Fragment       *string    `json:"fragment,omitempty"`
}

// IsUnix 是否为 Unix socket 连接
func (s *ConnectionSpec) IsUnix() bool {
	return s.UnixSocketPath != nil
}

// Network 返回 net.Dial 使用的 network
func (s *ConnectionSpec) Network() string {
	if s.IsUnix() {
		return "unix"
	}
	return "tcp"
}

// Addr 返回 host:port 或 socket 路径
func (s *ConnectionSpec) Addr() string {
	if s.IsUnix() {
		return *s.UnixSocketPath
	}
	var host string
	if s.Host != nil {
		host = *s.Host
	}
	port := s.Scheme.DefaultPort()
	if s.Port != nil {
		port = *s.Port
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// URL 把结果还原成规范化的连接串（包含明文密码）
func (s *ConnectionSpec) URL() *url.URL {
	u := &url.URL{Scheme: string(s.Scheme)}

	var username string
	if s.Username != nil {
		username = *s.Username
	}
	switch {
	case s.Password != nil:
		u.User = url.UserPassword(username, *s.Password)
	case s.Username != nil:
		u.User = url.User(username)
	}

	if s.IsUnix() {
		u.Path = *s.UnixSocketPath
	} else {
		u.Host = s.Addr()
		u.Path = "/" + strconv.Itoa(s.DB)
	}

	if len(s.QueryParams) > 0 {
		u.RawQuery = s.QueryParams.Encode()
	}
	if s.Fragment != nil {
		u.Fragment = *s.Fragment
	}
	return u
}

// String 返回密码已脱敏的连接串，%v 打印时不会泄露密码
func (s *ConnectionSpec) String() string {
	return s.URL().Redacted()
}

// Redacted 返回密码被替换为 RedactedPassword 的副本
func (s *ConnectionSpec) Redacted() *ConnectionSpec {
	out := *s
	if s.Password != nil {
		masked := RedactedPassword
		out.Password = &masked
	}
	return &out
}
