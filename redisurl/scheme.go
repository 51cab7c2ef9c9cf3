package redisurl

// Scheme 连接串的 scheme
type Scheme string

const (
	SchemeRedis      Scheme = "redis"
	SchemeRediss     Scheme = "rediss"
	SchemeRedisUnix  Scheme = "redis+unix"
	SchemeRedissUnix Scheme = "rediss+unix"
)

const (
	// DefaultPort 非 TLS 默认端口
	DefaultPort = 6379
	// DefaultTLSPort TLS 默认端口
	DefaultTLSPort = 6380
)

// parseScheme 只接受四种 scheme（net/url 已经转成小写）
func parseScheme(s string) (Scheme, bool) {
	switch Scheme(s) {
	case SchemeRedis, SchemeRediss, SchemeRedisUnix, SchemeRedissUnix:
		return Scheme(s), true
	}
	return "", false
}

// IsTLS 是否要求加密连接
func (s Scheme) IsTLS() bool {
	return s == SchemeRediss || s == SchemeRedissUnix
}

// IsUnix 是否通过 Unix socket 连接
func (s Scheme) IsUnix() bool {
	return s == SchemeRedisUnix || s == SchemeRedissUnix
}

// DefaultPort 返回该 scheme 的默认端口；Unix socket 返回 0
func (s Scheme) DefaultPort() int {
	switch {
	case s.IsUnix():
		return 0
	case s.IsTLS():
		return DefaultTLSPort
	default:
		return DefaultPort
	}
}
