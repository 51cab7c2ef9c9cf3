// Package redisurl 解析 Redis 连接串。
//
// 支持的格式：
//
//	redis://[user[:pass]@]host[:port][/db][?query][#fragment]
//	rediss://[user[:pass]@]host[:port][/db][?query][#fragment]
//	redis+unix://[[user][:pass]@]/path/to/socket[?db=N]
//	rediss+unix://[[user][:pass]@]/path/to/socket[?db=N]
//
// Parse 是纯函数，不做任何 I/O，可以并发调用。
package redisurl

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

// reservedCredentialChars 出现在未编码的用户名/密码里说明 authority 编码有误
const reservedCredentialChars = ":/@"

// Parse 解析连接串，失败时返回 *InvalidURLError
func Parse(raw string) (*ConnectionSpec, error) {
	u, err := url.Parse(raw)
	if err != nil {
		// *url.Error 会带上完整连接串（包括密码），只保留内部错误
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, &InvalidURLError{Reason: ReasonSyntax, Detail: "malformed url", Err: err}
	}

	scheme, ok := parseScheme(u.Scheme)
	if !ok {
		return nil, invalidf(ReasonScheme, "unsupported scheme %q, use redis://, rediss://, redis+unix:// or rediss+unix://", u.Scheme)
	}

	spec := &ConnectionSpec{
		Scheme:      scheme,
		UseTLS:      scheme.IsTLS(),
		QueryParams: url.Values{},
	}

	if scheme.IsUnix() {
		if u.Path == "" {
			return nil, invalidf(ReasonSocketPath, "unix socket path missing")
		}
		path := u.Path
		spec.UnixSocketPath = &path
	} else {
		host := u.Hostname()
		if host == "" {
			return nil, invalidf(ReasonHost, "host missing")
		}
		port, err := parsePort(u.Port(), scheme)
		if err != nil {
			return nil, err
		}
		spec.Host = &host
		spec.Port = &port
	}

	if err := parseCredentials(spec, u, raw); err != nil {
		return nil, err
	}

	// db 取未解码的 path，%35 不是合法的数据库编号
	if path := u.EscapedPath(); !scheme.IsUnix() && len(path) > 1 {
		db, err := parseDB(strings.TrimLeft(path, "/"))
		if err != nil {
			return nil, err
		}
		spec.DB = db
	}

	if u.RawQuery != "" {
		spec.QueryParams = parseQuery(u.RawQuery)
	}

	// Unix socket 的 path 是 socket 路径，db 只能放在 query 里
	if scheme.IsUnix() && spec.QueryParams.Has("db") {
		db, err := parseDB(spec.QueryParams.Get("db"))
		if err != nil {
			return nil, err
		}
		spec.DB = db
	}

	if u.Fragment != "" {
		fragment := u.Fragment
		spec.Fragment = &fragment
	}

	return spec, nil
}

// MustParse 与 Parse 相同，失败时 panic
func MustParse(raw string) *ConnectionSpec {
	spec, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return spec
}

// parsePort 端口为空或为 0 时使用默认端口
func parsePort(s string, scheme Scheme) (int, error) {
	if s == "" {
		return scheme.DefaultPort(), nil
	}
	port, err := strconv.Atoi(s)
	if err != nil || port < 0 || port > 65535 {
		return 0, invalidf(ReasonPort, "invalid port %q", s)
	}
	if port == 0 {
		return scheme.DefaultPort(), nil
	}
	return port, nil
}

// parseDB 不限制取值范围，负数原样保留
func parseDB(s string) (int, error) {
	db, err := strconv.Atoi(s)
	if err != nil {
		return 0, &InvalidURLError{Reason: ReasonDatabase, Detail: "invalid database number " + strconv.Quote(s), Err: err}
	}
	return db, nil
}

// parseCredentials 先校验未解码的用户名/密码，再取 net/url 解码后的值。
// 编码后的 %3A %2F %40 是携带这些字符的唯一方式。
func parseCredentials(spec *ConnectionSpec, u *url.URL, raw string) error {
	if u.User == nil {
		return nil
	}

	info, ok := rawUserinfo(raw)
	if !ok {
		return nil
	}
	rawUser, rawPass, hasPass := strings.Cut(info, ":")
	if i := strings.IndexAny(rawUser, reservedCredentialChars); i >= 0 {
		return invalidf(ReasonCredentials, "username contains reserved character %q, percent-encode it", rawUser[i])
	}
	if i := strings.IndexAny(rawPass, reservedCredentialChars); i >= 0 {
		return invalidf(ReasonCredentials, "password contains reserved character %q, percent-encode it", rawPass[i])
	}

	if username := u.User.Username(); username != "" {
		spec.Username = &username
	}
	if hasPass {
		password, _ := u.User.Password()
		spec.Password = &password
	}
	return nil
}

// parseQuery 只按 '&' 切分；无法解码的片段原样保留，不会失败。
// 空值保留为 ""。
func parseQuery(raw string) url.Values {
	q := url.Values{}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		key = unescapeQuery(key)
		q[key] = append(q[key], unescapeQuery(value))
	}
	return q
}

func unescapeQuery(s string) string {
	if v, err := url.QueryUnescape(s); err == nil {
		return v
	}
	return strings.ReplaceAll(s, "+", " ")
}

// rawUserinfo 返回 authority 中最后一个 '@' 之前的原始部分，切分规则与 net/url 一致
func rawUserinfo(raw string) (string, bool) {
	i := strings.Index(raw, "://")
	if i < 0 {
		return "", false
	}
	authority := raw[i+len("://"):]
	if j := strings.IndexAny(authority, "/?#"); j >= 0 {
		authority = authority[:j]
	}
	at := strings.LastIndex(authority, "@")
	if at < 0 {
		return "", false
	}
	return authority[:at], true
}
