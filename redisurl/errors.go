package redisurl

import (
	"errors"
	"fmt"
)

// Reason 标识是哪一项校验失败
type Reason string

const (
	ReasonSyntax      Reason = "syntax"
	ReasonScheme      Reason = "scheme"
	ReasonHost        Reason = "host"
	ReasonPort        Reason = "port"
	ReasonSocketPath  Reason = "socket_path"
	ReasonCredentials Reason = "credentials"
	ReasonDatabase    Reason = "database"
	ReasonQuery       Reason = "query" // 仅由客户端配置转换产生
)

// ErrInvalidURL 所有解析失败都满足 errors.Is(err, ErrInvalidURL)
var ErrInvalidURL = errors.New("invalid redis url")

// InvalidURLError 解析失败的唯一错误类型。
// Detail 不会包含密码。
type InvalidURLError struct {
	Reason Reason
	Detail string
	Err    error
}

func (e *InvalidURLError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrInvalidURL, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidURL, e.Detail)
}

func (e *InvalidURLError) Unwrap() error { return e.Err }

func (e *InvalidURLError) Is(target error) bool { return target == ErrInvalidURL }

func invalidf(reason Reason, format string, args ...any) *InvalidURLError {
	return &InvalidURLError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// ReasonOf 取出 err 链上的 Reason，非解析错误返回空字符串
func ReasonOf(err error) Reason {
	var ie *InvalidURLError
	if errors.As(err, &ie) {
		return ie.Reason
	}
	return ""
}
