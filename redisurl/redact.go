package redisurl

import "strings"

// RedactedPassword 脱敏后的密码占位符，与 url.URL.Redacted 保持一致
const RedactedPassword = "xxxxx"

// Redact 把连接串中的密码替换为 RedactedPassword，其余部分原样保留。
// 不要求连接串合法，用于记录用户输入。
func Redact(raw string) string {
	info, ok := rawUserinfo(raw)
	if !ok {
		return raw
	}
	user, _, hasPass := strings.Cut(info, ":")
	if !hasPass {
		return raw
	}
	start := strings.Index(raw, "://") + len("://")
	return raw[:start] + user + ":" + RedactedPassword + raw[start+len(info):]
}
