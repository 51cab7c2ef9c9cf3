package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/azhengyongqin/redisurl-hub/redisurl"
)

// Client redisurl-hub HTTP API 客户端
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Retry      RetryConfig
}

// NewClient 创建客户端
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		Retry: DefaultRetryConfig(),
	}
}

// ParseResult 单个连接串的解析结果（密码已被服务端脱敏）
type ParseResult struct {
	Item        *redisurl.ConnectionSpec `json:"item"`
	RedactedURL string                   `json:"redacted_url"`
}

// BatchItem 批量解析的单项结果
type BatchItem struct {
	Index  int                      `json:"index"`
	Input  string                   `json:"input"`
	Item   *redisurl.ConnectionSpec `json:"item,omitempty"`
	Error  string                   `json:"error,omitempty"`
	Reason redisurl.Reason          `json:"reason,omitempty"`
}

// BatchResult 批量解析结果
type BatchResult struct {
	Items     []BatchItem `json:"items"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

// Options 连接串对应的客户端配置视图
type Options struct {
	Network     string `json:"network"`
	Addr        string `json:"addr"`
	DB          int    `json:"db"`
	Username    string `json:"username,omitempty"`
	HasPassword bool   `json:"has_password"`
	TLS         bool   `json:"tls"`
	ServerName  string `json:"server_name,omitempty"`
	PoolSize    int    `json:"pool_size,omitempty"`
	DialTimeout string `json:"dial_timeout,omitempty"`
	ReadTimeout string `json:"read_timeout,omitempty"`
}

// APIError 非 2xx 响应。422 时 Unwrap 返回 *redisurl.InvalidURLError，
// 因此 errors.Is(err, redisurl.ErrInvalidURL) 成立。
type APIError struct {
	StatusCode int
	Message    string
	Reason     redisurl.Reason
}

func (e *APIError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode != http.StatusUnprocessableEntity {
		return nil
	}
	return &redisurl.InvalidURLError{Reason: e.Reason, Detail: strings.TrimPrefix(e.Message, redisurl.ErrInvalidURL.Error()+": ")}
}

// Parse 解析连接串
func (c *Client) Parse(ctx context.Context, rawURL string) (*ParseResult, error) {
	var result ParseResult
	if err := c.post(ctx, "/api/v1/parse", map[string]string{"url": rawURL}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ParseBatch 批量解析，单项失败体现在 BatchItem.Error 中
func (c *Client) ParseBatch(ctx context.Context, rawURLs []string) (*BatchResult, error) {
	var result BatchResult
	if err := c.post(ctx, "/api/v1/parse/batch", map[string][]string{"urls": rawURLs}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Options 查询连接串对应的客户端配置
func (c *Client) Options(ctx context.Context, rawURL string) (*Options, error) {
	var result struct {
		Item Options `json:"item"`
	}
	if err := c.post(ctx, "/api/v1/options", map[string]string{"url": rawURL}, &result); err != nil {
		return nil, err
	}
	return &result.Item, nil
}

// Ready 调用 /readyz，服务未就绪时返回 *APIError
func (c *Client) Ready(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/readyz", nil, nil)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, data, out)
}

// do 发送请求；网络错误与 5xx 按 Retry 配置重试
func (c *Client) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	endpoint, err := url.JoinPath(c.BaseURL, path)
	if err != nil {
		return fmt.Errorf("build url: %w", err)
	}

	return withRetry(ctx, c.Retry, func() error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return permanent(fmt.Errorf("create request: %w", err))
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return fmt.Errorf("send request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			apiErr := decodeAPIError(resp)
			if resp.StatusCode >= 500 {
				return apiErr
			}
			return permanent(apiErr)
		}

		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	})
}

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	data, _ := io.ReadAll(resp.Body)

	var body struct {
		Error  string `json:"error"`
		Reason string `json:"reason"`
	}
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Reason = redisurl.Reason(body.Reason)
	} else {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	return apiErr
}
