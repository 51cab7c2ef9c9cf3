package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/azhengyongqin/redisurl-hub/redisurl"
)

// Client Redis 客户端封装
type Client struct {
	client *redis.Client
	spec   *redisurl.ConnectionSpec
}

// New 根据解析结果创建客户端（不建立连接）
func New(spec *redisurl.ConnectionSpec) (*Client, error) {
	opts, err := Options(spec)
	if err != nil {
		return nil, fmt.Errorf("build redis options: %w", err)
	}
	return &Client{client: redis.NewClient(opts), spec: spec}, nil
}

// Dial 解析连接串、创建客户端并测试连接
func Dial(ctx context.Context, rawURL string) (*Client, error) {
	spec, err := redisurl.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	c, err := New(spec)
	if err != nil {
		return nil, err
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// Ping 测试连接
func (c *Client) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis %s: %w", c.spec.Addr(), err)
	}
	return nil
}

// Spec 返回创建客户端时使用的解析结果
func (c *Client) Spec() *redisurl.ConnectionSpec {
	return c.spec
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.client.Close()
}
