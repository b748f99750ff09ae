// Package fetcher 提供了从远端托管服务抓取原始配置文件的客户端。
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"docs-italia-go/internal/config"
)

// Fetcher 抽象了按组织、仓库和路径抓取原始文件的能力，便于在测试中替换。
type Fetcher interface {
	Fetch(ctx context.Context, org, repo, path string) (string, error)
}

// StatusError 表示远端返回了非 200 的状态码。
type StatusError struct {
	URL        string
	StatusCode int
}

// Error 实现 error 接口。
func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

// IsNotFound 判断错误是否为远端文件不存在。
func IsNotFound(err error) bool {
	se, ok := err.(*StatusError)
	return ok && se.StatusCode == http.StatusNotFound
}

// Client 通过原始内容服务抓取配置文件。
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient 创建一个新的抓取客户端实例。
func NewClient(cfg config.MetadataConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.RawBaseURL, "/"),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.FetchTimeoutSeconds) * time.Second,
		},
	}
}

// NewClientWithHTTP 允许注入自定义的 http.Client，主要用于测试。
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// BuildURL 构造某个配置文件的原始内容地址，约定取默认分支 master。
func (c *Client) BuildURL(org, repo, path string) string {
	return fmt.Sprintf("%s/%s/%s/master/%s", c.baseURL, org, repo, strings.TrimLeft(path, "/"))
}

// Fetch 抓取一个配置文件并以文本形式返回响应体。
// 响应体为空但状态码为 200 时返回空字符串，是否合法由调用方判断；
// 网络错误和非 200 状态原样返回给调用方决定重试策略。
func (c *Client) Fetch(ctx context.Context, org, repo, path string) (string, error) {
	url := c.BuildURL(org, repo, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("创建请求失败: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("抓取远端配置失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("读取响应失败: %w", err)
	}
	return string(body), nil
}
