package rss

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/iabetor/rssreader/internal/logger"
)

const (
	defaultFetchTimeout = 10 * time.Second
	defaultMaxBodyBytes = 5 << 20
	defaultUserAgent    = "rssreader/1.0"
)

// Fetcher 获取订阅地址的原始内容。
type Fetcher interface {
	Fetch(ctx context.Context, target string) (string, error)
}

// ProxyOptions 代理抓取器参数，零值字段使用默认值。
type ProxyOptions struct {
	BaseURL      string
	Timeout      time.Duration
	DisableCache bool
	MaxBodyBytes int64
	UserAgent    string
	Client       *http.Client
}

// ProxyFetcher 通过 CORS 中继代理抓取订阅内容。
//
// 代理约定返回 JSON 信封：
//
//	{"contents": "<原始 XML>", "status": {"url": "...", "content_type": "...", "http_code": 200}}
//
// 不接受直接返回原始内容的代理。
type ProxyFetcher struct {
	base         *url.URL
	client       *http.Client
	disableCache bool
	maxBody      int64
	userAgent    string
}

// proxyEnvelope 代理返回的 JSON 信封。
// 上游请求失败（DNS、连接、超时）时 contents 为 null，status 中带 error。
type proxyEnvelope struct {
	Contents *string `json:"contents"`
	Status   struct {
		URL         string `json:"url"`
		ContentType string `json:"content_type"`
		HTTPCode    int    `json:"http_code"`
		Error       *struct {
			Code string `json:"code"`
		} `json:"error"`
	} `json:"status"`
}

// NewProxyFetcher 创建代理抓取器。
func NewProxyFetcher(opts ProxyOptions) (*ProxyFetcher, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("代理地址无效: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("代理地址必须是绝对 URL: %q", opts.BaseURL)
	}

	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultFetchTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	return &ProxyFetcher{
		base:         base,
		client:       client,
		disableCache: opts.DisableCache,
		maxBody:      maxBody,
		userAgent:    ua,
	}, nil
}

// ProxyURL 构造 <base>?url=<编码后的 target> 形式的请求地址。
func (f *ProxyFetcher) ProxyURL(target string) string {
	u := *f.base
	q := u.Query()
	q.Set("url", target)
	if f.disableCache {
		q.Set("disableCache", "true")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Fetch 抓取 target 的原始内容。每次提交只请求一次，不重试。
func (f *ProxyFetcher) Fetch(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.ProxyURL(target), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: proxy responded HTTP %d", ErrNetwork, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}
	if int64(len(body)) > f.maxBody {
		return "", fmt.Errorf("%w: %w: limit %d bytes", ErrNetwork, ErrBodyTooLarge, f.maxBody)
	}

	var env proxyEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", fmt.Errorf("%w: proxy envelope: %v", ErrParse, err)
	}
	if env.Status.Error != nil {
		return "", fmt.Errorf("%w: upstream request failed: %s", ErrNetwork, env.Status.Error.Code)
	}
	if env.Status.HTTPCode >= 400 {
		return "", fmt.Errorf("%w: upstream responded HTTP %d", ErrNetwork, env.Status.HTTPCode)
	}
	if env.Contents == nil {
		return "", fmt.Errorf("%w: proxy returned no contents", ErrNetwork)
	}

	logger.Debugf("[rss] 抓取 %s 完成，%d 字节，耗时 %v", target, len(*env.Contents), time.Since(start))
	return *env.Contents, nil
}
