/*
 * @module service/thumbnail/fetcher
 * @description 文章缩略图抓取，读取页面 og:image 等元数据
 * @architecture 外部协作方 - 尽力而为
 * @documentReference DESIGN.md
 * @stateFlow 文章链接 -> 缓存 -> 合并并发请求 -> HTTP 抓取 -> 解析 head -> 图片链接
 * @rules
 *   - 单次抓取有超时，任何失败都返回空字符串，不向调用方返回错误
 *   - 同一链接的并发请求只抓取一次
 *   - 批量抓取限制并发数
 * @dependencies github.com/go-resty/resty/v2, golang.org/x/net/html, golang.org/x/sync
 * @refs api/controllers/session_controller.go, api/controllers/render_controller.go
 */

package thumbnail

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/kingyeung625/hk-school-selector/service/monitoring"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	userAgent = "Mozilla/5.0 (compatible; SchoolSelectorBot/1.0)"

	// 只读取页面开头，元数据都在 head 中
	maxBodyBytes = 512 << 10
)

// Options 抓取选项
type Options struct {
	Timeout     time.Duration
	Concurrency int
}

// Fetcher 缩略图抓取器
type Fetcher struct {
	client      *resty.Client
	cache       Cache
	group       singleflight.Group
	concurrency int
}

// NewFetcher 创建抓取器，cache 为 nil 时使用一小时的进程内缓存
func NewFetcher(opts Options, c Cache) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if c == nil {
		c = NewMemoryCache(time.Hour)
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml")

	return &Fetcher{
		client:      client,
		cache:       c,
		concurrency: opts.Concurrency,
	}
}

// Fetch 返回文章的缩略图链接，没有或失败时返回空字符串
func (f *Fetcher) Fetch(ctx context.Context, articleURL string) string {
	if !isHTTPURL(articleURL) {
		return ""
	}
	if img, ok := f.cache.Get(ctx, articleURL); ok {
		monitoring.ThumbnailFetches.WithLabelValues("hit").Inc()
		return img
	}

	v, _, _ := f.group.Do(articleURL, func() (interface{}, error) {
		img, err := f.fetch(ctx, articleURL)
		if err != nil {
			monitoring.ThumbnailFetches.WithLabelValues("error").Inc()
			slog.Debug("抓取缩略图失败", "url", articleURL, "error", err)
			return "", nil
		}
		if img == "" {
			monitoring.ThumbnailFetches.WithLabelValues("none").Inc()
		} else {
			monitoring.ThumbnailFetches.WithLabelValues("found").Inc()
		}
		f.cache.Set(ctx, articleURL, img)
		return img, nil
	})
	return v.(string)
}

// FetchAll 并发抓取多个链接，结果只包含找到缩略图的链接
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) map[string]string {
	var (
		mu  sync.Mutex
		out = make(map[string]string, len(urls))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for _, u := range urls {
		u := u
		g.Go(func() error {
			if img := f.Fetch(gctx, u); img != "" {
				mu.Lock()
				out[u] = img
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (f *Fetcher) fetch(ctx context.Context, articleURL string) (string, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(articleURL)
	if err != nil {
		return "", err
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() >= 400 {
		return "", fmt.Errorf("status %d", resp.StatusCode())
	}
	ct := resp.Header().Get("Content-Type")
	if ct != "" && !strings.Contains(ct, "html") {
		return "", nil
	}

	base := resp.RawResponse.Request.URL
	return ExtractImage(io.LimitReader(body, maxBodyBytes), base), nil
}

// 元数据优先级，数值越小越优先
var metaPriority = map[string]int{
	"og:image":            1,
	"og:image:url":        2,
	"og:image:secure_url": 3,
	"twitter:image":       4,
	"twitter:image:src":   5,
	"image_src":           6,
}

// ExtractImage 从页面 head 中取出缩略图链接，相对链接按 base 解析
func ExtractImage(r io.Reader, base *url.URL) string {
	z := html.NewTokenizer(r)
	best, bestRank := "", len(metaPriority)+1

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return resolve(best, base)
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "head" {
				return resolve(best, base)
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			var key, value string
			switch tok.Data {
			case "body":
				return resolve(best, base)
			case "meta":
				key, value = attr(tok, "property"), attr(tok, "content")
				if key == "" {
					key = attr(tok, "name")
				}
			case "link":
				key, value = attr(tok, "rel"), attr(tok, "href")
			default:
				continue
			}
			rank, ok := metaPriority[strings.ToLower(strings.TrimSpace(key))]
			value = strings.TrimSpace(value)
			if ok && value != "" && rank < bestRank {
				best, bestRank = value, rank
			}
		}
	}
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func resolve(raw string, base *url.URL) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
