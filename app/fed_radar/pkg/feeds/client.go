package feeds

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/logger"
	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/model"
	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/search"
)

// DefaultMaxResults 单次搜索最多返回的条目数
const DefaultMaxResults = 20

// Client 基于 RSS/Atom 订阅源的搜索实现：拉取全部订阅源，按关键词与时间窗口过滤
type Client struct {
	urls   []string
	client *http.Client
	now    func() time.Time
}

// NewClient 创建订阅源客户端，timeout 单位为秒
func NewClient(urls []string, timeout int) *Client {
	t := time.Duration(timeout) * time.Second
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{urls: urls, client: &http.Client{Timeout: t}, now: time.Now}
}

// Ensure Client implements search.Searcher
var _ search.Searcher = (*Client)(nil)

// Search 并发拉取订阅源。单个订阅源失败只记录日志，全部失败时返回错误。
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	if len(c.urls) == 0 {
		return nil, errors.New("no feeds configured")
	}

	feeds := make([]*gofeed.Feed, len(c.urls))
	errs := make([]error, len(c.urls))

	var g errgroup.Group
	for i, u := range c.urls {
		g.Go(func() error {
			// Parser 不是并发安全的，每个订阅源单独创建
			parser := gofeed.NewParser()
			parser.Client = c.client
			feed, err := parser.ParseURLWithContext(u, ctx)
			if err != nil {
				logger.Log.Warnf("订阅源拉取失败 [%s]: %v", u, err)
				errs[i] = fmt.Errorf("%s: %w", u, err)
				return nil
			}
			feeds[i] = feed
			return nil
		})
	}
	_ = g.Wait()

	if err := errors.Join(errs...); err != nil && countNil(feeds) == len(feeds) {
		return nil, fmt.Errorf("all feeds failed: %w", err)
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	var since time.Time
	if w := search.Window(req.DateFilter); w > 0 {
		since = c.now().Add(-w)
	}

	results := make([]model.SearchResult, 0)
	for i, feed := range feeds {
		if feed == nil {
			continue
		}
		for _, item := range feed.Items {
			if len(results) >= maxResults {
				return &search.Response{Results: results}, nil
			}
			if !matches(item, req.Keywords) || !within(item, since) {
				continue
			}
			results = append(results, toResult(item, feed, c.urls[i], len(results)+1))
		}
	}
	return &search.Response{Results: results}, nil
}

// matches 标题或摘要包含任一关键词（不区分大小写）；没有关键词时全部匹配
func matches(item *gofeed.Item, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	text := strings.ToLower(item.Title + " " + item.Description)
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" && strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// within 发布时间在窗口内；没有发布时间的条目保留
func within(item *gofeed.Item, since time.Time) bool {
	if since.IsZero() {
		return true
	}
	published := item.PublishedParsed
	if published == nil {
		published = item.UpdatedParsed
	}
	return published == nil || !published.Before(since)
}

func toResult(item *gofeed.Item, feed *gofeed.Feed, feedURL string, position int) model.SearchResult {
	source := feed.Title
	if source == "" {
		if u, err := url.Parse(feedURL); err == nil {
			source = u.Hostname()
		}
	}

	r := model.SearchResult{
		Link:     item.Link,
		Title:    item.Title,
		Source:   source,
		Snippet:  item.Description,
		Date:     item.Published,
		Position: position,
	}
	if item.Image != nil {
		r.ImageURL = item.Image.URL
	}
	return r
}

func countNil(feeds []*gofeed.Feed) int {
	n := 0
	for _, f := range feeds {
		if f == nil {
			n++
		}
	}
	return n
}
