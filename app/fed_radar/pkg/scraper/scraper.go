package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/sync/errgroup"

	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/config"
	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/logger"
	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/model"
)

// ErrNoContent 页面中没有可提取的文本
var ErrNoContent = errors.New("no content extracted")

// StatusError 目标页面返回非 2xx 状态码
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.Status)
}

// Options 抓取参数，零值字段使用 config 中的默认值
type Options struct {
	Client            *http.Client
	Timeout           time.Duration
	Concurrency       int
	UserAgent         string
	MinParagraphChars int
	MaxBodyBytes      int64
	Extractor         string
}

// Scraper 文章正文抓取器
type Scraper struct {
	client            *http.Client
	timeout           time.Duration
	concurrency       int
	userAgent         string
	minParagraphChars int
	maxBodyBytes      int64
	extractor         string
}

// New 创建抓取器
func New(opts Options) *Scraper {
	if opts.Timeout <= 0 {
		opts.Timeout = config.DefaultScrapeTimeout * time.Second
	}
	if opts.Client == nil {
		// 默认 Client 自动跟随重定向
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = config.DefaultScrapeConcurrency
	}
	if opts.UserAgent == "" {
		opts.UserAgent = config.DefaultUserAgent
	}
	if opts.MinParagraphChars <= 0 {
		opts.MinParagraphChars = config.DefaultMinParagraphChars
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = config.DefaultMaxBodyBytes
	}
	if opts.Extractor == "" {
		opts.Extractor = config.ExtractorParagraphs
	}
	return &Scraper{
		client:            opts.Client,
		timeout:           opts.Timeout,
		concurrency:       opts.Concurrency,
		userAgent:         opts.UserAgent,
		minParagraphChars: opts.MinParagraphChars,
		maxBodyBytes:      opts.MaxBodyBytes,
		extractor:         opts.Extractor,
	}
}

// NewFromConfig 根据配置创建抓取器
func NewFromConfig(cfg config.ScrapeConfig) *Scraper {
	return New(Options{
		Timeout:           time.Duration(cfg.Timeout) * time.Second,
		Concurrency:       cfg.Concurrency,
		UserAgent:         cfg.UserAgent,
		MinParagraphChars: cfg.MinParagraphChars,
		MaxBodyBytes:      cfg.MaxBodyBytes,
		Extractor:         cfg.Extractor,
	})
}

// ScrapeAll 并发抓取全部结果，等待所有任务结束后按输入顺序返回。
// 单篇失败只体现在对应的 Outcome 中，不影响其他文章。
func (s *Scraper) ScrapeAll(ctx context.Context, results []model.SearchResult) []model.Outcome[model.Article] {
	out := make([]model.Outcome[model.Article], len(results))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, r := range results {
		g.Go(func() error {
			out[i] = s.Scrape(ctx, r)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// Scrape 抓取单篇文章，失败时返回携带原因的 Outcome 而不是 panic 或中断
func (s *Scraper) Scrape(ctx context.Context, r model.SearchResult) model.Outcome[model.Article] {
	article := model.NewArticle(r)
	logger.Log.Infof("  -> 抓取: %s", r.Link)

	text, err := s.fetchText(ctx, r.Link)
	if err != nil {
		logger.Log.Warnf("  -> 抓取失败 [%s]: %v", r.Link, err)
		return model.Fail(article, err)
	}
	return model.Succeed(article.WithContent(text))
}

func (s *Scraper) fetchText(ctx context.Context, link string) (string, error) {
	if strings.TrimSpace(link) == "" {
		return "", errors.New("empty link")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	res, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request document: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", &StatusError{StatusCode: res.StatusCode, Status: res.Status}
	}

	reader, err := charset.NewReader(io.LimitReader(res.Body, s.maxBodyBytes), res.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	return s.extract(body, res.Request.URL)
}

// extract 依次尝试 readability（若启用）、段落文本，都不足阈值时退回整个 body 文本
func (s *Scraper) extract(body []byte, pageURL *url.URL) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse document: %w", err)
	}

	var text string
	if s.extractor == config.ExtractorReadability {
		text = readabilityText(body, pageURL)
	}
	if runeLen(text) < s.minParagraphChars {
		text = ParagraphText(doc)
	}
	if runeLen(text) < s.minParagraphChars {
		text = BodyText(doc)
	}

	text = strings.ToValidUTF8(text, "")
	if text == "" {
		return "", ErrNoContent
	}
	return text, nil
}

// ParagraphText 提取所有 <p> 的文本，以单个空格连接
func ParagraphText(doc *goquery.Document) string {
	parts := make([]string, 0)
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		if t := normalizeSpace(p.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, " ")
}

// BodyText 提取 body 下全部可见文本（去除脚本和样式），以单个空格连接
func BodyText(doc *goquery.Document) string {
	body := doc.Find("body").Clone()
	body.Find("script, style, noscript, template, svg").Remove()

	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range body.Nodes {
		walk(n)
	}
	return normalizeSpace(strings.Join(parts, " "))
}

func readabilityText(body []byte, pageURL *url.URL) string {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		logger.Log.Debugf("readability 解析失败 [%s]: %v", pageURL, err)
		return ""
	}
	return normalizeSpace(article.TextContent)
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
