package collector

import (
	"context"
	"errors"

	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/logger"
	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/model"
	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/query"
	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/search"
)

// Scraper 并发抓取正文
type Scraper interface {
	ScrapeAll(ctx context.Context, results []model.SearchResult) []model.Outcome[model.Article]
}

// Failure 单篇抓取失败记录
type Failure struct {
	Link string
	Err  error
}

// Collection 一轮采集（搜索 -> 去重 -> 抓取）的结果
type Collection struct {
	Query     query.Query
	SearchErr error
	Found     int // 去重截断后的候选数
	Failures  []Failure
	Articles  []model.Article
}

// Collector 采集编排器
type Collector struct {
	searcher search.Searcher
	scraper  Scraper
	limit    int
}

// New 创建采集编排器
func New(searcher search.Searcher, scraper Scraper) *Collector {
	return &Collector{searcher: searcher, scraper: scraper, limit: MaxArticles}
}

// Collect 执行一轮采集，只返回抓取到非空正文的文章。
// 内部任何失败都只会缩小结果集，不会向上返回错误。
func (c *Collector) Collect(ctx context.Context, keywords []string, dateFilter string) *Collection {
	col := &Collection{Articles: []model.Article{}}

	q, ok := query.Build(keywords, dateFilter)
	if !ok {
		logger.Log.Info("未提供关键词，跳过搜索")
		return col
	}
	col.Query = q

	found := c.search(ctx, q)
	if !found.OK() {
		col.SearchErr = found.Err
		return col
	}

	unique := Dedupe(found.Value, c.limit)
	col.Found = len(unique)
	logger.Log.Infof("去重后共 %d 篇文章待抓取", len(unique))
	if len(unique) == 0 {
		return col
	}

	for _, out := range c.scraper.ScrapeAll(ctx, unique) {
		if !out.OK() {
			col.Failures = append(col.Failures, Failure{Link: out.Value.Link, Err: out.Err})
			continue
		}
		if out.Value.FullContent == "" {
			continue
		}
		col.Articles = append(col.Articles, out.Value)
	}

	logger.Log.Infof("✅ 成功抓取 %d 篇有效文章", len(col.Articles))
	return col
}

// search 只调用一次搜索接口，失败时记录日志并返回失败结果
func (c *Collector) search(ctx context.Context, q query.Query) model.Outcome[[]model.SearchResult] {
	logger.Log.Infof("🔎 执行搜索: '%s'，时间范围 '%s'", q.Text, q.DateFilter)

	resp, err := c.searcher.Search(ctx, &search.Request{Query: q.Text, DateFilter: q.DateFilter, Keywords: q.Keywords})
	if err != nil {
		logger.Log.Errorf("搜索失败: %v", err)
		return model.Fail[[]model.SearchResult](nil, err)
	}
	if resp == nil {
		err := errors.New("empty search response")
		logger.Log.Errorf("搜索失败: %v", err)
		return model.Fail[[]model.SearchResult](nil, err)
	}
	return model.Succeed(resp.Results)
}
