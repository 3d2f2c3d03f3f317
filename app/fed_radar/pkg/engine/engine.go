package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/collector"
	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/config"
	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/llm"
	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/logger"
	dm "github.com/iWorld-y/fed_radar/app/fed_radar/pkg/model"
	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/scraper"
	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/search/factory"
)

// 响应状态与提示信息
const (
	StatusSuccess = "success"
	StatusError   = "error"

	MessageNoArticles = "No new articles were found for your selected keywords."
)

// Collector 搜索并抓取文章
type Collector interface {
	Collect(ctx context.Context, keywords []string, dateFilter string) *collector.Collection
}

// Classifier 相关性评分
type Classifier interface {
	EvaluateRelevance(ctx context.Context, content, relevanceContext string) (float64, error)
}

// Summarizer 单篇摘要生成
type Summarizer interface {
	GenerateSummary(ctx context.Context, content string) (*dm.Summary, error)
}

// Response 一次处理请求的结构化结果
type Response struct {
	Status        string       `json:"status"`
	Articles      []dm.Article `json:"articles"`
	ReportContent string       `json:"report_content"`
	Message       string       `json:"message"`
}

// RunOptions 运行选项
type RunOptions struct {
	RecipientEmail   string
	Keywords         []string
	DateFilter       string
	ProgressCallback func(status string, progress int)
}

func (o RunOptions) progress(status string, progress int) {
	if o.ProgressCallback != nil {
		o.ProgressCallback(status, progress)
	}
}

// Engine 核心处理引擎
type Engine struct {
	collector  Collector
	classifier Classifier
	summarizer Summarizer
	title      string
	topN       int
}

// New 创建引擎实例，report 中未配置的字段使用默认值
func New(c Collector, classifier Classifier, summarizer Summarizer, report config.ReportConfig) *Engine {
	if report.Title == "" {
		report.Title = config.DefaultReportTitle
	}
	if report.TopN <= 0 {
		report.TopN = config.DefaultTopN
	}
	return &Engine{
		collector:  c,
		classifier: classifier,
		summarizer: summarizer,
		title:      report.Title,
		topN:       report.TopN,
	}
}

// NewFromConfig 按配置组装搜索、抓取与 LLM 组件
func NewFromConfig(ctx context.Context, cfg *config.Config) (*Engine, error) {
	chatModel, err := llm.NewChatModel(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}

	searcher, err := factory.NewSearcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("搜索客户端初始化失败: %w", err)
	}

	// 评分和摘要共享同一个限流器
	limiter := llm.NewLimiter(cfg.Concurrency)

	return New(
		collector.New(searcher, scraper.NewFromConfig(cfg.Scrape)),
		llm.NewClassifier(chatModel, limiter, cfg.LLM),
		llm.NewSummarizer(chatModel, limiter, cfg.LLM),
		cfg.Report,
	), nil
}

// Run 执行一次完整处理：采集 -> 评分 -> 排序 -> 生成报告。
// 任何内部失败（包括 panic）都转换为 status=error 的响应，不会向调用方返回错误。
func (e *Engine) Run(ctx context.Context, opts RunOptions) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Errorf("❌ 处理过程中发生 panic: %v", r)
			resp = errorResponse(fmt.Errorf("%v", r))
		}
	}()

	out, err := e.run(ctx, opts)
	if err != nil {
		logger.Log.Errorf("❌ 处理失败: %v", err)
		return errorResponse(err)
	}
	return out
}

func (e *Engine) run(ctx context.Context, opts RunOptions) (*Response, error) {
	logger.Log.Infof("🚀 开始处理请求 [%s]，关键词 %d 个", opts.RecipientEmail, len(opts.Keywords))
	opts.progress("starting", 0)

	col := e.collector.Collect(ctx, opts.Keywords, opts.DateFilter)
	if len(col.Articles) == 0 {
		logger.Log.Info("⏹️ 未找到文章，结束处理")
		opts.progress("completed", 100)
		return &Response{
			Status:   StatusSuccess,
			Articles: []dm.Article{},
			Message:  MessageNoArticles,
		}, nil
	}
	opts.progress("collected", 30)

	scored, err := e.score(ctx, col.Articles, RelevanceContext(opts.Keywords), opts)
	if err != nil {
		return nil, err
	}
	Rank(scored)

	opts.progress("generating report", 70)
	report, err := e.buildReport(ctx, scored)
	if err != nil {
		return nil, err
	}

	logger.Log.Infof("✅ 报告生成完成，共 %d 篇文章", len(scored))
	opts.progress("completed", 100)
	return &Response{
		Status:        StatusSuccess,
		Articles:      scored,
		ReportContent: report,
		Message:       fmt.Sprintf("Success! Generated a report from %d articles.", len(scored)),
	}, nil
}

// score 依次为每篇文章评分。单篇失败记 0 分；请求被取消或超时则中止。
func (e *Engine) score(ctx context.Context, articles []dm.Article, relevanceContext string, opts RunOptions) ([]dm.Article, error) {
	logger.Log.Infof("🔬 开始为 %d 篇文章评分", len(articles))

	scored := make([]dm.Article, 0, len(articles))
	for i, a := range articles {
		score, err := e.classifier.EvaluateRelevance(ctx, a.FullContent, relevanceContext)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("relevance scoring aborted: %w", ctxErr)
			}
			logger.Log.Warnf("评分失败 [%s]，按 0 分处理: %v", a.Link, err)
			score = 0
		}
		scored = append(scored, a.WithScore(score))
		opts.progress(fmt.Sprintf("scored: %s", a.Link), 30+(i+1)*40/len(articles))
	}
	return scored, nil
}

// RelevanceContext 构造评分使用的相关性描述
func RelevanceContext(keywords []string) string {
	return "A relevant article discusses federal activities like new grants, programs, or policy " +
		"affecting universities and innovation ecosystems related to " + strings.Join(keywords, ", ") + "."
}

// Rank 按相关性评分降序排列，同分保持原有顺序
func Rank(articles []dm.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].RelevanceScore > articles[j].RelevanceScore
	})
}

func errorResponse(err error) *Response {
	return &Response{
		Status:   StatusError,
		Articles: []dm.Article{},
		Message:  err.Error(),
	}
}
