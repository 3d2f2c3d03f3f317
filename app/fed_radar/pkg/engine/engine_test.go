package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/collector"
	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/config"
	dm "github.com/iWorld-y/fed_radar/app/fed_radar/pkg/model"
)

type fakeCollector struct {
	articles []dm.Article
	calls    int
	keywords []string
	date     string
}

func (f *fakeCollector) Collect(ctx context.Context, keywords []string, dateFilter string) *collector.Collection {
	f.calls++
	f.keywords = keywords
	f.date = dateFilter
	return &collector.Collection{Articles: append([]dm.Article{}, f.articles...)}
}

// fakeClassifier 按正文返回分数，content 未配置时返回错误
type fakeClassifier struct {
	scores   map[string]float64
	contexts []string
	panicOn  string
}

func (f *fakeClassifier) EvaluateRelevance(ctx context.Context, content, relevanceContext string) (float64, error) {
	if content == f.panicOn {
		panic("classifier exploded")
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	f.contexts = append(f.contexts, relevanceContext)
	score, ok := f.scores[content]
	if !ok {
		return 0, errors.New("model returned garbage")
	}
	return score, nil
}

type fakeSummarizer struct {
	fail  map[string]bool
	calls []string
}

func (f *fakeSummarizer) GenerateSummary(ctx context.Context, content string) (*dm.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.calls = append(f.calls, content)
	if f.fail[content] {
		return nil, errors.New("summary failed")
	}
	return &dm.Summary{
		Paragraph: "Summary of " + content,
		Points:    []string{"point A of " + content, "point B"},
	}, nil
}

func article(n string) dm.Article {
	return dm.NewArticle(dm.SearchResult{
		Link:   "https://nsf.gov/" + n,
		Title:  "Title " + n,
		Source: "NSF",
	}).WithContent("content " + n)
}

func newEngine(articles []dm.Article, scores map[string]float64) (*Engine, *fakeCollector, *fakeClassifier, *fakeSummarizer) {
	col := &fakeCollector{articles: articles}
	cls := &fakeClassifier{scores: scores}
	sum := &fakeSummarizer{fail: map[string]bool{}}
	return New(col, cls, sum, config.ReportConfig{}), col, cls, sum
}

func links(articles []dm.Article) []string {
	out := make([]string, 0, len(articles))
	for _, a := range articles {
		out = append(out, a.Link)
	}
	return out
}

func TestRun_NoArticles(t *testing.T) {
	e, col, _, sum := newEngine(nil, nil)

	resp := e.Run(context.Background(), RunOptions{Keywords: nil, DateFilter: "w"})

	assert.Equal(t, StatusSuccess, resp.Status)
	assert.NotNil(t, resp.Articles)
	assert.Empty(t, resp.Articles)
	assert.Empty(t, resp.ReportContent)
	assert.Equal(t, MessageNoArticles, resp.Message)
	assert.Equal(t, 1, col.calls)
	assert.Empty(t, sum.calls)
}

func TestRun_EndToEnd(t *testing.T) {
	e, col, cls, _ := newEngine(
		[]dm.Article{article("1"), article("2"), article("3")},
		map[string]float64{"content 1": 0.4, "content 2": 0.95, "content 3": 0.7},
	)

	resp := e.Run(context.Background(), RunOptions{
		RecipientEmail: "ops@tuff.edu",
		Keywords:       []string{"NSF", "CHIPS Act"},
		DateFilter:     "m",
	})

	require.Equal(t, StatusSuccess, resp.Status, resp.Message)
	assert.Equal(t, []string{"NSF", "CHIPS Act"}, col.keywords)
	assert.Equal(t, "m", col.date)
	assert.Equal(t, "Success! Generated a report from 3 articles.", resp.Message)

	assert.Equal(t, []string{"https://nsf.gov/2", "https://nsf.gov/3", "https://nsf.gov/1"}, links(resp.Articles))
	assert.Equal(t, []float64{0.95, 0.7, 0.4}, []float64{
		resp.Articles[0].RelevanceScore, resp.Articles[1].RelevanceScore, resp.Articles[2].RelevanceScore,
	})

	require.Len(t, cls.contexts, 3)
	assert.Equal(t, "A relevant article discusses federal activities like new grants, programs, or policy "+
		"affecting universities and innovation ecosystems related to NSF, CHIPS Act.", cls.contexts[0])

	report := resp.ReportContent
	assert.True(t, strings.HasPrefix(report, "# TUFF Fed Landscape Report\n\nThis report summarizes recent federal activities.\n\n---\n\n"))
	assert.Equal(t, 3, strings.Count(report, "\n## "))
	assert.Equal(t, 3, strings.Count(report, "[Read Full Article]("))

	wantFirst := "## Title 2\n" +
		"**Source:** NSF\n" +
		"**Relevance:** 95%\n\n" +
		"Summary of content 2\n\n" +
		"**Key Points:**\n- point A of content 2\n- point B\n\n" +
		"[Read Full Article](https://nsf.gov/2)\n\n---\n\n"
	assert.Contains(t, report, wantFirst)
	assert.Less(t, strings.Index(report, "## Title 2"), strings.Index(report, "## Title 3"))
	assert.Less(t, strings.Index(report, "## Title 3"), strings.Index(report, "## Title 1"))
}

func TestRun_TopNLimitsReportButNotArticles(t *testing.T) {
	var articles []dm.Article
	scores := map[string]float64{}
	for _, n := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"} {
		articles = append(articles, article(n))
		scores["content "+n] = 0.5
	}
	e, _, _, sum := newEngine(articles, scores)

	resp := e.Run(context.Background(), RunOptions{Keywords: []string{"NSF"}})

	require.Equal(t, StatusSuccess, resp.Status)
	assert.Len(t, resp.Articles, 9)
	assert.Len(t, sum.calls, config.DefaultTopN)
	assert.Equal(t, config.DefaultTopN, strings.Count(resp.ReportContent, "\n## "))
}

func TestRun_TiesKeepCollectionOrder(t *testing.T) {
	e, _, _, _ := newEngine(
		[]dm.Article{article("a"), article("b"), article("c"), article("d")},
		map[string]float64{"content a": 0.9, "content b": 0.2, "content c": 0.9, "content d": 0.5},
	)

	resp := e.Run(context.Background(), RunOptions{Keywords: []string{"NSF"}})

	require.Equal(t, StatusSuccess, resp.Status)
	assert.Equal(t, []string{"https://nsf.gov/a", "https://nsf.gov/c", "https://nsf.gov/d", "https://nsf.gov/b"}, links(resp.Articles))
}

func TestRun_ClassifierFailureScoresZero(t *testing.T) {
	e, _, _, _ := newEngine(
		[]dm.Article{article("1"), article("2")},
		map[string]float64{"content 2": 0.3},
	)

	resp := e.Run(context.Background(), RunOptions{Keywords: []string{"NSF"}})

	require.Equal(t, StatusSuccess, resp.Status)
	assert.Equal(t, []string{"https://nsf.gov/2", "https://nsf.gov/1"}, links(resp.Articles))
	assert.Zero(t, resp.Articles[1].RelevanceScore)
	assert.Contains(t, resp.ReportContent, "**Relevance:** 0%")
}

func TestRun_SummaryFailureUsesPlaceholders(t *testing.T) {
	e, _, _, sum := newEngine([]dm.Article{article("1")}, map[string]float64{"content 1": 0.8})
	sum.fail["content 1"] = true

	resp := e.Run(context.Background(), RunOptions{Keywords: []string{"NSF"}})

	require.Equal(t, StatusSuccess, resp.Status)
	assert.Contains(t, resp.ReportContent, "Summary not available.\n\n**Key Points:**\nKey points not available.\n\n")
}

func TestRun_CancelledContextReturnsError(t *testing.T) {
	e, _, _, sum := newEngine([]dm.Article{article("1")}, map[string]float64{"content 1": 0.8})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	resp := e.Run(ctx, RunOptions{Keywords: []string{"NSF"}})

	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Message, context.Canceled.Error())
	assert.NotNil(t, resp.Articles)
	assert.Empty(t, resp.Articles)
	assert.Empty(t, resp.ReportContent)
	assert.Empty(t, sum.calls)
}

func TestRun_PanicBecomesErrorResponse(t *testing.T) {
	e, _, cls, _ := newEngine([]dm.Article{article("1")}, map[string]float64{})
	cls.panicOn = "content 1"

	resp := e.Run(context.Background(), RunOptions{Keywords: []string{"NSF"}})

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "classifier exploded", resp.Message)
	assert.Empty(t, resp.Articles)
	assert.Empty(t, resp.ReportContent)
}

func TestRun_ReportsProgress(t *testing.T) {
	e, _, _, _ := newEngine([]dm.Article{article("1"), article("2")}, map[string]float64{"content 1": 0.1, "content 2": 0.2})

	var progress []int
	resp := e.Run(context.Background(), RunOptions{
		Keywords:         []string{"NSF"},
		ProgressCallback: func(status string, p int) { progress = append(progress, p) },
	})

	require.Equal(t, StatusSuccess, resp.Status)
	require.NotEmpty(t, progress)
	assert.Equal(t, 0, progress[0])
	assert.Equal(t, 100, progress[len(progress)-1])
	assert.IsNonDecreasing(t, progress)
}

func TestNew_CustomReportConfig(t *testing.T) {
	e := New(&fakeCollector{}, &fakeClassifier{}, &fakeSummarizer{}, config.ReportConfig{Title: "Weekly Brief", TopN: 2})
	assert.Equal(t, "Weekly Brief", e.title)
	assert.Equal(t, 2, e.topN)
}

func TestWriteSection_Defaults(t *testing.T) {
	var sb strings.Builder
	WriteSection(&sb, dm.Article{FullContent: "x", RelevanceScore: 0.291}, &dm.Summary{})

	assert.Equal(t, "## No Title\n**Source:** N/A\n**Relevance:** 29%\n\n"+
		"Summary not available.\n\n**Key Points:**\nKey points not available.\n\n"+
		"[Read Full Article](#)\n\n---\n\n", sb.String())
}
