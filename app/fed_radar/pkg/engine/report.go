package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/logger"
	dm "github.com/iWorld-y/fed_radar/app/fed_radar/pkg/model"
)

// 摘要失败时的占位文本
const (
	SummaryUnavailable   = "Summary not available."
	KeyPointsUnavailable = "Key points not available."
)

// buildReport 为排名前 topN 的文章生成摘要并拼接 Markdown 报告
func (e *Engine) buildReport(ctx context.Context, ranked []dm.Article) (string, error) {
	top := ranked[:min(e.topN, len(ranked))]
	logger.Log.Infof("🤖 为前 %d 篇文章生成摘要", len(top))

	var sb strings.Builder
	sb.WriteString(ReportHeader(e.title))

	for _, a := range top {
		summary, err := e.summarizer.GenerateSummary(ctx, a.FullContent)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", fmt.Errorf("summary generation aborted: %w", ctxErr)
			}
			logger.Log.Warnf("摘要生成失败 [%s]: %v", a.Link, err)
			summary = nil
		}
		WriteSection(&sb, a, summary)
	}
	return sb.String(), nil
}

// ReportHeader 报告标题与导语
func ReportHeader(title string) string {
	return fmt.Sprintf("# %s\n\nThis report summarizes recent federal activities.\n\n---\n\n", title)
}

// WriteSection 追加单篇文章的报告段落，summary 为 nil 时使用占位文本
func WriteSection(sb *strings.Builder, a dm.Article, summary *dm.Summary) {
	paragraph := SummaryUnavailable
	points := KeyPointsUnavailable
	if summary != nil {
		if summary.Paragraph != "" {
			paragraph = summary.Paragraph
		}
		if len(summary.Points) > 0 {
			points = "- " + strings.Join(summary.Points, "\n- ")
		}
	}

	fmt.Fprintf(sb, "## %s\n", orDefault(a.Title, "No Title"))
	fmt.Fprintf(sb, "**Source:** %s\n", orDefault(a.Source, "N/A"))
	fmt.Fprintf(sb, "**Relevance:** %d%%\n\n", int(a.RelevanceScore*100))
	fmt.Fprintf(sb, "%s\n\n**Key Points:**\n%s\n\n", paragraph, points)
	fmt.Fprintf(sb, "[Read Full Article](%s)\n\n---\n\n", orDefault(a.Link, "#"))
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
