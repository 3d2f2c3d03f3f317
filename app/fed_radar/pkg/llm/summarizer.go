package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/config"
	dm "github.com/iWorld-y/fed_radar/app/fed_radar/pkg/model"
)

const summaryPrompt = `You write a weekly intelligence brief on federal activity for university research offices.
Read the article below and respond with JSON only, no markdown:
{
	"paragraph": "A 3-4 sentence narrative summary focused on federal grants, programs or policy.",
	"points": ["key point 1", "key point 2", "key point 3"]
}

Article:
%s`

type summaryResponse struct {
	Paragraph string          `json:"paragraph"`
	Points    json.RawMessage `json:"points"`
}

// Summarizer 基于 LLM 的摘要生成
type Summarizer struct {
	caller jsonCaller
}

// NewSummarizer 创建摘要生成器
func NewSummarizer(cm model.BaseChatModel, limiter *rate.Limiter, cfg config.LLMConfig) *Summarizer {
	return &Summarizer{caller: newJSONCaller(cm, limiter, cfg)}
}

// GenerateSummary 生成叙述段落和要点列表
func (s *Summarizer) GenerateSummary(ctx context.Context, content string) (*dm.Summary, error) {
	var resp summaryResponse
	prompt := fmt.Sprintf(summaryPrompt, s.caller.truncate(content))
	if err := s.caller.generateJSON(ctx, "You are a JSON generator. Output only JSON.", prompt, &resp); err != nil {
		return nil, fmt.Errorf("generate summary: %w", err)
	}

	return &dm.Summary{
		Paragraph: strings.TrimSpace(resp.Paragraph),
		Points:    parsePoints(resp.Points),
	}, nil
}

// parsePoints 兼容模型把要点返回成字符串数组或多行字符串两种形式
func parsePoints(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil
		}
		list = strings.Split(text, "\n")
	}

	points := make([]string, 0, len(list))
	for _, p := range list {
		p = strings.TrimSpace(p)
		p = strings.TrimLeft(p, "-*• ")
		if p = strings.TrimSpace(p); p != "" {
			points = append(points, p)
		}
	}
	return points
}
