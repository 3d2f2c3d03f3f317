package llm

import (
	"context"
	"fmt"
	"math"

	"github.com/cloudwego/eino/components/model"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/config"
)

const classifierPrompt = `You are a federal policy analyst. Judge how relevant the article below is to the following context.

Context:
%s

Respond with JSON only, no markdown:
{"score": 0.0, "reason": "one sentence"}
score is a number between 0 and 1, where 1 means highly relevant.

Article:
%s`

type relevanceResponse struct {
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// Classifier 基于 LLM 的相关性评分
type Classifier struct {
	caller jsonCaller
}

// NewClassifier 创建相关性评分器
func NewClassifier(cm model.BaseChatModel, limiter *rate.Limiter, cfg config.LLMConfig) *Classifier {
	return &Classifier{caller: newJSONCaller(cm, limiter, cfg)}
}

// EvaluateRelevance 返回 [0,1] 区间的相关性评分
func (c *Classifier) EvaluateRelevance(ctx context.Context, content, relevanceContext string) (float64, error) {
	var resp relevanceResponse
	prompt := fmt.Sprintf(classifierPrompt, relevanceContext, c.caller.truncate(content))
	if err := c.caller.generateJSON(ctx, "You are a JSON generator. Output only JSON.", prompt, &resp); err != nil {
		return 0, fmt.Errorf("evaluate relevance: %w", err)
	}
	return clamp(resp.Score), nil
}

func clamp(score float64) float64 {
	switch {
	case math.IsNaN(score), score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}
