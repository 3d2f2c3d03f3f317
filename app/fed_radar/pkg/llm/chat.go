package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/config"
)

// NewChatModel 初始化兼容 OpenAI 协议的 LLM
func NewChatModel(ctx context.Context, cfg config.LLMConfig) (model.BaseChatModel, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return cm, nil
}

// NewLimiter 根据配置创建限流器：Limit 为 RPM/60，Burst 为 QPS
func NewLimiter(cfg config.ConcurrencyConfig) *rate.Limiter {
	limit := rate.Limit(float64(cfg.RPM) / 60.0)
	return rate.NewLimiter(limit, cfg.QPS)
}

// jsonCaller 发送单次请求并把返回内容解析为 JSON，不做重试
type jsonCaller struct {
	cm       model.BaseChatModel
	limiter  *rate.Limiter
	timeout  time.Duration
	maxChars int
}

func newJSONCaller(cm model.BaseChatModel, limiter *rate.Limiter, cfg config.LLMConfig) jsonCaller {
	return jsonCaller{
		cm:       cm,
		limiter:  limiter,
		timeout:  time.Duration(cfg.Timeout) * time.Second,
		maxChars: cfg.MaxContentChars,
	}
}

func (c jsonCaller) generateJSON(ctx context.Context, system, user string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("limiter wait error: %w", err)
		}
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages := []*schema.Message{
		{Role: schema.System, Content: system},
		{Role: schema.User, Content: user},
	}

	resp, err := c.cm.Generate(ctx, messages)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	if resp == nil {
		return fmt.Errorf("generate: empty response")
	}

	clean := cleanJSON(resp.Content)
	if err := json.Unmarshal([]byte(clean), out); err != nil {
		return fmt.Errorf("json unmarshal error: %w, content: %s", err, clean)
	}
	return nil
}

// truncate 截断内容以防止超出 Token 限制
func (c jsonCaller) truncate(content string) string {
	if c.maxChars <= 0 {
		return content
	}
	runes := []rune(content)
	if len(runes) <= c.maxChars {
		return content
	}
	return string(runes[:c.maxChars])
}

// cleanJSON 清理可能的 markdown 标记
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
