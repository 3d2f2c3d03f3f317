package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/config"
)

// fakeChatModel 返回预设内容并记录收到的消息
type fakeChatModel struct {
	reply    string
	err      error
	delay    time.Duration
	received [][]*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.received = append(f.received, input)
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &schema.Message{Role: schema.Assistant, Content: f.reply}, nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

var testCfg = config.LLMConfig{Timeout: 5, MaxContentChars: 50}

func unlimited() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}

func TestClassifier_EvaluateRelevance(t *testing.T) {
	cm := &fakeChatModel{reply: "```json\n{\"score\": 0.82, \"reason\": \"grant news\"}\n```"}
	c := NewClassifier(cm, unlimited(), testCfg)

	score, err := c.EvaluateRelevance(context.Background(), strings.Repeat("x", 200), "federal grants for NSF")
	require.NoError(t, err)
	assert.InDelta(t, 0.82, score, 1e-9)

	require.Len(t, cm.received, 1)
	msgs := cm.received[0]
	require.Len(t, msgs, 2)
	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Equal(t, schema.User, msgs[1].Role)
	assert.Contains(t, msgs[1].Content, "federal grants for NSF")
	assert.Contains(t, msgs[1].Content, strings.Repeat("x", 50))
	assert.NotContains(t, msgs[1].Content, strings.Repeat("x", 51))
}

func TestClassifier_ClampsScore(t *testing.T) {
	for reply, want := range map[string]float64{
		`{"score": 1.7}`:  1,
		`{"score": -0.2}`: 0,
		`{"score": 0}`:    0,
	} {
		c := NewClassifier(&fakeChatModel{reply: reply}, nil, testCfg)
		score, err := c.EvaluateRelevance(context.Background(), "text", "ctx")
		require.NoError(t, err)
		assert.Equal(t, want, score, reply)
	}
}

func TestClassifier_Errors(t *testing.T) {
	reason := errors.New("upstream 500")
	_, err := NewClassifier(&fakeChatModel{err: reason}, nil, testCfg).EvaluateRelevance(context.Background(), "t", "c")
	assert.ErrorIs(t, err, reason)

	_, err = NewClassifier(&fakeChatModel{reply: "I think 0.8"}, nil, testCfg).EvaluateRelevance(context.Background(), "t", "c")
	assert.ErrorContains(t, err, "json unmarshal")
}

func TestClassifier_Timeout(t *testing.T) {
	cfg := testCfg
	cfg.Timeout = 0
	c := NewClassifier(&fakeChatModel{reply: `{"score":1}`, delay: time.Second}, nil, cfg)
	c.caller.timeout = 20 * time.Millisecond

	_, err := c.EvaluateRelevance(context.Background(), "t", "c")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSummarizer_GenerateSummary(t *testing.T) {
	cm := &fakeChatModel{reply: `{"paragraph":" NSF launched a program. ","points":["- First","Second",""]}`}
	s := NewSummarizer(cm, unlimited(), testCfg)

	sum, err := s.GenerateSummary(context.Background(), "article body")
	require.NoError(t, err)
	assert.Equal(t, "NSF launched a program.", sum.Paragraph)
	assert.Equal(t, []string{"First", "Second"}, sum.Points)
	assert.Contains(t, cm.received[0][1].Content, "article body")
}

func TestSummarizer_PointsAsString(t *testing.T) {
	cm := &fakeChatModel{reply: `{"paragraph":"p","points":"- one\n- two\n"}`}

	sum, err := NewSummarizer(cm, nil, testCfg).GenerateSummary(context.Background(), "body")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, sum.Points)
}

func TestSummarizer_Error(t *testing.T) {
	_, err := NewSummarizer(&fakeChatModel{reply: "not json"}, nil, testCfg).GenerateSummary(context.Background(), "body")
	assert.Error(t, err)
}

func TestLimiterHonoursContext(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	require.True(t, limiter.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClassifier(&fakeChatModel{reply: `{"score":1}`}, limiter, testCfg).EvaluateRelevance(ctx, "t", "c")
	assert.ErrorContains(t, err, "limiter wait error")
}

func TestNewLimiter(t *testing.T) {
	l := NewLimiter(config.ConcurrencyConfig{QPS: 2, RPM: 120})
	assert.Equal(t, rate.Limit(2), l.Limit())
	assert.Equal(t, 2, l.Burst())
}
