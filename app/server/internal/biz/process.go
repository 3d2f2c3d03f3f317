package biz

import (
	"context"
	"strings"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/engine"
	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/query"
)

// ProcessRequest 一次报告生成请求
type ProcessRequest struct {
	RecipientEmail   string
	SelectedKeywords []string
	DateFilter       string
}

// Runner 执行报告生成的引擎
type Runner interface {
	Run(ctx context.Context, opts engine.RunOptions) *engine.Response
}

// ProcessUseCase 报告生成业务逻辑
type ProcessUseCase struct {
	runner Runner
	log    *log.Helper
}

// NewProcessUseCase 创建报告生成业务逻辑实例
func NewProcessUseCase(runner Runner, logger log.Logger) *ProcessUseCase {
	return &ProcessUseCase{runner: runner, log: log.NewHelper(logger)}
}

// Process 执行一次报告生成，结果总是结构化响应
func (uc *ProcessUseCase) Process(ctx context.Context, req *ProcessRequest) *engine.Response {
	dateFilter := strings.TrimSpace(req.DateFilter)
	if dateFilter == "" {
		dateFilter = query.DefaultDateFilter
	}

	uc.log.WithContext(ctx).Infof("process request: recipient=%s keywords=%d date=%s",
		req.RecipientEmail, len(req.SelectedKeywords), dateFilter)

	resp := uc.runner.Run(ctx, engine.RunOptions{
		RecipientEmail: req.RecipientEmail,
		Keywords:       req.SelectedKeywords,
		DateFilter:     dateFilter,
		ProgressCallback: func(status string, progress int) {
			uc.log.WithContext(ctx).Debugf("progress %d%%: %s", progress, status)
		},
	})
	if resp.Status != engine.StatusSuccess {
		uc.log.WithContext(ctx).Errorf("process failed: %s", resp.Message)
	}
	return resp
}
