package service

import (
	"context"
	nethttp "net/http"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/fed_radar/app/server/internal/biz"
)

const (
	OperationProcess = "/fed_radar.v1.Radar/Process"
	OperationHealthz = "/fed_radar.v1.Radar/Healthz"
)

// ProcessRequest POST /api/process 请求体
type ProcessRequest struct {
	RecipientEmail   string   `json:"recipient_email"`
	SelectedKeywords []string `json:"selected_keywords"`
	DateFilter       string   `json:"date_filter"`
}

// RadarService 对外 HTTP 接口
type RadarService struct {
	uc  *biz.ProcessUseCase
	log *log.Helper
}

func NewRadarService(uc *biz.ProcessUseCase, logger log.Logger) *RadarService {
	return &RadarService{uc: uc, log: log.NewHelper(logger)}
}

// Process 生成报告。请求体无法解析时返回 400，其余情况总是 200 + 结构化结果。
func (s *RadarService) Process(ctx http.Context) error {
	var in ProcessRequest
	if err := ctx.Bind(&in); err != nil {
		return errors.BadRequest("INVALID_REQUEST", err.Error())
	}
	http.SetOperation(ctx, OperationProcess)

	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		r := req.(*ProcessRequest)
		return s.uc.Process(ctx, &biz.ProcessRequest{
			RecipientEmail:   r.RecipientEmail,
			SelectedKeywords: r.SelectedKeywords,
			DateFilter:       r.DateFilter,
		}), nil
	})
	out, err := h(ctx, &in)
	if err != nil {
		return err
	}
	return ctx.Result(nethttp.StatusOK, out)
}

// Healthz 存活检查
func (s *RadarService) Healthz(ctx http.Context) error {
	http.SetOperation(ctx, OperationHealthz)
	return ctx.Result(nethttp.StatusOK, map[string]string{"status": "ok"})
}
