package search

import (
	"context"
	"time"

	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/model"
)

// Searcher 定义通用的搜索接口，每次调用只发起一次网络请求，不重试
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Request 通用搜索请求
type Request struct {
	Query      string
	DateFilter string // d/w/m/y，原样传给各搜索服务
	Keywords   []string
	MaxResults int
}

// Response 通用搜索响应
type Response struct {
	Results []model.SearchResult
}

// TimeRange 将日期过滤码映射为 day/week/month/year，无法识别时返回空串
func TimeRange(dateFilter string) string {
	switch dateFilter {
	case "h", "d":
		return "day"
	case "w":
		return "week"
	case "m":
		return "month"
	case "y":
		return "year"
	default:
		return ""
	}
}

// Window 将日期过滤码换算为时间窗口，无法识别时返回 0（不限制）
func Window(dateFilter string) time.Duration {
	switch dateFilter {
	case "h":
		return time.Hour
	case "d":
		return 24 * time.Hour
	case "w":
		return 7 * 24 * time.Hour
	case "m":
		return 30 * 24 * time.Hour
	case "y":
		return 365 * 24 * time.Hour
	default:
		return 0
	}
}
