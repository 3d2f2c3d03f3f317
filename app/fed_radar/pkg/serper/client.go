package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/model"
	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/search"
)

// DefaultBaseURL Serper 新闻搜索地址
const DefaultBaseURL = "https://google.serper.dev/news"

// Client Serper API 客户端
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient 创建一个新的 Serper 客户端，baseURL 为空时使用默认地址
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Ensure Client implements search.Searcher
var _ search.Searcher = (*Client)(nil)

// SearchRequest Serper 请求体
type SearchRequest struct {
	Q   string `json:"q"`
	Tbs string `json:"tbs,omitempty"` // qdr:d / qdr:w / qdr:m ...
	Num int    `json:"num,omitempty"`
}

// SearchResponse Serper 响应，结果位于 news 字段
type SearchResponse struct {
	News []NewsResult `json:"news"`
}

// NewsResult 单条新闻结果
type NewsResult struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Date     string `json:"date"`
	Source   string `json:"source"`
	ImageURL string `json:"imageUrl"`
	Position int    `json:"position"`
}

// Search implements search.Searcher
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	payload := SearchRequest{Q: req.Query, Num: req.MaxResults}
	if req.DateFilter != "" {
		payload.Tbs = "qdr:" + req.DateFilter
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("X-API-KEY", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("serper api error (status %d): %s", res.StatusCode, string(data))
	}

	var searchResp SearchResponse
	if err := json.Unmarshal(data, &searchResp); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}

	results := make([]model.SearchResult, 0, len(searchResp.News))
	for _, r := range searchResp.News {
		results = append(results, model.SearchResult{
			Link:     r.Link,
			Title:    r.Title,
			Source:   r.Source,
			Snippet:  r.Snippet,
			Date:     r.Date,
			ImageURL: r.ImageURL,
			Position: r.Position,
		})
	}

	return &search.Response{Results: results}, nil
}
