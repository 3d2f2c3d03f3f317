package model

// SearchResult 搜索接口返回的原始记录，Link 为唯一标识
type SearchResult struct {
	Link     string `json:"link"`
	Title    string `json:"title"`
	Source   string `json:"source"`
	Snippet  string `json:"snippet,omitempty"`
	Date     string `json:"date,omitempty"` // 原样透传，不做解析
	ImageURL string `json:"image_url,omitempty"`
	Position int    `json:"position,omitempty"`
}

// Article 抓取正文并评分后的文章
type Article struct {
	SearchResult
	FullContent    string  `json:"full_content"`
	RelevanceScore float64 `json:"relevance_score"`
}

// NewArticle 由搜索结果创建文章
func NewArticle(r SearchResult) Article {
	return Article{SearchResult: r}
}

// WithContent 返回附带正文的新文章，不修改原值
func (a Article) WithContent(content string) Article {
	a.FullContent = content
	return a
}

// WithScore 返回附带相关性评分的新文章，不修改原值
func (a Article) WithScore(score float64) Article {
	a.RelevanceScore = score
	return a
}

// Summary 单篇文章的摘要
type Summary struct {
	Paragraph string   `json:"paragraph"`
	Points    []string `json:"points"`
}

// Outcome 单次外部调用的结果：成功时携带值，失败时携带原因
type Outcome[T any] struct {
	Value T
	Err   error
}

// Succeed 构造成功结果
func Succeed[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// Fail 构造失败结果，value 仍可携带部分信息（如失败文章的链接）
func Fail[T any](v T, err error) Outcome[T] {
	return Outcome[T]{Value: v, Err: err}
}

// OK 调用是否成功
func (o Outcome[T]) OK() bool {
	return o.Err == nil
}
