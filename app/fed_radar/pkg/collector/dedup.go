package collector

import (
	"strings"

	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/model"
)

// MaxArticles 每轮最多抓取的文章数，搜索结果默认已按相关性/时间排序
const MaxArticles = 7

// Dedupe 按链接去重，保留首次出现的记录并维持原顺序；链接为空的记录直接丢弃。
// 结果截断到 limit 条，limit <= 0 表示不截断。
func Dedupe(results []model.SearchResult, limit int) []model.SearchResult {
	seen := make(map[string]struct{}, len(results))
	unique := make([]model.SearchResult, 0, len(results))
	for _, r := range results {
		link := strings.TrimSpace(r.Link)
		if link == "" {
			continue
		}
		if _, ok := seen[link]; ok {
			continue
		}
		seen[link] = struct{}{}
		unique = append(unique, r)
	}

	if limit > 0 && len(unique) > limit {
		unique = unique[:limit]
	}
	return unique
}
