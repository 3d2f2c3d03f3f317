package query

import (
	"fmt"
	"strings"
)

// 固定子句：联邦/学术资助相关词、允许的站点范围、排除的列表页
const (
	RelevanceClause = `("university research funding" OR "federal grant" OR "innovation ecosystem" OR "R&D policy")`
	SiteClause      = `(site:.gov OR site:.edu OR site:.org)`
	ExclusionClause = `-jobs -admissions -curriculum`

	// DefaultDateFilter 未指定时按周检索
	DefaultDateFilter = "w"
)

// Query 构造完成的检索表达式
type Query struct {
	Text       string
	DateFilter string
	Keywords   []string // 清洗后的关键词，供不支持布尔表达式的数据源使用
}

// Build 将关键词合并为一条 OR 联合检索，每次请求只发起一次搜索。
// 没有有效关键词时返回 ok=false，调用方应直接跳过搜索。
func Build(keywords []string, dateFilter string) (Query, bool) {
	phrases := make([]string, 0, len(keywords))
	cleaned := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(strings.ReplaceAll(k, `"`, ""))
		if k == "" {
			continue
		}
		cleaned = append(cleaned, k)
		phrases = append(phrases, `"`+k+`"`)
	}
	if len(phrases) == 0 {
		return Query{}, false
	}

	if dateFilter = strings.TrimSpace(dateFilter); dateFilter == "" {
		dateFilter = DefaultDateFilter
	}

	text := fmt.Sprintf("(%s) AND %s AND %s %s",
		strings.Join(phrases, " OR "), RelevanceClause, SiteClause, ExclusionClause)

	return Query{Text: text, DateFilter: dateFilter, Keywords: cleaned}, true
}
