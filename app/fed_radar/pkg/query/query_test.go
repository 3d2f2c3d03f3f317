package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	t.Parallel()

	q, ok := Build([]string{"CHIPS Act", "Semiconductors"}, "m")
	require.True(t, ok)

	assert.Equal(t, "m", q.DateFilter)
	assert.Equal(t, []string{"CHIPS Act", "Semiconductors"}, q.Keywords)
	assert.True(t, strings.HasPrefix(q.Text, `("CHIPS Act" OR "Semiconductors") AND `))
	assert.Contains(t, q.Text, RelevanceClause)
	assert.Contains(t, q.Text, SiteClause)
	assert.True(t, strings.HasSuffix(q.Text, ExclusionClause))
	assert.Equal(t,
		`("CHIPS Act" OR "Semiconductors") AND ("university research funding" OR "federal grant" OR "innovation ecosystem" OR "R&D policy") AND (site:.gov OR site:.edu OR site:.org) -jobs -admissions -curriculum`,
		q.Text)
}

func TestBuild_EveryKeywordQuoted(t *testing.T) {
	t.Parallel()

	keywords := []string{"NSF", "Quantum Computing", "AI Safety", "Regional Tech Hubs"}
	q, ok := Build(keywords, "w")
	require.True(t, ok)

	for _, k := range keywords {
		assert.Contains(t, q.Text, `"`+k+`"`)
	}
	assert.Equal(t, len(keywords)-1, strings.Count(q.Text[:strings.Index(q.Text, ") AND")], " OR "))
}

func TestBuild_Empty(t *testing.T) {
	t.Parallel()

	for _, keywords := range [][]string{nil, {}, {"", "  "}, {`""`}} {
		_, ok := Build(keywords, "w")
		assert.False(t, ok, "keywords %q", keywords)
	}
}

func TestBuild_NormalisesInput(t *testing.T) {
	t.Parallel()

	q, ok := Build([]string{`  "Tech Hubs" `, ""}, "")
	require.True(t, ok)

	assert.Equal(t, DefaultDateFilter, q.DateFilter)
	assert.True(t, strings.HasPrefix(q.Text, `("Tech Hubs") AND`))
}
