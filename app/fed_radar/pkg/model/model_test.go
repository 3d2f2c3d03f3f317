package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArticle_WithContentDoesNotMutate(t *testing.T) {
	base := NewArticle(SearchResult{Link: "https://a.gov/x", Title: "X"})

	withContent := base.WithContent("body")
	scored := withContent.WithScore(0.8)

	assert.Empty(t, base.FullContent)
	assert.Zero(t, base.RelevanceScore)
	assert.Equal(t, "body", withContent.FullContent)
	assert.Zero(t, withContent.RelevanceScore)
	assert.Equal(t, "body", scored.FullContent)
	assert.Equal(t, 0.8, scored.RelevanceScore)
	assert.Equal(t, "https://a.gov/x", scored.Link)
}

func TestOutcome(t *testing.T) {
	ok := Succeed(3)
	assert.True(t, ok.OK())
	assert.Equal(t, 3, ok.Value)

	reason := errors.New("boom")
	failed := Fail("link", reason)
	assert.False(t, failed.OK())
	assert.Equal(t, "link", failed.Value)
	assert.ErrorIs(t, failed.Err, reason)
}
