package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/config"
	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/feeds"
	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/searxng"
	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/serper"
	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/tavily"
)

func TestNewSearcher(t *testing.T) {
	s, err := NewSearcher(&config.Config{Search: config.SearchConfig{Serper: config.SerperConfig{APIKey: "k"}}})
	require.NoError(t, err)
	assert.IsType(t, &serper.Client{}, s)

	s, err = NewSearcher(&config.Config{Search: config.SearchConfig{Provider: "tavily", Tavily: config.TavilyConfig{APIKey: "k"}}})
	require.NoError(t, err)
	assert.IsType(t, &tavily.Client{}, s)

	s, err = NewSearcher(&config.Config{Search: config.SearchConfig{Provider: "searxng", SearXNG: config.SearXNGConfig{BaseURL: "http://localhost"}}})
	require.NoError(t, err)
	assert.IsType(t, &searxng.Client{}, s)

	s, err = NewSearcher(&config.Config{Search: config.SearchConfig{Provider: "feeds", Feeds: config.FeedsConfig{URLs: []string{"https://www.nsf.gov/rss/rss_www_news.xml"}}}})
	require.NoError(t, err)
	assert.IsType(t, &feeds.Client{}, s)
}

func TestNewSearcher_Errors(t *testing.T) {
	for _, cfg := range []*config.Config{
		{},
		{Search: config.SearchConfig{Provider: "tavily"}},
		{Search: config.SearchConfig{Provider: "searxng"}},
		{Search: config.SearchConfig{Provider: "feeds"}},
		{Search: config.SearchConfig{Provider: "bing"}},
	} {
		_, err := NewSearcher(cfg)
		assert.Error(t, err, "provider %q", cfg.Search.Provider)
	}
}
