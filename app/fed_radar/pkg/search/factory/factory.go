package factory

import (
	"fmt"

	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/config"
	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/feeds"
	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/search"
	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/searxng"
	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/serper"
	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/tavily"
)

// NewSearcher 根据配置创建搜索实例
func NewSearcher(cfg *config.Config) (search.Searcher, error) {
	provider := cfg.Search.Provider
	if provider == "" {
		provider = config.DefaultSearchProvider
	}

	switch provider {
	case "serper":
		if cfg.Search.Serper.APIKey == "" {
			return nil, fmt.Errorf("serper api key is missing")
		}
		return serper.NewClient(cfg.Search.Serper.APIKey, cfg.Search.Serper.BaseURL), nil

	case "tavily":
		if cfg.Search.Tavily.APIKey == "" {
			return nil, fmt.Errorf("tavily api key is missing")
		}
		return tavily.NewClient(cfg.Search.Tavily.APIKey), nil

	case "searxng":
		baseURL := cfg.Search.SearXNG.BaseURL
		if baseURL == "" {
			return nil, fmt.Errorf("searxng base url is missing")
		}
		return searxng.NewClient(baseURL, cfg.Search.SearXNG.Timeout), nil

	case "feeds":
		if len(cfg.Search.Feeds.URLs) == 0 {
			return nil, fmt.Errorf("feed urls are missing")
		}
		return feeds.NewClient(cfg.Search.Feeds.URLs, cfg.Search.Feeds.Timeout), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", provider)
	}
}
