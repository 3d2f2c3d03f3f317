package server

import (
	"context"
	"errors"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/config"
	"github.com/iWorld-y/fed_radar/app/fed_radar/pkg/engine"
	frLogger "github.com/iWorld-y/fed_radar/app/fed_radar/pkg/logger"
	"github.com/iWorld-y/fed_radar/app/server/internal/conf"
)

// RadarConfig 将 internal/conf.Radar 转换为 pkg/config.Config，并补全环境变量与默认值
func RadarConfig(c *conf.Radar) (*config.Config, error) {
	if c == nil {
		return nil, errors.New("radar config is missing")
	}

	cfg := &config.Config{
		LLM: config.LLMConfig{
			BaseURL:         c.Llm.BaseUrl,
			APIKey:          c.Llm.ApiKey,
			Model:           c.Llm.Model,
			Timeout:         int(c.Llm.Timeout),
			MaxContentChars: int(c.Llm.MaxContentChars),
		},
		Search: config.SearchConfig{
			Provider: c.Search.Provider,
			Serper: config.SerperConfig{
				APIKey:  c.Search.Serper.ApiKey,
				BaseURL: c.Search.Serper.BaseUrl,
			},
			Tavily: config.TavilyConfig{
				APIKey: c.Search.Tavily.ApiKey,
			},
			SearXNG: config.SearXNGConfig{
				BaseURL: c.Search.Searxng.BaseUrl,
				Timeout: int(c.Search.Searxng.Timeout),
			},
			Feeds: config.FeedsConfig{
				URLs:    c.Search.Feeds.Urls,
				Timeout: int(c.Search.Feeds.Timeout),
			},
		},
		Scrape: config.ScrapeConfig{
			Timeout:           int(c.Scrape.Timeout),
			Concurrency:       int(c.Scrape.Concurrency),
			UserAgent:         c.Scrape.UserAgent,
			MinParagraphChars: int(c.Scrape.MinParagraphChars),
			MaxBodyBytes:      c.Scrape.MaxBodyBytes,
			Extractor:         c.Scrape.Extractor,
		},
		Report: config.ReportConfig{
			Title: c.Report.Title,
			TopN:  int(c.Report.TopN),
		},
		Log: config.LogConfig{
			Level: c.Log.Level,
			File:  c.Log.File,
		},
		Concurrency: config.ConcurrencyConfig{
			QPS: int(c.Concurrency.Qps),
			RPM: int(c.Concurrency.Rpm),
		},
	}

	if err := cfg.Prepare(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewRadarEngine 初始化 fed_radar 引擎
func NewRadarEngine(c *conf.Radar, logger log.Logger) (*engine.Engine, func(), error) {
	helper := log.NewHelper(logger)

	cfg, err := RadarConfig(c)
	if err != nil {
		helper.Errorf("Invalid radar config: %v", err)
		return nil, nil, err
	}

	// 初始化日志
	if err := frLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		helper.Errorf("Failed to init fed_radar logger: %v", err)
		_ = frLogger.InitLogger("info", "") // 降级处理
	}

	eng, err := engine.NewFromConfig(context.Background(), cfg)
	if err != nil {
		helper.Errorf("Failed to init engine: %v", err)
		return nil, nil, err
	}

	cleanup := func() {
		helper.Info("Cleaning up fed_radar engine")
	}
	return eng, cleanup, nil
}
