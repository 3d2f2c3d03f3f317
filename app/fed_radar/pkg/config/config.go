package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	env "github.com/netflix/go-env"
	"gopkg.in/yaml.v3"
)

// 默认值
const (
	DefaultSearchProvider    = "serper"
	DefaultScrapeTimeout     = 20
	DefaultScrapeConcurrency = 7
	DefaultMinParagraphChars = 200
	DefaultMaxBodyBytes      = 5 << 20
	DefaultUserAgent         = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	DefaultReportTitle       = "TUFF Fed Landscape Report"
	DefaultTopN              = 7
	DefaultLLMTimeout        = 60
	DefaultMaxContentChars   = 6000

	ExtractorParagraphs  = "paragraphs"
	ExtractorReadability = "readability"
)

// Config 项目配置结构体
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Search      SearchConfig      `yaml:"search"`
	Scrape      ScrapeConfig      `yaml:"scrape"`
	Report      ReportConfig      `yaml:"report"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	BaseURL         string `yaml:"base_url"`
	APIKey          string `yaml:"api_key"`
	Model           string `yaml:"model"`
	Timeout         int    `yaml:"timeout"`           // 单次调用超时（秒）
	MaxContentChars int    `yaml:"max_content_chars"` // 送入模型的正文上限
}

// SearchConfig 搜索相关配置
type SearchConfig struct {
	Provider string        `yaml:"provider"`
	Serper   SerperConfig  `yaml:"serper"`
	Tavily   TavilyConfig  `yaml:"tavily"`
	SearXNG  SearXNGConfig `yaml:"searxng"`
	Feeds    FeedsConfig   `yaml:"feeds"`
}

// SerperConfig Serper 配置
type SerperConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey string `yaml:"api_key"`
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// FeedsConfig RSS/Atom 订阅源配置
type FeedsConfig struct {
	URLs    []string `yaml:"urls"`
	Timeout int      `yaml:"timeout"`
}

// ScrapeConfig 正文抓取配置
type ScrapeConfig struct {
	Timeout           int    `yaml:"timeout"`     // 单篇抓取超时（秒）
	Concurrency       int    `yaml:"concurrency"` // 并发抓取上限
	UserAgent         string `yaml:"user_agent"`
	MinParagraphChars int    `yaml:"min_paragraph_chars"`
	MaxBodyBytes      int64  `yaml:"max_body_bytes"`
	Extractor         string `yaml:"extractor"` // paragraphs 或 readability
}

// ReportConfig 报告配置
type ReportConfig struct {
	Title string `yaml:"title"`
	TopN  int    `yaml:"top_n"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig LLM 调用限流配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// secrets 可通过环境变量覆盖的敏感配置
type secrets struct {
	SerperAPIKey string `env:"SERPER_API_KEY"`
	TavilyAPIKey string `env:"TAVILY_API_KEY"`
	LLMAPIKey    string `env:"LLM_API_KEY"`
	LLMBaseURL   string `env:"LLM_BASE_URL"`
	LLMModel     string `env:"LLM_MODEL"`
	LogLevel     string `env:"LOG_LEVEL"`
}

// LoadConfig 从指定路径加载配置，并使用环境变量（含 .env）覆盖密钥
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Prepare(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Prepare 依次覆盖环境变量、填充默认值并校验
func (c *Config) Prepare() error {
	// .env 不存在时忽略
	_ = godotenv.Load()
	if err := c.OverlayEnv(); err != nil {
		return err
	}

	c.ApplyDefaults()
	return c.Validate()
}

// OverlayEnv 用环境变量中非空的值覆盖配置
func (c *Config) OverlayEnv() error {
	var s secrets
	if _, err := env.UnmarshalFromEnviron(&s); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	override(&c.Search.Serper.APIKey, s.SerperAPIKey)
	override(&c.Search.Tavily.APIKey, s.TavilyAPIKey)
	override(&c.LLM.APIKey, s.LLMAPIKey)
	override(&c.LLM.BaseURL, s.LLMBaseURL)
	override(&c.LLM.Model, s.LLMModel)
	override(&c.Log.Level, s.LogLevel)
	return nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// ApplyDefaults 填充未配置的字段
func (c *Config) ApplyDefaults() {
	if c.Search.Provider == "" {
		c.Search.Provider = DefaultSearchProvider
	}
	if c.Scrape.Timeout <= 0 {
		c.Scrape.Timeout = DefaultScrapeTimeout
	}
	if c.Scrape.Concurrency <= 0 {
		c.Scrape.Concurrency = DefaultScrapeConcurrency
	}
	if c.Scrape.UserAgent == "" {
		c.Scrape.UserAgent = DefaultUserAgent
	}
	if c.Scrape.MinParagraphChars <= 0 {
		c.Scrape.MinParagraphChars = DefaultMinParagraphChars
	}
	if c.Scrape.MaxBodyBytes <= 0 {
		c.Scrape.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Scrape.Extractor == "" {
		c.Scrape.Extractor = ExtractorParagraphs
	}
	if c.Report.Title == "" {
		c.Report.Title = DefaultReportTitle
	}
	if c.Report.TopN <= 0 {
		c.Report.TopN = DefaultTopN
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = DefaultLLMTimeout
	}
	if c.LLM.MaxContentChars <= 0 {
		c.LLM.MaxContentChars = DefaultMaxContentChars
	}
	if c.Concurrency.QPS <= 0 {
		c.Concurrency.QPS = 1
	}
	if c.Concurrency.RPM <= 0 {
		c.Concurrency.RPM = 60
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate 校验必填项
func (c *Config) Validate() error {
	var errs []error
	switch c.Search.Provider {
	case "serper":
		if c.Search.Serper.APIKey == "" {
			errs = append(errs, errors.New("search.serper.api_key (SERPER_API_KEY) is required"))
		}
	case "tavily":
		if c.Search.Tavily.APIKey == "" {
			errs = append(errs, errors.New("search.tavily.api_key (TAVILY_API_KEY) is required"))
		}
	case "searxng":
		if c.Search.SearXNG.BaseURL == "" {
			errs = append(errs, errors.New("search.searxng.base_url is required"))
		}
	case "feeds":
		if len(c.Search.Feeds.URLs) == 0 {
			errs = append(errs, errors.New("search.feeds.urls is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown search provider: %s", c.Search.Provider))
	}
	if c.Scrape.Extractor != ExtractorParagraphs && c.Scrape.Extractor != ExtractorReadability {
		errs = append(errs, fmt.Errorf("unknown scrape extractor: %s", c.Scrape.Extractor))
	}
	if c.LLM.Model == "" {
		errs = append(errs, errors.New("llm.model (LLM_MODEL) is required"))
	}
	return errors.Join(errs...)
}
