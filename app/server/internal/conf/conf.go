package conf

type Bootstrap struct {
	Server *Server
	Radar  *Radar
}

type Server struct {
	Http *HTTP
	Cors *CORS `json:"cors"`
}

type HTTP struct {
	Addr    string
	Timeout string
}

// CORS 跨域配置，AllowedOrigins 为空时允许任意来源
type CORS struct {
	AllowedOrigins []string `json:"allowed_origins"`
}

type Radar struct {
	Llm         LLM         `json:"llm"`
	Search      Search      `json:"search"`
	Scrape      Scrape      `json:"scrape"`
	Report      Report      `json:"report"`
	Log         Log         `json:"log"`
	Concurrency Concurrency `json:"concurrency"`
}

type LLM struct {
	BaseUrl         string `json:"base_url"`
	ApiKey          string `json:"api_key"`
	Model           string `json:"model"`
	Timeout         int32  `json:"timeout"`
	MaxContentChars int32  `json:"max_content_chars"`
}

type Search struct {
	Provider string  `json:"provider"`
	Serper   Serper  `json:"serper"`
	Tavily   Tavily  `json:"tavily"`
	Searxng  SearXNG `json:"searxng"`
	Feeds    Feeds   `json:"feeds"`
}

type Serper struct {
	ApiKey  string `json:"api_key"`
	BaseUrl string `json:"base_url"`
}

type Tavily struct {
	ApiKey string `json:"api_key"`
}

type SearXNG struct {
	BaseUrl string `json:"base_url"`
	Timeout int32  `json:"timeout"`
}

type Feeds struct {
	Urls    []string `json:"urls"`
	Timeout int32    `json:"timeout"`
}

type Scrape struct {
	Timeout           int32  `json:"timeout"`
	Concurrency       int32  `json:"concurrency"`
	UserAgent         string `json:"user_agent"`
	MinParagraphChars int32  `json:"min_paragraph_chars"`
	MaxBodyBytes      int64  `json:"max_body_bytes"`
	Extractor         string `json:"extractor"`
}

type Report struct {
	Title string `json:"title"`
	TopN  int32  `json:"top_n"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}
