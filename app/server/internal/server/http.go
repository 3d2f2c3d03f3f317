package server

import (
	nethttp "net/http"
	"slices"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/gorilla/handlers"

	"github.com/iWorld-y/fed_radar/app/server/internal/conf"
	"github.com/iWorld-y/fed_radar/app/server/internal/service"
)

// DefaultTimeout 一次请求包含搜索、抓取和多次 LLM 调用，kratos 默认的 1s 远远不够
const DefaultTimeout = 5 * time.Minute

func NewHTTPServer(c *conf.Server, s *service.RadarService, logger log.Logger) *http.Server {
	timeout := DefaultTimeout
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
		http.Filter(corsFilter(c)),
	}
	if c != nil && c.Http != nil {
		if c.Http.Addr != "" {
			opts = append(opts, http.Address(c.Http.Addr))
		}
		if c.Http.Timeout != "" {
			if d, err := time.ParseDuration(c.Http.Timeout); err == nil {
				timeout = d
			} else {
				log.NewHelper(logger).Warnf("invalid http timeout %q, using %s", c.Http.Timeout, timeout)
			}
		}
	}
	opts = append(opts, http.Timeout(timeout))

	srv := http.NewServer(opts...)

	r := srv.Route("/")
	r.POST("/api/process", s.Process)
	r.GET("/healthz", s.Healthz)

	return srv
}

func corsFilter(c *conf.Server) http.FilterFunc {
	origins := []string{"*"}
	if c != nil && c.Cors != nil && len(c.Cors.AllowedOrigins) > 0 {
		origins = c.Cors.AllowedOrigins
	}

	opts := []handlers.CORSOption{
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{nethttp.MethodGet, nethttp.MethodPost, nethttp.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	}
	// 浏览器不接受通配来源携带凭证
	if !slices.Contains(origins, "*") {
		opts = append(opts, handlers.AllowCredentials())
	}
	return handlers.CORS(opts...)
}
