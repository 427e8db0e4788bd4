// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kitab-ai-api/internal/config"
	"kitab-ai-api/internal/interfaces/http/handler"
	"kitab-ai-api/internal/interfaces/http/middleware"
)

const defaultMetricsPath = "/metrics"

// RouterHandlers 路由依赖的处理器集合
type RouterHandlers struct {
	Health *handler.HealthHandler
	Book   *handler.BookHandler
}

// Router HTTP 路由器
type Router struct {
	engine   *gin.Engine
	cfg      *config.Config
	handlers RouterHandlers
	limiter  middleware.RateLimiter
}

// NewWithDeps 创建路由器；limiter 为空时生成接口不限流
func NewWithDeps(cfg *config.Config, handlers RouterHandlers, limiter middleware.RateLimiter) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:   gin.New(),
		cfg:      cfg,
		handlers: handlers,
		limiter:  limiter,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置全局中间件
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics(r.metricsPath()))
	}
}

func (r *Router) metricsPath() string {
	if path := r.cfg.Observability.Metrics.Path; path != "" {
		return path
	}
	return defaultMetricsPath
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	health := r.handlers.Health
	r.engine.GET("/health", health.Health)
	r.engine.GET("/ready", health.Ready)
	r.engine.GET("/live", health.Live)

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.metricsPath(), gin.WrapH(promhttp.Handler()))
	}

	rl := r.cfg.Security.RateLimit
	generateLimit := middleware.RateLimit(middleware.RateLimitConfig{
		Enabled:           rl.Enabled,
		RequestsPerWindow: rl.RequestsPerWindow,
		Window:            rl.Window,
		KeyPrefix:         rl.KeyPrefix,
	}, r.limiter)

	v1 := r.engine.Group("/v1", middleware.BodyLimit(r.cfg.Security.MaxBodyBytes))
	RegisterV1Routes(v1, r.handlers.Book, generateLimit)
}
